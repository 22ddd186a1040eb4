package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/bom"
)

func newBOMCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bom",
		Short: "Query the bill of materials and log missing components",
	}
	cmd.AddCommand(newBOMListCmd(a), newBOMHasCmd(a), newBOMAddCmd(a))
	return cmd
}

func (a *app) openCatalog(cmd *cobra.Command) (*bom.Catalog, error) {
	if err := a.validate(false, true); err != nil {
		return nil, err
	}
	return bom.Open(cmd.Context(), a.cfg.BOM)
}

func newBOMListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list MATERIAL",
		Short: "List the components of a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.openCatalog(cmd)
			if err != nil {
				return err
			}
			defer cat.Close()

			lines, err := cat.Components(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(lines) == 0 {
				fmt.Fprintf(out, "%s has no components\n", args[0])
				return nil
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(borderStyle).
				Headers("Componente", "Descripcion", "Cantidad", "Unidad").
				StyleFunc(func(row, _ int) lipgloss.Style {
					if row == table.HeaderRow {
						return headerStyle
					}
					return cellStyle
				})
			for _, l := range lines {
				t.Row(l.Component, l.Description, formatQty(l.Quantity), l.Unit)
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
}

func newBOMHasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "has MATERIAL",
		Short: "Report whether a material has its own bill of materials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.openCatalog(cmd)
			if err != nil {
				return err
			}
			defer cat.Close()

			ok, err := cat.HasBOM(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func newBOMAddCmd(a *app) *cobra.Command {
	var (
		qtys []string
		id   string
	)
	cmd := &cobra.Command{
		Use:   "add MATERIAL",
		Short: "Append the components of a material to the rejection log",
		Long: `Append one SUBBOM line per component of MATERIAL. Components with a
quantity of zero are logged as omitted (missing). Override catalog quantities
with --qty CODE=QTY, repeated as needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(qtys)
			if err != nil {
				return err
			}
			if err := a.validate(true, true); err != nil {
				return err
			}
			ctx := cmd.Context()

			cat, err := bom.Open(ctx, a.cfg.BOM)
			if err != nil {
				return err
			}
			defer cat.Close()
			lines, err := cat.Components(ctx, args[0])
			if err != nil {
				return err
			}

			var newID func() string
			if id != "" {
				newID = func() string { return id }
			}
			recs, err := bom.BuildRecords(args[0], lines, overrides, newID)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has no components to log\n", args[0])
				return nil
			}

			repo, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()
			n, err := a.appendRecords(ctx, repo, recs)
			if err != nil {
				return err
			}
			a.log.Info("components logged", "material", args[0], "registro_id", recs[0].RegistroID, "lines", n)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", recs[0].RegistroID, n)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&qtys, "qty", nil, "quantity override CODE=QTY")
	cmd.Flags().StringVar(&id, "id", "", "registro id to attach the lines to; a new UUID when empty")
	return cmd
}

// parseOverrides reads CODE=QTY pairs.
func parseOverrides(pairs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(pairs))
	for _, p := range pairs {
		code, raw, ok := strings.Cut(p, "=")
		code = strings.TrimSpace(code)
		if !ok || code == "" {
			return nil, fmt.Errorf("--qty %q: want CODE=QTY", p)
		}
		q, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("--qty %q: %w", p, err)
		}
		if err := bom.ValidateQuantity(q); err != nil {
			return nil, fmt.Errorf("--qty %q: %w", p, err)
		}
		out[code] = q
	}
	return out, nil
}

// formatQty shows whole quantities with thousands separators and keeps up
// to three decimals otherwise.
func formatQty(q decimal.Decimal) string {
	if q.IsInteger() {
		return humanize.Comma(q.IntPart())
	}
	return humanize.FormatFloat("#,###.###", q.InexactFloat64())
}
