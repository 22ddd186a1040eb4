package main

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/config"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/datasource"
	csvparser "github.com/JosueFrayreGarcia777/ScrapSystem/internal/parser/csv"
)

func newProbeCmd(a *app) *cobra.Command {
	var (
		sample int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "probe [CSV]",
		Short: "Show how a CSV export maps to the rejection log columns",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcCfg := a.cfg.Source
			if len(args) == 1 {
				srcCfg = config.Source{Kind: "file", File: config.SourceFile{Path: args[0]}}
			}
			src, err := datasource.New(srcCfg)
			if err != nil {
				return err
			}
			rc, err := src.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer rc.Close()

			p, err := csvparser.ProbeHeader(rc, csvparser.OptionsFrom(a.cfg.Parser.Options), sample)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				BorderStyle(borderStyle).
				Headers("Header", "Columna").
				StyleFunc(func(row, _ int) lipgloss.Style {
					if row == table.HeaderRow {
						return headerStyle
					}
					return cellStyle
				})
			for _, h := range p.Headers {
				col := h.Column
				if col == "" {
					col = "(ignored)"
				}
				t.Row(h.Source, col)
			}
			fmt.Fprintln(out, t.Render())
			if len(p.Missing) > 0 {
				fmt.Fprintf(out, "missing (defaulted): %v\n", p.Missing)
			}
			fmt.Fprintf(out, "sampled %d rows: %d ok, %d parse errors, %d anomalies\n",
				p.Sampled, p.Stats.Rows, p.Stats.ParseErrors, p.Stats.Anomalies)
			return nil
		},
	}
	cmd.Flags().IntVar(&sample, "sample", 1000, "data rows to inspect; 0 reads everything")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the probe as JSON")
	return cmd
}
