package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/render"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/report"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		shift, line, part string
		format            string
		outDir            string
		layoutJSON        string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the boleta for the configured filter",
		Long: `Load the rejection log, keep the records matching the filter,
aggregate them into boleta rows and lay the rows out on pages.

Filter flags override the filter section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.validate(false, false); err != nil {
				return err
			}
			f := a.cfg.Filter
			if cmd.Flags().Changed("shift") {
				f.Shift = shift
			}
			if cmd.Flags().Changed("line") {
				f.Line = line
			}
			if cmd.Flags().Changed("part") {
				f.PartNumber = part
			}
			return a.runReport(cmd, f, format, outDir, layoutJSON)
		},
	}
	cmd.Flags().StringVar(&shift, "shift", "", "only records of this shift")
	cmd.Flags().StringVar(&line, "line", "", "only records of this line")
	cmd.Flags().StringVar(&part, "part", "", "only records of this part number")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "row output: table, csv or json")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "write one PNG per page into this directory")
	cmd.Flags().StringVar(&layoutJSON, "layout-json", "", "write the page layout as JSON to this file")
	return cmd
}

func (a *app) runReport(cmd *cobra.Command, f records.Filter, format, outDir, layoutJSON string) error {
	ctx := cmd.Context()
	cfg := a.cfg

	loader, closeLoader, err := report.NewLoader(ctx, &cfg, a.log)
	if err != nil {
		return err
	}
	defer closeLoader()

	fonts, err := render.LoadFonts(cfg.Layout.FontPath, cfg.Layout.BoldFontPath, cfg.Layout.DPI)
	if err != nil {
		return err
	}
	svc := report.NewService(loader, report.Options{
		Job:      cfg.Job,
		Geometry: cfg.Layout.Geometry(),
		Measurer: render.NewMeasurer(fonts),
		MaxRows:  cfg.Runtime.MaxRows,
		Log:      a.log,
	})
	res, err := svc.Build(ctx, f)
	if err != nil {
		return err
	}

	if err := writeResult(cmd.OutOrStdout(), format, res); err != nil {
		return err
	}
	if layoutJSON != "" {
		if err := writeLayout(layoutJSON, res); err != nil {
			return err
		}
	}
	if outDir != "" && !res.Empty() {
		r := render.NewPNGRenderer(fonts, cfg.Layout.PageWidth, cfg.Layout.PageHeight)
		files, err := render.RenderAll(ctx, r, res.Pages, outDir, cfg.Runtime.RenderWorkers)
		if err != nil {
			return err
		}
		a.log.Info("pages written", "dir", outDir, "pages", len(files))
	}
	return nil
}

func writeLayout(path string, res *report.Result) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
