package main

import (
	"github.com/spf13/cobra"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/render"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/report"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/webui"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the boleta over HTTP",
		Long: `Serve the boleta as an HTML page, as JSON under /api/report and as
PNG pages under /page/N. The config filter is the default; query parameters
shift, line and part override it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.validate(false, false); err != nil {
				return err
			}
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
			srv := webui.NewServer(
				webui.Config{Addr: addr, Defaults: cfg.Filter},
				svc,
				render.NewPNGRenderer(fonts, cfg.Layout.PageWidth, cfg.Layout.PageHeight),
				a.log,
			)
			a.log.Info("listening", "addr", addr)
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
