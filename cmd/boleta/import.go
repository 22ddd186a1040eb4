package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/config"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/datasource"
	csvparser "github.com/JosueFrayreGarcia777/ScrapSystem/internal/parser/csv"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [CSV]",
		Short: "Load a CSV rejection log into the storage backend",
		Long: `Stream a CSV export of the rejection log into the configured storage
backend in batches of runtime.batch_size rows.

Without an argument the configured file or http source is read.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := a.cfg.Source
			if len(args) == 1 {
				src = config.Source{Kind: "file", File: config.SourceFile{Path: args[0]}}
			}
			if src.Kind == "db" {
				return fmt.Errorf("import needs a file or http source, got source.kind=db")
			}
			if err := a.validate(true, false); err != nil {
				return err
			}
			return a.runImport(cmd, src)
		},
	}
}

func (a *app) runImport(cmd *cobra.Command, srcCfg config.Source) error {
	ctx := cmd.Context()
	job := a.cfg.Job

	src, err := datasource.New(srcCfg)
	if err != nil {
		return err
	}
	repo, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()

	rc, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	ch := make(chan records.RawRecord, a.cfg.Runtime.ChannelBuffer)
	g, gctx := errgroup.WithContext(ctx)

	var st csvparser.Stats
	g.Go(func() error {
		defer close(ch)
		var err error
		st, err = csvparser.StreamRecords(gctx, rc, csvparser.OptionsFrom(a.cfg.Parser.Options), ch, func(line int, err error) {
			a.log.Debug("record skipped or defaulted", "line", line, "err", err)
		})
		return err
	})

	var inserted int64
	g.Go(func() error {
		var err error
		inserted, err = storage.LoadBatches(gctx, a.log, job, ch, max(a.cfg.Runtime.BatchSize, 1), repo.CopyFrom)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d records (%d parse errors, %d anomalies)\n", inserted, st.ParseErrors, st.Anomalies)
	return nil
}
