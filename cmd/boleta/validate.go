package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage"
)

func newValidateCmd(a *app) *cobra.Command {
	var needDB, needBOM bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.validate(needDB, needBOM); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config ok (source=%s storage=%s, registered backends: %v)\n",
				a.cfg.Source.Kind, a.cfg.Storage.Kind, storage.ListKinds())
			return nil
		},
	}
	cmd.Flags().BoolVar(&needDB, "storage", false, "also require a complete storage section")
	cmd.Flags().BoolVar(&needBOM, "bom", false, "also require a complete bom section")
	return cmd
}
