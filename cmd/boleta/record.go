package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

type recordFlags struct {
	shift, line, part, defect string
	qty                       string
	origin                    string
	id                        string
}

func newRecordCmd(a *app) *cobra.Command {
	var fl recordFlags
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Append one defect line to the rejection log",
		Long: `Append one defect line to the rejection log. The line gets a new
registro id unless --id is given; pass the printed id to "bom add --id" to
attach missing components to it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.validate(true, false); err != nil {
				return err
			}
			rec, err := fl.build()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			repo, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			if _, err := a.appendRecords(ctx, repo, []records.RawRecord{rec}); err != nil {
				return err
			}
			a.log.Info("defect recorded", "registro_id", rec.RegistroID, "part", rec.PartNumber)
			fmt.Fprintln(cmd.OutOrStdout(), rec.RegistroID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&fl.shift, "shift", "", "shift (turno)")
	f.StringVar(&fl.line, "line", "", "production line")
	f.StringVar(&fl.part, "part", "", "part number (required)")
	f.StringVar(&fl.defect, "defect", "", "defect description")
	f.StringVar(&fl.qty, "qty", "1", "rejected quantity")
	f.StringVar(&fl.origin, "origin", records.OriginRechazo, "origin tag; TRW lines are summed per part and defect")
	f.StringVar(&fl.id, "id", "", "registro id; a new UUID when empty")
	_ = cmd.MarkFlagRequired("part")
	return cmd
}

func (fl recordFlags) build() (records.RawRecord, error) {
	q, ok := records.ParseQuantity(fl.qty)
	if !ok || !q.IsPositive() {
		return records.RawRecord{}, fmt.Errorf("--qty must be a positive number, got %q", fl.qty)
	}
	part := strings.TrimSpace(fl.part)
	if part == "" {
		return records.RawRecord{}, fmt.Errorf("--part must not be blank")
	}
	id := strings.TrimSpace(fl.id)
	if id == "" {
		id = uuid.NewString()
	}
	origin := strings.TrimSpace(fl.origin)
	if origin == "" {
		origin = records.OriginRechazo
	}
	return records.RawRecord{
		Shift:             strings.TrimSpace(fl.shift),
		Line:              strings.TrimSpace(fl.line),
		PartNumber:        part,
		DefectDescription: strings.TrimSpace(fl.defect),
		Quantity:          q,
		RegistroID:        id,
		Origin:            origin,
	}, nil
}
