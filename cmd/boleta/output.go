package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/report"
)

var reportHeaders = []string{"Turno", "Linea", "Numero de Parte", "Descripcion del Defecto", "Componentes (faltantes)", "Cantidad"}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	countStyle  = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func rowCells(r records.ReportRow) []string {
	return []string{r.ShiftText(), r.Line, r.PartNumber, r.DefectDescription, r.ComponentsText, strconv.Itoa(r.Count)}
}

// writeResult prints the report rows in the selected format.
func writeResult(w io.Writer, format string, res *report.Result) error {
	switch format {
	case "", "table":
		return writeTable(w, res)
	case "csv":
		return writeCSV(w, res.Rows)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	return fmt.Errorf("unknown format %q; want table, csv or json", format)
}

func writeTable(w io.Writer, res *report.Result) error {
	if res.Empty() {
		_, err := fmt.Fprintln(w, "nothing to print")
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(reportHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == len(reportHeaders)-1:
				return countStyle
			}
			return cellStyle
		})
	for _, r := range res.Rows {
		t.Row(rowCells(r)...)
	}
	_, err := fmt.Fprintf(w, "%s\n%d records, %d rows, %d pages\n", t.Render(), res.Records, len(res.Rows), len(res.Pages))
	return err
}

func writeCSV(w io.Writer, rows []records.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(rowCells(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
