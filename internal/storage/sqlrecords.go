package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/ddl"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

// Placeholder renders the i-th (1-based) bind parameter of a dialect.
type Placeholder func(i int) string

// QuestionMark is the placeholder of SQLite and MySQL.
func QuestionMark(int) string { return "?" }

// Dollar is the placeholder of Postgres.
func Dollar(i int) string { return fmt.Sprintf("$%d", i) }

// AtP is the placeholder of SQL Server.
func AtP(i int) string { return fmt.Sprintf("@p%d", i) }

// SelectRecordsSQL builds the query returning records.Columns in log order,
// with one equality predicate per non-blank filter field. castText renders
// the quantity column as text; nil leaves it as is.
func SelectRecordsSQL(table string, d ddl.Dialect, ph Placeholder, castText func(string) string, f records.Filter) (string, []any) {
	cols := make([]string, len(records.Columns))
	for i, c := range records.Columns {
		cols[i] = d.QuoteIdent(c)
		if c == records.ColQuantity && castText != nil {
			cols[i] = castText(cols[i])
		}
	}

	var (
		where []string
		args  []any
	)
	add := func(col, v string) {
		if strings.TrimSpace(v) == "" {
			return
		}
		args = append(args, v)
		where = append(where, d.QuoteIdent(col)+" = "+ph(len(args)))
	}
	add(records.ColShift, f.Shift)
	add(records.ColLine, f.Line)
	add(records.ColPartNumber, f.PartNumber)

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", strings.Join(cols, ", "), d.QuoteFQN(table))
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(d.QuoteIdent(ddl.IDColumn))
	return sb.String(), args
}

// InsertSQL builds a single-row INSERT for columns.
func InsertSQL(table string, d ddl.Dialect, ph Placeholder, columns []string) string {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.QuoteIdent(c)
		marks[i] = ph(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteFQN(table), strings.Join(quoted, ", "), strings.Join(marks, ", "))
}

// ScanRecord reads one row selected by SelectRecordsSQL. scan is
// (*sql.Rows).Scan or pgx.Rows.Scan. An unparsable stored quantity scans
// as zero.
func ScanRecord(scan func(dest ...any) error) (records.RawRecord, error) {
	var (
		shift, line, part, defect, code, desc, unit sql.NullString
		qty, id, origin                             sql.NullString
		omitted                                     sql.NullBool
	)
	if err := scan(&shift, &line, &part, &defect, &code, &desc, &unit, &qty, &id, &omitted, &origin); err != nil {
		return records.RawRecord{}, err
	}
	q, _ := records.ParseQuantity(qty.String)
	return records.RawRecord{
		Shift:                shift.String,
		Line:                 line.String,
		PartNumber:           part.String,
		DefectDescription:    defect.String,
		ComponentCode:        code.String,
		ComponentDescription: desc.String,
		Unit:                 unit.String,
		Quantity:             q,
		RegistroID:           strings.TrimSpace(id.String),
		Omitted:              omitted.Valid && omitted.Bool,
		Origin:               origin.String,
	}, nil
}

// RecordValues returns r's values aligned to records.Columns. The quantity
// is a decimal.Decimal, which database/sql drivers accept as a string.
func RecordValues(r records.RawRecord) []any {
	return []any{
		r.Shift,
		r.Line,
		r.PartNumber,
		r.DefectDescription,
		r.ComponentCode,
		r.ComponentDescription,
		r.Unit,
		r.Quantity,
		r.RegistroID,
		r.Omitted,
		r.Origin,
	}
}

// QueryDB runs a SelectRecordsSQL query on a database/sql handle.
func QueryDB(rows *sql.Rows, err error) ([]records.RawRecord, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []records.RawRecord
	for rows.Next() {
		r, err := ScanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
