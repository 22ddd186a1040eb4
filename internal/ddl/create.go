// Package ddl renders CREATE TABLE statements for the rejection-log table
// in each supported SQL dialect.
package ddl

import (
	"fmt"
	"strings"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

// BuildCreateTableSQL renders t for dialect d. Columns render as
//
//	<quoted name> <type> [NOT NULL] [DEFAULT <expr>]
//
// and the statement is wrapped by d.Guard.
func BuildCreateTableSQL(t TableDef, d Dialect) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s ddl: table FQN must not be empty", d.Name)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s ddl: at least one column is required", d.Name)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("%s ddl: column with empty name in table %s", d.Name, fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("%s ddl: column %s missing SQLType", d.Name, name)
		}

		var sb strings.Builder
		sb.WriteString(d.QuoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())
	}

	quoted := d.QuoteFQN(fqn)
	body := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quoted, strings.Join(cols, ",\n  "))
	return d.Guard(quoted, body), nil
}

// IDColumn is the surrogate key that preserves log order.
const IDColumn = "id"

// RecordsTable describes the rejection-log table: an identity key followed
// by records.Columns.
func RecordsTable(fqn string, d Dialect) TableDef {
	cols := []ColumnDef{{Name: IDColumn, SQLType: d.MapType("identity"), Nullable: true}}
	for _, c := range records.Columns {
		def := ColumnDef{Name: c, SQLType: d.MapType("text"), Nullable: true}
		switch c {
		case records.ColQuantity:
			def = ColumnDef{Name: c, SQLType: d.MapType("decimal"), Default: "0"}
		case records.ColOmitted:
			def = ColumnDef{Name: c, SQLType: d.MapType("bool"), Default: d.MapType("false")}
		case records.ColRegistroID, records.ColOrigin:
			def.SQLType = d.MapType("key")
		}
		cols = append(cols, def)
	}
	return TableDef{FQN: fqn, Columns: cols}
}
