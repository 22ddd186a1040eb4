package ddl

import "strings"

// ColumnDef describes a single column. Name is unquoted; quoting happens at
// render time. Default is a raw SQL expression.
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
	Default  string
}

// TableDef holds the dotted table name (e.g. "dbo.registros") and the
// ordered columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Dialect carries what differs between SQL backends.
type Dialect struct {
	Name string

	// QuoteIdent quotes one identifier segment.
	QuoteIdent func(string) string

	// MapType maps a logical type (text, decimal, bool, identity) to a column
	// type. identity must yield an auto-increment primary key clause.
	MapType func(kind string) string

	// Guard wraps a CREATE TABLE body so it is a no-op when the table exists.
	// quotedFQN is the quoted table name, body is "CREATE TABLE <fqn> (...)".
	Guard func(quotedFQN, body string) string
}

// QuoteFQN quotes every dot-separated segment of fqn. Segments that are
// already bracketed or double-quoted are kept.
func (d Dialect) QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
			continue
		case strings.HasPrefix(p, "[") && strings.HasSuffix(p, "]"),
			strings.HasPrefix(p, `"`) && strings.HasSuffix(p, `"`),
			strings.HasPrefix(p, "`") && strings.HasSuffix(p, "`"):
			out = append(out, p)
		default:
			out = append(out, d.QuoteIdent(p))
		}
	}
	return strings.Join(out, ".")
}

// DoubleQuote is the ANSI identifier quote used by SQLite and Postgres.
func DoubleQuote(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// Bracket is the SQL Server identifier quote.
func Bracket(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// Backtick is the MySQL identifier quote.
func Backtick(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// IfNotExists is the Guard for dialects that support CREATE TABLE IF NOT EXISTS.
func IfNotExists(_, body string) string {
	return strings.Replace(body, "CREATE TABLE ", "CREATE TABLE IF NOT EXISTS ", 1) + ";"
}
