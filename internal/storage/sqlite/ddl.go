package sqlite

import "github.com/JosueFrayreGarcia777/ScrapSystem/internal/ddl"

// Dialect renders SQLite DDL. Quantities are stored as TEXT so decimal
// values round-trip without float conversion.
var Dialect = ddl.Dialect{
	Name:       "sqlite",
	QuoteIdent: ddl.DoubleQuote,
	MapType: func(kind string) string {
		switch kind {
		case "identity":
			return "INTEGER PRIMARY KEY AUTOINCREMENT"
		case "bool":
			return "INTEGER"
		case "false":
			return "0"
		default:
			return "TEXT"
		}
	},
	Guard: ddl.IfNotExists,
}
