package postgres

import "github.com/JosueFrayreGarcia777/ScrapSystem/internal/ddl"

// Dialect renders Postgres DDL.
var Dialect = ddl.Dialect{
	Name:       "postgres",
	QuoteIdent: ddl.DoubleQuote,
	MapType: func(kind string) string {
		switch kind {
		case "identity":
			return "BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY"
		case "decimal":
			return "NUMERIC(18,3)"
		case "bool":
			return "BOOLEAN"
		case "false":
			return "FALSE"
		default:
			return "TEXT"
		}
	},
	Guard: ddl.IfNotExists,
}
