package mysql

import "github.com/JosueFrayreGarcia777/ScrapSystem/internal/ddl"

// Dialect renders MySQL DDL.
var Dialect = ddl.Dialect{
	Name:       "mysql",
	QuoteIdent: ddl.Backtick,
	MapType: func(kind string) string {
		switch kind {
		case "identity":
			return "BIGINT AUTO_INCREMENT PRIMARY KEY"
		case "key":
			return "VARCHAR(100)"
		case "decimal":
			return "DECIMAL(18,3)"
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
