package mssql

import (
	"fmt"
	"strings"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/ddl"
)

// Dialect renders SQL Server DDL. SQL Server has no CREATE TABLE IF NOT
// EXISTS, so the guard checks OBJECT_ID.
var Dialect = ddl.Dialect{
	Name:       "mssql",
	QuoteIdent: ddl.Bracket,
	MapType: func(kind string) string {
		switch kind {
		case "identity":
			return "BIGINT IDENTITY(1,1) PRIMARY KEY"
		case "key":
			return "NVARCHAR(100)"
		case "decimal":
			return "DECIMAL(18,3)"
		case "bool":
			return "BIT"
		case "false":
			return "0"
		default:
			return "NVARCHAR(400)"
		}
	},
	Guard: func(quotedFQN, body string) string {
		name := strings.ReplaceAll(quotedFQN, "'", "''")
		return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n%s\nEND;", name, body)
	},
}
