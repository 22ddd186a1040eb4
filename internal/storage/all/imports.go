// Package all registers every built-in storage backend. Import it for side
// effects:
//
//	import _ "github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage/all"
//
// after which storage.New accepts the kinds "sqlite", "postgres", "mssql"
// and "mysql", and storage.EnsureTable knows their DDL dialects.
package all

import (
	_ "github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage/mssql"
	_ "github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage/mysql"
	_ "github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage/postgres"
	_ "github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage/sqlite"
)
