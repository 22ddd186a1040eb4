package ddl

import (
	"strings"
	"testing"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

func testDialect() Dialect {
	return Dialect{
		Name:       "test",
		QuoteIdent: DoubleQuote,
		MapType: func(kind string) string {
			switch kind {
			case "identity":
				return "INTEGER PRIMARY KEY"
			case "decimal":
				return "NUMERIC"
			case "bool":
				return "INTEGER"
			case "false":
				return "0"
			}
			return "TEXT"
		},
		Guard: IfNotExists,
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	got, err := BuildCreateTableSQL(TableDef{
		FQN: "main.registros",
		Columns: []ColumnDef{
			{Name: "id", SQLType: "INTEGER PRIMARY KEY", Nullable: true},
			{Name: `odd"name`, SQLType: "TEXT", Default: "''"},
		},
	}, testDialect())
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := "CREATE TABLE IF NOT EXISTS \"main\".\"registros\" (\n" +
		"  \"id\" INTEGER PRIMARY KEY,\n" +
		"  \"odd\"\"name\" TEXT NOT NULL DEFAULT ''\n" +
		");"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestBuildCreateTableSQL_Errors(t *testing.T) {
	t.Parallel()

	d := testDialect()
	tests := map[string]TableDef{
		"empty fqn":    {FQN: " ", Columns: []ColumnDef{{Name: "a", SQLType: "TEXT"}}},
		"no columns":   {FQN: "t"},
		"empty name":   {FQN: "t", Columns: []ColumnDef{{SQLType: "TEXT"}}},
		"missing type": {FQN: "t", Columns: []ColumnDef{{Name: "a"}}},
	}
	for name, td := range tests {
		if _, err := BuildCreateTableSQL(td, d); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestQuoteFQN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		quote func(string) string
		in    string
		want  string
	}{
		{Bracket, "dbo.Registros", "[dbo].[Registros]"},
		{Bracket, "[dbo].[BOM]", "[dbo].[BOM]"},
		{Bracket, "weird]id", "[weird]]id]"},
		{DoubleQuote, "public.registros", `"public"."registros"`},
		{Backtick, "scrap.registros", "`scrap`.`registros`"},
		{Backtick, "a..b", "`a`.`b`"},
	}
	for _, tt := range tests {
		d := Dialect{QuoteIdent: tt.quote}
		if got := d.QuoteFQN(tt.in); got != tt.want {
			t.Errorf("QuoteFQN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRecordsTable(t *testing.T) {
	t.Parallel()

	td := RecordsTable("registros", testDialect())
	if len(td.Columns) != len(records.Columns)+1 || td.Columns[0].Name != IDColumn {
		t.Fatalf("columns = %+v", td.Columns)
	}
	sql, err := BuildCreateTableSQL(td, testDialect())
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	for _, frag := range []string{`"cantidad" NUMERIC NOT NULL DEFAULT 0`, `"omitido" INTEGER NOT NULL DEFAULT 0`, `"turno" TEXT,`} {
		if !strings.Contains(sql, frag) {
			t.Errorf("DDL missing %q:\n%s", frag, sql)
		}
	}
}
