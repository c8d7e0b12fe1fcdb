package sqlstore

import "testing"

func TestRebind(t *testing.T) {
	query := "SELECT a FROM t WHERE x = ? AND y = ?"

	tests := []struct {
		dialect *Dialect
		want    string
	}{
		{SQLite, "SELECT a FROM t WHERE x = ? AND y = ?"},
		{Postgres, "SELECT a FROM t WHERE x = $1 AND y = $2"},
		{MSSQL, "SELECT a FROM t WHERE x = @p1 AND y = @p2"},
	}

	for _, tt := range tests {
		if got := tt.dialect.Rebind(query); got != tt.want {
			t.Errorf("%s: Rebind() = %q, want %q", tt.dialect.Name, got, tt.want)
		}
	}
}

func TestDialectFor(t *testing.T) {
	for _, name := range []string{"sqlite", "postgres", "mssql"} {
		d, err := DialectFor(name)
		if err != nil || d.Name != name {
			t.Errorf("DialectFor(%q) = %v, %v", name, d, err)
		}
	}
	if _, err := DialectFor("oracle"); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := map[string]string{
		":memory:":                   ":memory:?_foreign_keys=on",
		"file:cache.db?cache=shared": "file:cache.db?cache=shared&_foreign_keys=on",
		"cache.db?_fk=1":             "cache.db?_fk=1",
	}
	for in, want := range tests {
		if got := sqliteDSN(in); got != want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", in, got, want)
		}
	}
}
