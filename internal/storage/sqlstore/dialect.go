package sqlstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect holds what differs between the supported databases: the
// database/sql driver, the bind parameter style and the DDL.
type Dialect struct {
	Name       string
	DriverName string
	schema     []string
	bindVar    func(n int) string
}

var (
	SQLite = &Dialect{
		Name:       "sqlite",
		DriverName: "sqlite3",
		schema:     sqliteSchema,
		bindVar:    func(int) string { return "?" },
	}
	Postgres = &Dialect{
		Name:       "postgres",
		DriverName: "postgres",
		schema:     postgresSchema,
		bindVar:    func(n int) string { return "$" + strconv.Itoa(n) },
	}
	MSSQL = &Dialect{
		Name:       "mssql",
		DriverName: "sqlserver",
		schema:     mssqlSchema,
		bindVar:    func(n int) string { return "@p" + strconv.Itoa(n) },
	}
)

func DialectFor(name string) (*Dialect, error) {
	switch name {
	case SQLite.Name:
		return SQLite, nil
	case Postgres.Name:
		return Postgres, nil
	case MSSQL.Name:
		return MSSQL, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", name)
	}
}

// Rebind rewrites the ? placeholders of query into the dialect's style.
func (d *Dialect) Rebind(query string) string {
	if d == SQLite {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString(d.bindVar(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
