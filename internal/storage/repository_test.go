package storage

import (
	"context"
	"testing"

	"forum-mirror/internal/config"
	"forum-mirror/internal/forum"
	"forum-mirror/internal/observability"
	"forum-mirror/internal/storage/sqlstore"
)

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		ssl  bool
		want string
	}{
		{"postgres://u:p@db/forum", false, "postgres://u:p@db/forum"},
		{"postgres://u:p@db/forum", true, "postgres://u:p@db/forum?sslmode=require"},
		{"postgres://u:p@db/forum?connect_timeout=5", true, "postgres://u:p@db/forum?connect_timeout=5&sslmode=require"},
		{"postgres://u:p@db/forum?sslmode=disable", true, "postgres://u:p@db/forum?sslmode=disable"},
		{"host=db dbname=forum", true, "host=db dbname=forum sslmode=require"},
	}

	for _, tt := range tests {
		if got := PostgresDSN(tt.dsn, tt.ssl); got != tt.want {
			t.Errorf("PostgresDSN(%q, %v) = %q, want %q", tt.dsn, tt.ssl, got, tt.want)
		}
	}
}

func TestOpenFallsBackToNop(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"disabled", func(c *config.Config) { c.Storage.Enabled = false; c.Storage.DSN = ":memory:" }},
		{"no dsn", func(c *config.Config) { c.Storage.Enabled = true; c.Storage.DSN = "" }},
		{"unknown driver", func(c *config.Config) { c.Storage.Enabled = true; c.Storage.DSN = "x"; c.Storage.Driver = "oracle" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			store := Open(context.Background(), cfg, observability.NewNopLogger())
			if _, ok := store.(NopRepository); !ok {
				t.Errorf("Open() = %T, want NopRepository", store)
			}
		})
	}
}

func TestOpenSQLite(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Enabled = true
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = ":memory:"

	store := Open(context.Background(), cfg, observability.NewNopLogger())
	defer func() { _ = store.Close() }()
	if _, ok := store.(*sqlstore.Repository); !ok {
		t.Fatalf("Open() = %T, want *sqlstore.Repository", store)
	}
}

func TestNopRepository(t *testing.T) {
	var repo ThreadCacheRepository = NopRepository{}
	ctx := context.Background()

	if err := repo.UpsertThreadPage(ctx, &forum.ThreadPage{ThreadID: "1", Pagination: forum.NewPageable(1, 1, 0)}); err != nil {
		t.Fatal(err)
	}
	cached, err := repo.GetThreadPage(ctx, "1", 1)
	if err != nil || cached != nil {
		t.Errorf("GetThreadPage() = %v, %v; want nil, nil", cached, err)
	}
}
