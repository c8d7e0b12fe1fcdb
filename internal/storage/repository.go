package storage

import (
	"context"
	"strings"

	"forum-mirror/internal/config"
	"forum-mirror/internal/forum"
	"forum-mirror/internal/observability"
	"forum-mirror/internal/storage/sqlstore"
)

// ThreadCacheRepository is the persistent tier of the thread service.
type ThreadCacheRepository interface {
	// GetThreadPage returns nil, nil when the page is not cached.
	GetThreadPage(ctx context.Context, threadID string, pageNumber int) (*forum.CachedThreadPage, error)

	// UpsertThreadPage stores a crawled page and reconciles its posts.
	UpsertThreadPage(ctx context.Context, page *forum.ThreadPage) error
}

// Store is a repository that holds resources.
type Store interface {
	ThreadCacheRepository
	Close() error
}

// NopRepository is used when no database is configured: every read misses
// and writes are dropped.
type NopRepository struct{}

func (NopRepository) GetThreadPage(context.Context, string, int) (*forum.CachedThreadPage, error) {
	return nil, nil
}

func (NopRepository) UpsertThreadPage(context.Context, *forum.ThreadPage) error {
	return nil
}

func (NopRepository) Close() error {
	return nil
}

// Open returns the SQL repository when the thread cache is enabled and a DSN
// is set. Any initialization failure is logged and yields NopRepository; the
// mirror keeps serving by crawling.
func Open(ctx context.Context, cfg *config.Config, logger *observability.Logger) Store {
	if !cfg.Storage.Enabled || cfg.Storage.DSN == "" {
		logger.Info("Thread cache disabled")
		return NopRepository{}
	}

	dialect, err := sqlstore.DialectFor(cfg.Storage.Driver)
	if err != nil {
		logger.Error("Failed to initialize thread cache repository", "error", err)
		return NopRepository{}
	}

	dsn := cfg.Storage.DSN
	if dialect == sqlstore.Postgres {
		dsn = PostgresDSN(dsn, cfg.Storage.SSL)
	}

	repo, err := sqlstore.Open(ctx, dialect, dsn, cfg.GetCommandTimeout(), logger)
	if err != nil {
		logger.Error("Failed to initialize thread cache repository", "driver", dialect.Name, "error", err)
		return NopRepository{}
	}

	logger.Info("Thread cache ready", "driver", dialect.Name)
	return repo
}

// PostgresDSN adds sslmode=require when ssl is on and the DSN does not pick
// an sslmode itself. Both URL and key=value DSNs are handled.
func PostgresDSN(dsn string, ssl bool) string {
	if !ssl || strings.Contains(dsn, "sslmode=") {
		return dsn
	}
	if !strings.Contains(dsn, "://") {
		return dsn + " sslmode=require"
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&sslmode=require"
	}
	return dsn + "?sslmode=require"
}
