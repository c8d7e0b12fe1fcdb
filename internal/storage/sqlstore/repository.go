package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/microsoft/go-mssqldb"

	"forum-mirror/internal/checksum"
	"forum-mirror/internal/forum"
	"forum-mirror/internal/observability"
)

// PostRecord is a persisted post with its change history.
type PostRecord struct {
	forum.Post
	PostKey       string    `json:"postKey"`
	Synthetic     bool      `json:"synthetic"`
	ContentHash   string    `json:"contentHash"`
	FirstSeenAt   time.Time `json:"firstSeenAt"`
	LastSeenAt    time.Time `json:"lastSeenAt"`
	LastChangedAt time.Time `json:"lastChangedAt"`
	IsDeleted     bool      `json:"isDeleted"`
}

// Repository is the SQL-backed thread cache.
type Repository struct {
	db             *sql.DB
	dialect        *Dialect
	commandTimeout time.Duration
	logger         *observability.Logger
	now            func() time.Time
}

type Option func(*Repository)

// WithClock sets the clock stamped on cached_at and the post history columns.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// Open connects, verifies the connection and creates missing tables.
func Open(ctx context.Context, dialect *Dialect, dsn string, commandTimeout time.Duration, logger *observability.Logger, opts ...Option) (*Repository, error) {
	if dialect == SQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == SQLite {
		// One connection: writes are serialized and :memory: stays one database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	r := &Repository{
		db:             db,
		dialect:        dialect,
		commandTimeout: commandTimeout,
		logger:         logger,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	pingCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := r.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return r, nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// Migrate creates the cache tables if they do not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range r.dialect.schema {
		execCtx, cancel := context.WithTimeout(ctx, r.commandTimeout)
		_, err := r.db.ExecContext(execCtx, stmt)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) q(query string) string {
	return r.dialect.Rebind(query)
}

// GetThreadPage returns nil, nil when the page was never cached.
func (r *Repository) GetThreadPage(ctx context.Context, threadID string, pageNumber int) (*forum.CachedThreadPage, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var (
		title                sql.NullString
		totalPages, pageSize int
		hasNext, hasPrevious bool
		cachedAt             time.Time
	)
	err := r.db.QueryRowContext(ctx, r.q(`
		SELECT title, total_pages, has_next, has_previous, page_size, cached_at
		FROM thread_pages
		WHERE thread_id = ? AND page_number = ?`),
		threadID, pageNumber,
	).Scan(&title, &totalPages, &hasNext, &hasPrevious, &pageSize, &cachedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query thread page: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, r.q(`
		SELECT p.post_key, p.is_synthetic, p.author, p.created_at, p.content_text, p.content_html, m.index_on_page
		FROM thread_page_posts m
		JOIN posts p ON p.thread_id = m.thread_id AND p.post_key = m.post_key
		WHERE m.thread_id = ? AND m.page_number = ? AND p.is_deleted = ?
		ORDER BY m.index_on_page`),
		threadID, pageNumber, false,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query thread page posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := []forum.Post{}
	for rows.Next() {
		var (
			post      forum.Post
			key       string
			synthetic bool
			createdAt sql.NullTime
		)
		if err := rows.Scan(&key, &synthetic, &post.Author, &createdAt, &post.ContentText, &post.ContentHTML, &post.IndexOnPage); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		post.ThreadID = threadID
		if !synthetic {
			post.PostID = key
		}
		if createdAt.Valid {
			t := createdAt.Time.UTC()
			post.CreatedAt = &t
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	return &forum.CachedThreadPage{
		Page: &forum.ThreadPage{
			ThreadID:   threadID,
			Title:      title.String,
			Posts:      posts,
			Pagination: forum.NewPageable(pageNumber, totalPages, pageSize),
		},
		CachedAt: cachedAt.UTC(),
	}, nil
}

// UpsertThreadPage stores a freshly crawled page in one transaction: the page
// row, every post (history columns maintained through the content hash), the
// page membership, and soft deletion of posts that left the page and are not
// linked to any other stored page of the thread.
func (r *Repository) UpsertThreadPage(ctx context.Context, page *forum.ThreadPage) error {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	now := r.now().UTC().Truncate(time.Microsecond)
	pageNumber := page.Pagination.Page

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.upsertPageRow(ctx, tx, page, now); err != nil {
		return err
	}

	onPage := make(map[string]struct{}, len(page.Posts))
	for _, post := range page.Posts {
		hash := checksum.ContentHash(post.ContentText, post.ContentHTML)
		key, synthetic := post.PostID, false
		if key == "" {
			key, synthetic = checksum.SyntheticPostKey(page.ThreadID, hash), true
		}
		onPage[key] = struct{}{}

		if err := r.upsertPost(ctx, tx, page.ThreadID, key, synthetic, post, hash, now); err != nil {
			return err
		}
		if err := r.upsertMembership(ctx, tx, page.ThreadID, pageNumber, key, post.IndexOnPage); err != nil {
			return err
		}
	}

	removed, err := r.removedKeys(ctx, tx, page.ThreadID, pageNumber, onPage)
	if err != nil {
		return err
	}
	for _, key := range removed {
		if _, err := tx.ExecContext(ctx, r.q(`
			DELETE FROM thread_page_posts WHERE thread_id = ? AND page_number = ? AND post_key = ?`),
			page.ThreadID, pageNumber, key,
		); err != nil {
			return fmt.Errorf("failed to unlink removed post: %w", err)
		}

		// A post that moved to another stored page stays live there.
		linked, err := r.exists(ctx, tx, `
			SELECT COUNT(*) FROM thread_page_posts WHERE thread_id = ? AND post_key = ?`,
			page.ThreadID, key)
		if err != nil {
			return err
		}
		if linked {
			continue
		}
		if _, err := tx.ExecContext(ctx, r.q(`
			UPDATE posts SET is_deleted = ?, last_seen_at = ? WHERE thread_id = ? AND post_key = ?`),
			true, now, page.ThreadID, key,
		); err != nil {
			return fmt.Errorf("failed to mark post deleted: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit thread page: %w", err)
	}

	r.logger.Debug("Stored thread page",
		"thread_id", page.ThreadID,
		"page", pageNumber,
		"posts", len(page.Posts),
		"removed", len(removed),
	)
	return nil
}

func (r *Repository) upsertPageRow(ctx context.Context, tx *sql.Tx, page *forum.ThreadPage, now time.Time) error {
	var title interface{}
	if page.Title != "" {
		title = page.Title
	}
	p := page.Pagination

	exists, err := r.exists(ctx, tx, `SELECT COUNT(*) FROM thread_pages WHERE thread_id = ? AND page_number = ?`, page.ThreadID, p.Page)
	if err != nil {
		return err
	}

	if exists {
		_, err = tx.ExecContext(ctx, r.q(`
			UPDATE thread_pages
			SET title = ?, total_pages = ?, has_next = ?, has_previous = ?, page_size = ?, cached_at = ?
			WHERE thread_id = ? AND page_number = ?`),
			title, p.TotalPages, p.HasNext, p.HasPrevious, p.PageSize, now, page.ThreadID, p.Page,
		)
	} else {
		_, err = tx.ExecContext(ctx, r.q(`
			INSERT INTO thread_pages (thread_id, page_number, title, total_pages, has_next, has_previous, page_size, cached_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			page.ThreadID, p.Page, title, p.TotalPages, p.HasNext, p.HasPrevious, p.PageSize, now,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert thread page: %w", err)
	}
	return nil
}

func (r *Repository) upsertPost(ctx context.Context, tx *sql.Tx, threadID, key string, synthetic bool, post forum.Post, hash string, now time.Time) error {
	var createdAt sql.NullTime
	if post.CreatedAt != nil {
		createdAt = sql.NullTime{Time: post.CreatedAt.UTC(), Valid: true}
	}

	var (
		existingHash  string
		lastChangedAt time.Time
	)
	err := tx.QueryRowContext(ctx, r.q(`
		SELECT content_hash, last_changed_at FROM posts WHERE thread_id = ? AND post_key = ?`),
		threadID, key,
	).Scan(&existingHash, &lastChangedAt)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx, r.q(`
			INSERT INTO posts (thread_id, post_key, is_synthetic, author, created_at, content_text, content_html,
				index_on_page, content_hash, first_seen_at, last_seen_at, last_changed_at, is_deleted)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			threadID, key, synthetic, post.Author, createdAt, post.ContentText, post.ContentHTML,
			post.IndexOnPage, hash, now, now, now, false,
		)
		if err != nil {
			return fmt.Errorf("failed to insert post %s: %w", key, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("failed to query post %s: %w", key, err)
	}

	if existingHash != hash {
		lastChangedAt = now
	}
	_, err = tx.ExecContext(ctx, r.q(`
		UPDATE posts
		SET author = ?, created_at = ?, content_text = ?, content_html = ?, index_on_page = ?,
			content_hash = ?, last_seen_at = ?, last_changed_at = ?, is_deleted = ?
		WHERE thread_id = ? AND post_key = ?`),
		post.Author, createdAt, post.ContentText, post.ContentHTML, post.IndexOnPage,
		hash, now, lastChangedAt, false, threadID, key,
	)
	if err != nil {
		return fmt.Errorf("failed to update post %s: %w", key, err)
	}
	return nil
}

func (r *Repository) upsertMembership(ctx context.Context, tx *sql.Tx, threadID string, pageNumber int, key string, index int) error {
	exists, err := r.exists(ctx, tx, `
		SELECT COUNT(*) FROM thread_page_posts WHERE thread_id = ? AND page_number = ? AND post_key = ?`,
		threadID, pageNumber, key)
	if err != nil {
		return err
	}

	if exists {
		_, err = tx.ExecContext(ctx, r.q(`
			UPDATE thread_page_posts SET index_on_page = ? WHERE thread_id = ? AND page_number = ? AND post_key = ?`),
			index, threadID, pageNumber, key,
		)
	} else {
		_, err = tx.ExecContext(ctx, r.q(`
			INSERT INTO thread_page_posts (thread_id, page_number, post_key, index_on_page) VALUES (?, ?, ?, ?)`),
			threadID, pageNumber, key, index,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to link post %s to page: %w", key, err)
	}
	return nil
}

// removedKeys lists the posts linked to the page that are not in onPage. The
// result set is drained before any further statement runs on tx.
func (r *Repository) removedKeys(ctx context.Context, tx *sql.Tx, threadID string, pageNumber int, onPage map[string]struct{}) ([]string, error) {
	rows, err := tx.QueryContext(ctx, r.q(`
		SELECT post_key FROM thread_page_posts WHERE thread_id = ? AND page_number = ?`),
		threadID, pageNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query page membership: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var removed []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan page membership: %w", err)
		}
		if _, ok := onPage[key]; !ok {
			removed = append(removed, key)
		}
	}
	return removed, rows.Err()
}

func (r *Repository) exists(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) (bool, error) {
	var count int
	if err := tx.QueryRowContext(ctx, r.q(query), args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to query database: %w", err)
	}
	return count > 0, nil
}

const postRecordColumns = `post_key, is_synthetic, thread_id, author, created_at, content_text, content_html,
	index_on_page, content_hash, first_seen_at, last_seen_at, last_changed_at, is_deleted`

// GetPostRecord returns the stored record for a post key, deleted or not, or
// nil, nil when the post was never seen.
func (r *Repository) GetPostRecord(ctx context.Context, threadID, postKey string) (*PostRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, r.q(`
		SELECT `+postRecordColumns+` FROM posts WHERE thread_id = ? AND post_key = ?`),
		threadID, postKey,
	)
	rec, err := scanPostRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query post record: %w", err)
	}
	return rec, nil
}

// ListPostRecords returns every stored post of a thread, deleted ones
// included, in first-seen order.
func (r *Repository) ListPostRecords(ctx context.Context, threadID string) ([]PostRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, r.q(`
		SELECT `+postRecordColumns+` FROM posts WHERE thread_id = ?
		ORDER BY first_seen_at, index_on_page, post_key`),
		threadID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query post records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []PostRecord
	for rows.Next() {
		rec, err := scanPostRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPostRecord(row rowScanner) (*PostRecord, error) {
	var (
		rec       PostRecord
		createdAt sql.NullTime
	)
	err := row.Scan(&rec.PostKey, &rec.Synthetic, &rec.ThreadID, &rec.Author, &createdAt, &rec.ContentText,
		&rec.ContentHTML, &rec.IndexOnPage, &rec.ContentHash, &rec.FirstSeenAt, &rec.LastSeenAt,
		&rec.LastChangedAt, &rec.IsDeleted)
	if err != nil {
		return nil, err
	}

	if !rec.Synthetic {
		rec.PostID = rec.PostKey
	}
	if createdAt.Valid {
		t := createdAt.Time.UTC()
		rec.CreatedAt = &t
	}
	rec.FirstSeenAt = rec.FirstSeenAt.UTC()
	rec.LastSeenAt = rec.LastSeenAt.UTC()
	rec.LastChangedAt = rec.LastChangedAt.UTC()
	return &rec, nil
}
