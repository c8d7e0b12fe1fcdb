package sqlstore

// Posts are keyed by (thread_id, post_key). post_key is the forum's post id,
// or a synthetic key when the page gave none. Rows are never deleted; removed
// posts are flagged with is_deleted.

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS thread_pages (
		thread_id TEXT NOT NULL,
		page_number INTEGER NOT NULL,
		title TEXT,
		total_pages INTEGER NOT NULL,
		has_next BOOLEAN NOT NULL,
		has_previous BOOLEAN NOT NULL,
		page_size INTEGER NOT NULL,
		cached_at TIMESTAMP NOT NULL,
		PRIMARY KEY (thread_id, page_number)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		thread_id TEXT NOT NULL,
		post_key TEXT NOT NULL,
		is_synthetic BOOLEAN NOT NULL DEFAULT FALSE,
		author TEXT NOT NULL,
		created_at TIMESTAMP,
		content_text TEXT NOT NULL,
		content_html TEXT NOT NULL,
		index_on_page INTEGER NOT NULL,
		content_hash TEXT NOT NULL,
		first_seen_at TIMESTAMP NOT NULL,
		last_seen_at TIMESTAMP NOT NULL,
		last_changed_at TIMESTAMP NOT NULL,
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (thread_id, post_key)
	)`,
	`CREATE TABLE IF NOT EXISTS thread_page_posts (
		thread_id TEXT NOT NULL,
		page_number INTEGER NOT NULL,
		post_key TEXT NOT NULL,
		index_on_page INTEGER NOT NULL,
		PRIMARY KEY (thread_id, page_number, post_key),
		FOREIGN KEY (thread_id, page_number) REFERENCES thread_pages(thread_id, page_number),
		FOREIGN KEY (thread_id, post_key) REFERENCES posts(thread_id, post_key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_hash ON posts(content_hash)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS thread_pages (
		thread_id TEXT NOT NULL,
		page_number INTEGER NOT NULL,
		title TEXT,
		total_pages INTEGER NOT NULL,
		has_next BOOLEAN NOT NULL,
		has_previous BOOLEAN NOT NULL,
		page_size INTEGER NOT NULL,
		cached_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (thread_id, page_number)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		thread_id TEXT NOT NULL,
		post_key TEXT NOT NULL,
		is_synthetic BOOLEAN NOT NULL DEFAULT FALSE,
		author TEXT NOT NULL,
		created_at TIMESTAMPTZ,
		content_text TEXT NOT NULL,
		content_html TEXT NOT NULL,
		index_on_page INTEGER NOT NULL,
		content_hash TEXT NOT NULL,
		first_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_changed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (thread_id, post_key)
	)`,
	`CREATE TABLE IF NOT EXISTS thread_page_posts (
		thread_id TEXT NOT NULL,
		page_number INTEGER NOT NULL,
		post_key TEXT NOT NULL,
		index_on_page INTEGER NOT NULL,
		PRIMARY KEY (thread_id, page_number, post_key),
		FOREIGN KEY (thread_id, page_number) REFERENCES thread_pages(thread_id, page_number),
		FOREIGN KEY (thread_id, post_key) REFERENCES posts(thread_id, post_key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_hash ON posts(content_hash)`,
}

var mssqlSchema = []string{
	`IF OBJECT_ID(N'thread_pages', N'U') IS NULL
	CREATE TABLE thread_pages (
		thread_id NVARCHAR(64) NOT NULL,
		page_number INT NOT NULL,
		title NVARCHAR(MAX) NULL,
		total_pages INT NOT NULL,
		has_next BIT NOT NULL,
		has_previous BIT NOT NULL,
		page_size INT NOT NULL,
		cached_at DATETIME2 NOT NULL,
		CONSTRAINT pk_thread_pages PRIMARY KEY (thread_id, page_number)
	)`,
	`IF OBJECT_ID(N'posts', N'U') IS NULL
	CREATE TABLE posts (
		thread_id NVARCHAR(64) NOT NULL,
		post_key NVARCHAR(64) NOT NULL,
		is_synthetic BIT NOT NULL DEFAULT 0,
		author NVARCHAR(255) NOT NULL,
		created_at DATETIME2 NULL,
		content_text NVARCHAR(MAX) NOT NULL,
		content_html NVARCHAR(MAX) NOT NULL,
		index_on_page INT NOT NULL,
		content_hash CHAR(64) NOT NULL,
		first_seen_at DATETIME2 NOT NULL,
		last_seen_at DATETIME2 NOT NULL,
		last_changed_at DATETIME2 NOT NULL,
		is_deleted BIT NOT NULL DEFAULT 0,
		CONSTRAINT pk_posts PRIMARY KEY (thread_id, post_key)
	)`,
	`IF OBJECT_ID(N'thread_page_posts', N'U') IS NULL
	CREATE TABLE thread_page_posts (
		thread_id NVARCHAR(64) NOT NULL,
		page_number INT NOT NULL,
		post_key NVARCHAR(64) NOT NULL,
		index_on_page INT NOT NULL,
		CONSTRAINT pk_thread_page_posts PRIMARY KEY (thread_id, page_number, post_key),
		CONSTRAINT fk_tpp_page FOREIGN KEY (thread_id, page_number) REFERENCES thread_pages(thread_id, page_number),
		CONSTRAINT fk_tpp_post FOREIGN KEY (thread_id, post_key) REFERENCES posts(thread_id, post_key)
	)`,
}
