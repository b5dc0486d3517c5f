package database

import (
	"context"
	"fmt"
)

const sqliteSchema = `
	PRAGMA foreign_keys = ON;

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE COLLATE NOCASE,
		email TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		password TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS post_groups (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		author_id INTEGER NOT NULL,
		group_id INTEGER,
		FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (group_id) REFERENCES post_groups(id) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id INTEGER NOT NULL,
		author_id INTEGER NOT NULL,
		text TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE,
		FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS follows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		author_id INTEGER NOT NULL,
		UNIQUE (user_id, author_id),
		CHECK (user_id <> author_id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS likes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		post_id INTEGER NOT NULL,
		UNIQUE (user_id, post_id),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL UNIQUE,
		expires DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at);
	CREATE INDEX IF NOT EXISTS idx_posts_author_created ON posts(author_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_posts_group_created ON posts(group_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_comments_post_created ON comments(post_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_likes_post ON likes(post_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires);
	`

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		password TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (lower(username));

	CREATE TABLE IF NOT EXISTS post_groups (
		id INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		group_id INTEGER REFERENCES post_groups(id) ON DELETE SET NULL
	);

	CREATE TABLE IF NOT EXISTS comments (
		id INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS follows (
		id INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		author_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		UNIQUE (user_id, author_id),
		CHECK (user_id <> author_id)
	);

	CREATE TABLE IF NOT EXISTS likes (
		id INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		UNIQUE (user_id, post_id)
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token TEXT NOT NULL UNIQUE,
		expires TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at);
	CREATE INDEX IF NOT EXISTS idx_posts_author_created ON posts(author_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_posts_group_created ON posts(group_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_comments_post_created ON comments(post_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_likes_post ON likes(post_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires);
	`

// Migrate создает таблицы, если их нет, и применяет миграции.
// Повторный вызов безопасен.
func (s *Store) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if s.dialect == dialectPostgres {
		schema = postgresSchema
	}
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}

	if err := s.applyMigrations(ctx); err != nil {
		return fmt.Errorf("error applying migrations: %w", err)
	}
	return nil
}

// applyMigrations доводит старые базы до текущей схемы.
func (s *Store) applyMigrations(ctx context.Context) error {
	// Миграция: время последнего редактирования поста
	return s.addColumnIfNotExists(ctx, "posts", "edited_at", s.timestampType())
}

func (s *Store) timestampType() string {
	if s.dialect == dialectPostgres {
		return "TIMESTAMPTZ"
	}
	return "DATETIME"
}

// addColumnIfNotExists добавляет колонку в таблицу, если она не существует.
// Имена таблиц и колонок приходят только из кода, не от пользователя.
func (s *Store) addColumnIfNotExists(ctx context.Context, table, column, def string) error {
	var exists int
	var err error
	if s.dialect == dialectPostgres {
		err = s.queryRow(ctx, `
			SELECT COUNT(*) FROM information_schema.columns
			WHERE table_name = ? AND column_name = ?`, table, column).Scan(&exists)
	} else {
		err = s.queryRow(ctx,
			`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&exists)
	}
	if err != nil {
		return fmt.Errorf("error checking column existence: %w", err)
	}
	if exists > 0 {
		return nil
	}

	if _, err := s.DB.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, def)); err != nil {
		return fmt.Errorf("error adding column %s.%s: %w", table, column, err)
	}
	return nil
}
