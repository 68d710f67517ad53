package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"postboard/internal/domain"
	"postboard/internal/store"
)

// PostgresPostStore implements the store.PostStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPostStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPostStore creates a new PostgreSQL implementation of the
// PostStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresPostStore(db store.DBTX, logger *slog.Logger) *PostgresPostStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPostStore{
		db:     db,
		logger: logger.With(slog.String("component", "post_store")),
	}
}

// Ensure PostgresPostStore implements store.PostStore interface
var _ store.PostStore = (*PostgresPostStore)(nil)

// List implements store.PostStore.List
func (s *PostgresPostStore) List(ctx context.Context) ([]*domain.Post, error) {
	query := `
		SELECT id, user_id, title, body
		FROM posts
		ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("failed to close rows", "error", err)
		}
	}()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(&post.ID, &post.UserID, &post.Title, &post.Body); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate post rows: %w", err)
	}

	return posts, nil
}

// GetByID implements store.PostStore.GetByID
func (s *PostgresPostStore) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := `
		SELECT id, user_id, title, body
		FROM posts
		WHERE id = $1`

	var post domain.Post
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&post.ID, &post.UserID, &post.Title, &post.Body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", MapError(err))
	}

	return &post, nil
}

// Create implements store.PostStore.Create
// The database assigns the ID from the posts sequence; it is written back
// onto the given post.
func (s *PostgresPostStore) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (user_id, title, body)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := s.db.QueryRowContext(ctx, query, post.UserID, post.Title, post.Body).
		Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", MapError(err))
	}

	s.logger.Debug("post created", "post_id", post.ID)
	return nil
}

// Update implements store.PostStore.Update
func (s *PostgresPostStore) Update(ctx context.Context, post *domain.Post) error {
	query := `
		UPDATE posts
		SET user_id = $1, title = $2, body = $3
		WHERE id = $4`

	result, err := s.db.ExecContext(ctx, query, post.UserID, post.Title, post.Body, post.ID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, "post"); err != nil {
		return store.ErrPostNotFound
	}

	s.logger.Debug("post updated", "post_id", post.ID)
	return nil
}

// Delete implements store.PostStore.Delete
func (s *PostgresPostStore) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM posts WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, "post"); err != nil {
		return store.ErrPostNotFound
	}

	s.logger.Debug("post deleted", "post_id", id)
	return nil
}
