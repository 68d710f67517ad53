package store

import (
	"context"

	"postboard/internal/domain"
)

// PostStore defines the interface for post data persistence.
type PostStore interface {
	// List retrieves all posts ordered by ascending ID.
	// An empty table yields an empty slice, not an error.
	List(ctx context.Context) ([]*domain.Post, error)

	// GetByID retrieves a post by its unique ID.
	// Returns ErrPostNotFound if the post does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Post, error)

	// Create persists a new post and assigns its ID from the database
	// sequence. The assigned ID is written back onto the given post.
	// Returns ErrInvalidEntity if the post violates a storage constraint.
	Create(ctx context.Context, post *domain.Post) error

	// Update overwrites all mutable fields of the stored post matching
	// post.ID. Returns ErrPostNotFound if no such post exists.
	Update(ctx context.Context, post *domain.Post) error

	// Delete removes a post by its ID (hard delete, no tombstone).
	// Returns ErrPostNotFound if the post does not exist.
	Delete(ctx context.Context, id int64) error
}
