package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"postboard/internal/cache"
	"postboard/internal/domain"
	"postboard/internal/store"
)

// PostService provides the CRUD operations over posts shared by both API
// versions. The caller identifies itself with a cache.Namespace so that list
// caching and invalidation stay scoped to the version the request came in on:
// a v1 write invalidates only the v1 list, leaving the v2 list to age out on
// its own TTL, and vice versa.
type PostService struct {
	postStore store.PostStore
	cache     cache.Cache
	listTTL   time.Duration
	logger    *slog.Logger
}

// NewPostService creates a PostService with the given dependencies.
func NewPostService(
	postStore store.PostStore,
	c cache.Cache,
	listTTL time.Duration,
	logger *slog.Logger,
) (*PostService, error) {
	if postStore == nil {
		return nil, errors.New("postStore cannot be nil")
	}
	if c == nil {
		return nil, errors.New("cache cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostService{
		postStore: postStore,
		cache:     c,
		listTTL:   listTTL,
		logger:    logger.With(slog.String("component", "post_service")),
	}, nil
}

// List returns the serialized JSON array of all posts for the given
// namespace, served from the cache when possible. On a miss the collection
// is fetched from the store, serialized, stored under the namespace's list
// key with the configured TTL, and returned.
func (s *PostService) List(ctx context.Context, ns cache.Namespace) ([]byte, error) {
	key := ns.ListKey()

	cached, err := s.cache.Get(ctx, key)
	if err == nil {
		s.logger.Debug("list cache hit", "key", key)
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		// A broken cache backend degrades to store reads.
		s.logger.Warn("list cache read failed", "key", key, "error", err)
	}

	posts, err := s.postStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	serialized, err := json.Marshal(posts)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize posts: %w", err)
	}

	if err := s.cache.Set(ctx, key, serialized, s.listTTL); err != nil {
		s.logger.Warn("list cache write failed", "key", key, "error", err)
	}

	return serialized, nil
}

// Get returns the post with the given ID.
// Returns store.ErrPostNotFound if it does not exist.
func (s *PostService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	return s.postStore.GetByID(ctx, id)
}

// Create validates and persists a new post, then invalidates the namespace's
// list cache before returning. The returned post carries the assigned ID.
func (s *PostService) Create(
	ctx context.Context,
	ns cache.Namespace,
	userID int64,
	title, body string,
) (*domain.Post, error) {
	post, err := domain.NewPost(userID, title, body)
	if err != nil {
		return nil, err
	}

	if err := s.postStore.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.invalidateList(ctx, ns)
	return post, nil
}

// Update applies the patch to the post with the given ID, persists the
// result, and invalidates the namespace's list cache before returning.
// Fields absent from the patch are left unchanged.
func (s *PostService) Update(
	ctx context.Context,
	ns cache.Namespace,
	id int64,
	patch domain.PostPatch,
) (*domain.Post, error) {
	post, err := s.postStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := post.Apply(patch); err != nil {
		return nil, err
	}

	if err := s.postStore.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.invalidateList(ctx, ns)
	return post, nil
}

// Delete removes the post with the given ID and invalidates the namespace's
// list cache before returning.
func (s *PostService) Delete(ctx context.Context, ns cache.Namespace, id int64) error {
	if err := s.postStore.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateList(ctx, ns)
	return nil
}

// invalidateList drops the namespace's list key. The write has already been
// committed at this point, so a failing cache backend is logged rather than
// surfaced: the stale entry expires on its own TTL at worst.
func (s *PostService) invalidateList(ctx context.Context, ns cache.Namespace) {
	key := ns.ListKey()
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Error("failed to invalidate list cache", "key", key, "error", err)
	}
}
