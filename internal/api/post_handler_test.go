package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboard/internal/cache"
	"postboard/internal/domain"
	"postboard/internal/service"
	"postboard/internal/store"
)

// fakePostStore is an in-memory store.PostStore for handler tests.
type fakePostStore struct {
	mu     sync.Mutex
	posts  map[int64]*domain.Post
	nextID int64
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[int64]*domain.Post), nextID: 1}
}

func (f *fakePostStore) List(ctx context.Context) ([]*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	posts := make([]*domain.Post, 0, len(f.posts))
	for id := int64(1); id < f.nextID; id++ {
		if p, ok := f.posts[id]; ok {
			copied := *p
			posts = append(posts, &copied)
		}
	}
	return posts, nil
}

func (f *fakePostStore) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.posts[id]
	if !ok {
		return nil, store.ErrPostNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePostStore) Create(ctx context.Context, post *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.ID = f.nextID
	f.nextID++
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakePostStore) Update(ctx context.Context, post *domain.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[post.ID]; !ok {
		return store.ErrPostNotFound
	}
	copied := *post
	f.posts[post.ID] = &copied
	return nil
}

func (f *fakePostStore) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return store.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

// newTestRouter mounts a PostHandler under /posts the way the server router
// does, backed by a fake store and an in-memory cache.
func newTestRouter(t *testing.T, ns cache.Namespace) (chi.Router, *fakePostStore) {
	t.Helper()

	postStore := newFakePostStore()
	svc, err := service.NewPostService(postStore, cache.NewMemoryCache(time.Minute), time.Minute, nil)
	require.NoError(t, err)

	handler := NewPostHandler(svc, ns, nil)

	r := chi.NewRouter()
	r.Get("/posts", handler.List)
	r.Post("/posts", handler.Create)
	r.Get("/posts/{id}", handler.Get)
	r.Put("/posts/{id}", handler.Update)
	r.Patch("/posts/{id}", handler.Update)
	r.Delete("/posts/{id}", handler.Delete)

	return r, postStore
}

func doRequest(t *testing.T, router chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Message
}

func TestPostLifecycle(t *testing.T) {
	router, _ := newTestRouter(t, cache.NamespaceV1)

	// Create.
	rr := doRequest(t, router, http.MethodPost, "/posts",
		`{"userId": 7, "title": "first", "body": "hello"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var created domain.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(7), created.UserID)
	assert.Equal(t, "first", created.Title)
	assert.Equal(t, "hello", created.Body)

	// Read it back, identical.
	rr = doRequest(t, router, http.MethodGet, "/posts/1", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var fetched domain.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	assert.Equal(t, created, fetched)

	// Delete reports the removed ID.
	rr = doRequest(t, router, http.MethodDelete, "/posts/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"deleted": 1}`, rr.Body.String())

	// Gone now.
	rr = doRequest(t, router, http.MethodGet, "/posts/1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Post not found", errorMessage(t, rr))
}

func TestListEmptyReturnsEmptyArray(t *testing.T) {
	router, _ := newTestRouter(t, cache.NamespaceV1)

	rr := doRequest(t, router, http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestListReturnsAllPosts(t *testing.T) {
	router, _ := newTestRouter(t, cache.NamespaceV2)

	for i := 1; i <= 3; i++ {
		rr := doRequest(t, router, http.MethodPost, "/posts",
			fmt.Sprintf(`{"userId": 1, "title": "post %d", "body": "body %d"}`, i, i))
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := doRequest(t, router, http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var posts []domain.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &posts))
	require.Len(t, posts, 3)
	assert.Equal(t, "post 1", posts[0].Title)
	assert.Equal(t, "post 3", posts[2].Title)
}

func TestCreateValidation(t *testing.T) {
	longTitle := strings.Repeat("t", domain.MaxTitleLength+1)
	longBody := strings.Repeat("b", domain.MaxBodyLength+1)

	tests := []struct {
		name        string
		payload     string
		wantMessage string
	}{
		{
			name:        "missing userId",
			payload:     `{"title": "a", "body": "b"}`,
			wantMessage: domain.ErrPostUserIDRequired.Error(),
		},
		{
			name:        "missing title",
			payload:     `{"userId": 1, "body": "b"}`,
			wantMessage: domain.ErrPostTitleRequired.Error(),
		},
		{
			name:        "missing body",
			payload:     `{"userId": 1, "title": "a"}`,
			wantMessage: domain.ErrPostBodyRequired.Error(),
		},
		{
			name:        "title too long",
			payload:     fmt.Sprintf(`{"userId": 1, "title": %q, "body": "b"}`, longTitle),
			wantMessage: "title must be at most 100 characters",
		},
		{
			name:        "body too long",
			payload:     fmt.Sprintf(`{"userId": 1, "title": "a", "body": %q}`, longBody),
			wantMessage: "body must be at most 200 characters",
		},
		{
			name:        "malformed JSON",
			payload:     `{"userId": `,
			wantMessage: "Invalid request format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router, postStore := newTestRouter(t, cache.NamespaceV1)

			rr := doRequest(t, router, http.MethodPost, "/posts", tc.payload)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tc.wantMessage, errorMessage(t, rr))
			assert.Empty(t, postStore.posts, "nothing should be persisted")
		})
	}
}

func TestPartialUpdateKeepsAbsentFields(t *testing.T) {
	router, _ := newTestRouter(t, cache.NamespaceV1)

	rr := doRequest(t, router, http.MethodPost, "/posts",
		`{"userId": 5, "title": "original", "body": "unchanged"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(t, router, http.MethodPatch, "/posts/1", `{"title": "renamed"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var updated domain.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "unchanged", updated.Body)
	assert.Equal(t, int64(5), updated.UserID)
}

func TestPutAndPatchShareSemantics(t *testing.T) {
	router, _ := newTestRouter(t, cache.NamespaceV1)

	rr := doRequest(t, router, http.MethodPost, "/posts",
		`{"userId": 5, "title": "original", "body": "unchanged"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	// PUT with a partial payload behaves like PATCH, not full replace.
	rr = doRequest(t, router, http.MethodPut, "/posts/1", `{"body": "rewritten"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var updated domain.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "original", updated.Title)
	assert.Equal(t, "rewritten", updated.Body)
}

func TestUpdateMissingPostReturns404(t *testing.T) {
	router, _ := newTestRouter(t, cache.NamespaceV1)

	rr := doRequest(t, router, http.MethodPut, "/posts/99", `{"title": "x"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Post not found", errorMessage(t, rr))
}

func TestDeleteMissingPostReturns404(t *testing.T) {
	router, _ := newTestRouter(t, cache.NamespaceV1)

	rr := doRequest(t, router, http.MethodDelete, "/posts/99", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUnresolvableIDReturns404(t *testing.T) {
	router, _ := newTestRouter(t, cache.NamespaceV1)

	// An id segment that cannot name an existing post is a miss like any
	// other: reads, updates and deletes all answer 404.
	for _, target := range []string{"/posts/abc", "/posts/0", "/posts/-1"} {
		rr := doRequest(t, router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, rr.Code, "GET %s", target)
		assert.Equal(t, "Post not found", errorMessage(t, rr))

		rr = doRequest(t, router, http.MethodPut, target, `{"title": "x"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code, "PUT %s", target)
		assert.Equal(t, "Post not found", errorMessage(t, rr))

		rr = doRequest(t, router, http.MethodDelete, target, "")
		assert.Equal(t, http.StatusNotFound, rr.Code, "DELETE %s", target)
		assert.Equal(t, "Post not found", errorMessage(t, rr))
	}
}

func TestListReflectsWrites(t *testing.T) {
	router, _ := newTestRouter(t, cache.NamespaceV1)

	// Prime the cache with the empty list.
	rr := doRequest(t, router, http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = doRequest(t, router, http.MethodPost, "/posts",
		`{"userId": 1, "title": "fresh", "body": "content"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	// The write invalidated the cached list.
	rr = doRequest(t, router, http.MethodGet, "/posts", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var posts []domain.Post
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "fresh", posts[0].Title)
}
