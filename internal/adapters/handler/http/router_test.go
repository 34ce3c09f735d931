package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibeshare/vibeshare/internal/core/domain"
	"github.com/vibeshare/vibeshare/internal/core/ports"
	"github.com/vibeshare/vibeshare/internal/core/services"
)

// In-memory repositories so the router can be exercised with the real
// services and no database.

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email && existing.UserType == user.UserType {
			return domain.ErrDuplicateAccount
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByEmailAndType(_ context.Context, email string, userType domain.UserType) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email && user.UserType == userType {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

type memTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.Token
}

func (r *memTokenRepo) Create(_ context.Context, token *domain.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *token
	r.tokens[token.Token] = &copied
	return nil
}

func (r *memTokenRepo) GetActive(_ context.Context, raw string, userID uuid.UUID) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[raw]
	if !ok || !token.IsActive || token.UserID != userID {
		return nil, nil
	}
	copied := *token
	return &copied, nil
}

func (r *memTokenRepo) Deactivate(_ context.Context, raw string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token, ok := r.tokens[raw]; ok {
		token.IsActive = false
	}
	return nil
}

func (r *memTokenRepo) DeactivateAllForUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.UserID == userID {
			token.IsActive = false
		}
	}
	return nil
}

func (r *memTokenRepo) ListActiveByUser(_ context.Context, userID uuid.UUID) ([]*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Token
	for _, token := range r.tokens {
		if token.UserID == userID && token.IsActive {
			copied := *token
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *memTokenRepo) DeactivateExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, token := range r.tokens {
		if token.IsActive && token.ExpiresAt.Before(time.Now()) {
			token.IsActive = false
			count++
		}
	}
	return count, nil
}

type memPostRepo struct {
	mu       sync.Mutex
	posts    map[uuid.UUID]*domain.Post
	likes    map[uuid.UUID][]uuid.UUID
	comments map[uuid.UUID][]domain.Comment
}

func (r *memPostRepo) Create(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *memPostRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return r.hydrated(post), nil
}

func (r *memPostRepo) List(_ context.Context, filter ports.FeedFilter) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Post
	for _, post := range r.posts {
		if filter.OwnerID != nil && post.UserID != *filter.OwnerID {
			continue
		}
		if filter.ExcludeOwnerID != nil && post.UserID == *filter.ExcludeOwnerID {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(post.Caption), needle) &&
				!strings.Contains(strings.ToLower(post.UserName), needle) {
				continue
			}
		}
		result = append(result, r.hydrated(post))
	}
	return result, nil
}

func (r *memPostRepo) UpdateCaption(_ context.Context, id uuid.UUID, caption string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return domain.ErrPostNotFound
	}
	post.Caption = caption
	return nil
}

func (r *memPostRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memPostRepo) AddLike(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.likes[postID] {
		if id == userID {
			return false, nil
		}
	}
	r.likes[postID] = append(r.likes[postID], userID)
	return true, nil
}

func (r *memPostRepo) RemoveLike(_ context.Context, postID, userID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	likes := r.likes[postID]
	for i, id := range likes {
		if id == userID {
			r.likes[postID] = append(likes[:i], likes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memPostRepo) ListLikers(_ context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID{}, r.likes[postID]...), nil
}

func (r *memPostRepo) AddComment(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[comment.PostID] = append(r.comments[comment.PostID], *comment)
	return nil
}

func (r *memPostRepo) GetComment(_ context.Context, postID, commentID uuid.UUID) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, comment := range r.comments[postID] {
		if comment.ID == commentID {
			copied := comment
			return &copied, nil
		}
	}
	return nil, domain.ErrCommentNotFound
}

func (r *memPostRepo) DeleteComment(_ context.Context, postID, commentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comments := r.comments[postID]
	for i, comment := range comments {
		if comment.ID == commentID {
			r.comments[postID] = append(comments[:i], comments[i+1:]...)
			return nil
		}
	}
	return domain.ErrCommentNotFound
}

func (r *memPostRepo) hydrated(post *domain.Post) *domain.Post {
	copied := *post
	copied.LikedBy = append([]uuid.UUID{}, r.likes[post.ID]...)
	copied.Comments = append([]domain.Comment{}, r.comments[post.ID]...)
	copied.Likes = len(copied.LikedBy)
	return &copied
}

type memStore struct{}

func (memStore) Upload(_ context.Context, _ []byte, name, _, category string) (string, error) {
	return "https://testacct.blob.core.windows.net/" + category + "/" + name, nil
}

func (memStore) Delete(_ context.Context, _ string) (bool, error) { return true, nil }

func (memStore) Owns(url string) bool {
	return strings.Contains(url, ".blob.core.windows.net")
}

type plainHasher struct{}

func (plainHasher) Hash(plaintext string) (string, error) { return "h:" + plaintext, nil }
func (plainHasher) Compare(plaintext, digest string) bool { return digest == "h:"+plaintext }

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	users := &memUserRepo{users: make(map[uuid.UUID]*domain.User)}
	tokens := &memTokenRepo{tokens: make(map[string]*domain.Token)}
	posts := &memPostRepo{
		posts:    make(map[uuid.UUID]*domain.Post),
		likes:    make(map[uuid.UUID][]uuid.UUID),
		comments: make(map[uuid.UUID][]domain.Comment),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sessionSvc := services.NewSessionService(users, tokens, []byte("test-secret"), time.Hour)
	authSvc := services.NewAuthService(users, sessionSvc, plainHasher{}, memStore{})
	postSvc := services.NewPostService(posts, memStore{}, nil, logger)

	router := NewRouter(
		NewAuthHandler(authSvc, sessionSvc),
		NewPostHandler(postSvc),
		NewAuthenticator(sessionSvc),
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{Server: server}
}

func (s *testServer) request(t *testing.T, method, path, token string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	fields := map[string]json.RawMessage{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &fields))
	}
	return resp, fields
}

func fieldString(t *testing.T, fields map[string]json.RawMessage, key string) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(fields[key], &s))
	return s
}

func (s *testServer) signup(t *testing.T, name, email, userType string) string {
	t.Helper()
	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret1",
		"userType": userType,
	}
	if userType == "creator" {
		body["profileImage"] = "https://images.example.com/" + name + ".png"
	}
	resp, fields := s.request(t, "POST", "/api/auth/signup", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return fieldString(t, fields, "token")
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.Client().Get(s.URL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Server is running", string(body))

	resp, fields := s.request(t, "GET", "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", fieldString(t, fields, "status"))
}

func TestSignupLoginAndSessionListing(t *testing.T) {
	s := newTestServer(t)

	first := s.signup(t, "Alice", "alice@example.com", "consumer")

	resp, fields := s.request(t, "POST", "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "secret1",
		"userType": "consumer",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := fieldString(t, fields, "token")
	assert.NotEqual(t, first, second)

	resp, fields = s.request(t, "GET", "/api/auth/tokens", second, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sessions []struct {
		IsCurrent bool `json:"isCurrent"`
	}
	require.NoError(t, json.Unmarshal(fields["tokens"], &sessions))
	require.Len(t, sessions, 2)
	current := 0
	for _, session := range sessions {
		if session.IsCurrent {
			current++
		}
	}
	assert.Equal(t, 1, current)
}

func TestAuthGate(t *testing.T) {
	s := newTestServer(t)

	resp, fields := s.request(t, "GET", "/api/posts/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "no token provided", fieldString(t, fields, "message"))

	resp, fields = s.request(t, "GET", "/api/posts/", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "invalid token", fieldString(t, fields, "message"))

	token := s.signup(t, "Alice", "alice@example.com", "consumer")
	resp, _ = s.request(t, "POST", "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, fields = s.request(t, "GET", "/api/posts/", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "token not found or revoked", fieldString(t, fields, "message"))
}

func TestPostEndpoints(t *testing.T) {
	s := newTestServer(t)

	creator := s.signup(t, "Carol", "carol@example.com", "creator")
	consumer := s.signup(t, "Dave", "dave@example.com", "consumer")

	// Consumers cannot post.
	resp, fields := s.request(t, "POST", "/api/posts/", consumer, map[string]string{
		"type": "text", "caption": "nope",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "not authorized", fieldString(t, fields, "message"))

	resp, fields = s.request(t, "POST", "/api/posts/", creator, map[string]string{
		"type": "text", "caption": "hello",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	postID := fieldString(t, fields, "id")
	var likes int
	require.NoError(t, json.Unmarshal(fields["likes"], &likes))
	assert.Equal(t, 0, likes)

	// Like toggle through the endpoint.
	resp, fields = s.request(t, "POST", "/api/posts/"+postID+"/like", consumer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(fields["likes"], &likes))
	assert.Equal(t, 1, likes)

	resp, fields = s.request(t, "POST", "/api/posts/"+postID+"/like", consumer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(fields["likes"], &likes))
	assert.Equal(t, 0, likes)

	// Comment and third-party delete rejection.
	resp, fields = s.request(t, "POST", "/api/posts/"+postID+"/comment", consumer, map[string]string{
		"text": "nice",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	commentID := fieldString(t, fields, "id")

	stranger := s.signup(t, "Eve", "eve@example.com", "consumer")
	resp, _ = s.request(t, "DELETE", "/api/posts/"+postID+"/comment/"+commentID, stranger, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.request(t, "DELETE", "/api/posts/"+postID+"/comment/"+commentID, creator, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Unknown post IDs map to 404, malformed ones included.
	resp, _ = s.request(t, "DELETE", "/api/posts/not-a-uuid", creator, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, fields = s.request(t, "PUT", "/api/posts/"+postID, creator, map[string]string{
		"caption": "hello, edited",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "post updated", fieldString(t, fields, "message"))

	resp, fields = s.request(t, "DELETE", "/api/posts/"+postID, creator, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "post deleted", fieldString(t, fields, "message"))
}
