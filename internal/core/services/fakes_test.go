package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vibeshare/vibeshare/internal/core/domain"
	"github.com/vibeshare/vibeshare/internal/core/events"
	"github.com/vibeshare/vibeshare/internal/core/ports"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
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

func (r *fakeUserRepo) GetByEmailAndType(_ context.Context, email string, userType domain.UserType) (*domain.User, error) {
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

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.Token
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*domain.Token)}
}

func (r *fakeTokenRepo) Create(_ context.Context, token *domain.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *token
	r.tokens[token.Token] = &copied
	return nil
}

func (r *fakeTokenRepo) GetActive(_ context.Context, raw string, userID uuid.UUID) (*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[raw]
	if !ok || !token.IsActive || token.UserID != userID {
		return nil, nil
	}
	copied := *token
	return &copied, nil
}

func (r *fakeTokenRepo) Deactivate(_ context.Context, raw string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token, ok := r.tokens[raw]; ok {
		token.IsActive = false
	}
	return nil
}

func (r *fakeTokenRepo) DeactivateAllForUser(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.UserID == userID {
			token.IsActive = false
		}
	}
	return nil
}

func (r *fakeTokenRepo) ListActiveByUser(_ context.Context, userID uuid.UUID) ([]*domain.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*domain.Token
	for _, token := range r.tokens {
		if token.UserID == userID && token.IsActive {
			copied := *token
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeTokenRepo) DeactivateExpired(_ context.Context) (int64, error) {
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

func (r *fakeTokenRepo) get(raw string) *domain.Token {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[raw]
}

type fakePostRepo struct {
	mu       sync.Mutex
	posts    map[uuid.UUID]*domain.Post
	likes    map[uuid.UUID][]uuid.UUID
	comments map[uuid.UUID][]domain.Comment
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:    make(map[uuid.UUID]*domain.Post),
		likes:    make(map[uuid.UUID][]uuid.UUID),
		comments: make(map[uuid.UUID][]domain.Comment),
	}
}

func (r *fakePostRepo) Create(_ context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *post
	r.posts[post.ID] = &copied
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return r.hydrated(post), nil
}

func (r *fakePostRepo) List(_ context.Context, filter ports.FeedFilter) ([]*domain.Post, error) {
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
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakePostRepo) UpdateCaption(_ context.Context, id uuid.UUID, caption string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return domain.ErrPostNotFound
	}
	post.Caption = caption
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	delete(r.likes, id)
	delete(r.comments, id)
	return nil
}

func (r *fakePostRepo) AddLike(_ context.Context, postID, userID uuid.UUID) (bool, error) {
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

func (r *fakePostRepo) RemoveLike(_ context.Context, postID, userID uuid.UUID) (bool, error) {
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

func (r *fakePostRepo) ListLikers(_ context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID{}, r.likes[postID]...), nil
}

func (r *fakePostRepo) AddComment(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[comment.PostID] = append(r.comments[comment.PostID], *comment)
	return nil
}

func (r *fakePostRepo) GetComment(_ context.Context, postID, commentID uuid.UUID) (*domain.Comment, error) {
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

func (r *fakePostRepo) DeleteComment(_ context.Context, postID, commentID uuid.UUID) error {
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

func (r *fakePostRepo) hydrated(post *domain.Post) *domain.Post {
	copied := *post
	copied.LikedBy = append([]uuid.UUID{}, r.likes[post.ID]...)
	copied.Comments = append([]domain.Comment{}, r.comments[post.ID]...)
	copied.Likes = len(copied.LikedBy)
	return &copied
}

var errStoreDown = errors.New("storage unavailable")

type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) {
	return "hashed:" + plaintext, nil
}

func (fakeHasher) Compare(plaintext, digest string) bool {
	return digest == "hashed:"+plaintext
}

type fakeObjectStore struct {
	mu      sync.Mutex
	uploads map[string][]byte
	deleted []string
	failAll bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{uploads: make(map[string][]byte)}
}

func (s *fakeObjectStore) Upload(_ context.Context, data []byte, name, _, category string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return "", errStoreDown
	}
	url := "https://testacct.blob.core.windows.net/" + category + "/" + name
	s.uploads[url] = data
	return url, nil
}

func (s *fakeObjectStore) Delete(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll {
		return false, errStoreDown
	}
	s.deleted = append(s.deleted, url)
	if _, ok := s.uploads[url]; ok {
		delete(s.uploads, url)
		return true, nil
	}
	return false, nil
}

func (s *fakeObjectStore) Owns(url string) bool {
	return strings.Contains(url, ".blob.core.windows.net")
}

type fakePublisher struct {
	mu        sync.Mutex
	created   []events.PostCreatedEvent
	liked     []events.PostLikedEvent
	commented []events.PostCommentedEvent
}

func (p *fakePublisher) PublishPostCreated(event events.PostCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, event)
	return nil
}

func (p *fakePublisher) PublishPostLiked(event events.PostLikedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.liked = append(p.liked, event)
	return nil
}

func (p *fakePublisher) PublishPostCommented(event events.PostCommentedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commented = append(p.commented, event)
	return nil
}
