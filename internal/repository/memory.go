package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"personalblog/internal/models"
)

// MemoryUserRepository keeps users in process memory.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
	now   func() time.Time
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]models.User),
		now:   time.Now,
	}
}

func (r *MemoryUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return fmt.Errorf("user %s: %w", user.Username, ErrConflict)
		}
	}

	user.UserID = uuid.New().String()
	user.CreatedAt = r.now().UTC()
	user.IsAdmin = len(r.users) == 0

	r.users[user.UserID] = *user
	return nil
}

func (r *MemoryUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("user with id %s: %w", userID, ErrNotFound)
	}
	return &user, nil
}

func (r *MemoryUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, ErrNotFound)
}

func (r *MemoryUserRepository) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return fmt.Errorf("user with id %s: %w", userID, ErrNotFound)
	}
	user.IsAdmin = isAdmin
	r.users[userID] = user
	return nil
}

func (r *MemoryUserRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *MemoryUserRepository) Ping(ctx context.Context) error {
	return nil
}

// MemoryPostRepository keeps posts in process memory.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]models.Post
	now   func() time.Time
}

// NewMemoryPostRepository returns a store holding copies of seed.
func NewMemoryPostRepository(seed ...models.Post) *MemoryPostRepository {
	r := &MemoryPostRepository{
		posts: make(map[string]models.Post, len(seed)),
		now:   time.Now,
	}
	for _, p := range seed {
		p.Normalize()
		r.posts[p.PostID] = p.Clone()
	}
	return r
}

func (r *MemoryPostRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.posts)), nil
}

func (r *MemoryPostRepository) List(ctx context.Context) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, p.Clone())
	}
	sortNewestFirst(posts)
	return posts, nil
}

func (r *MemoryPostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[postID]
	if !ok {
		return nil, fmt.Errorf("post with id %s: %w", postID, ErrNotFound)
	}
	post = post.Clone()
	return &post, nil
}

func (r *MemoryPostRepository) Create(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.PostID = uuid.New().String()
	now := r.now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Normalize()

	r.posts[post.PostID] = post.Clone()
	return nil
}

func (r *MemoryPostRepository) Update(ctx context.Context, postID string, fields models.PostFields) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[postID]
	if !ok {
		return nil, fmt.Errorf("post with id %s: %w", postID, ErrNotFound)
	}

	fields.Apply(&post)
	post.UpdatedAt = laterOf(r.now().UTC(), post.CreatedAt)
	post.Normalize()

	r.posts[postID] = post
	post = post.Clone()
	return &post, nil
}

func (r *MemoryPostRepository) Delete(ctx context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[postID]; !ok {
		return fmt.Errorf("post with id %s: %w", postID, ErrNotFound)
	}
	delete(r.posts, postID)
	return nil
}

func (r *MemoryPostRepository) Ping(ctx context.Context) error {
	return nil
}

func sortNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].PostID < posts[j].PostID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

// laterOf keeps UpdatedAt from moving before CreatedAt under clock skew.
func laterOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}
