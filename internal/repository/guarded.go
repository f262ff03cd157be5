package repository

import (
	"context"
	"fmt"

	"personalblog/internal/models"
)

// Liveness reports whether the backing datastore is reachable.
type Liveness interface {
	Live() bool
}

// GuardedPostRepository short-circuits a PostRepository while its datastore
// is down. With fallback enabled reads are served from models.SamplePosts;
// writes are always rejected with ErrUnavailable.
type GuardedPostRepository struct {
	next     PostRepository
	liveness Liveness
	fallback bool
}

func NewGuardedPostRepository(next PostRepository, liveness Liveness, fallback bool) *GuardedPostRepository {
	return &GuardedPostRepository{
		next:     next,
		liveness: liveness,
		fallback: fallback,
	}
}

func (r *GuardedPostRepository) List(ctx context.Context) ([]models.Post, error) {
	if !r.liveness.Live() {
		if r.fallback {
			return models.SamplePosts(), nil
		}
		return nil, ErrUnavailable
	}
	return r.next.List(ctx)
}

func (r *GuardedPostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	if !r.liveness.Live() {
		if !r.fallback {
			return nil, ErrUnavailable
		}
		post, ok := models.FindSamplePost(postID)
		if !ok {
			return nil, fmt.Errorf("post with id %s: %w", postID, ErrNotFound)
		}
		return &post, nil
	}
	return r.next.GetByID(ctx, postID)
}

func (r *GuardedPostRepository) Create(ctx context.Context, post *models.Post) error {
	if !r.liveness.Live() {
		return ErrUnavailable
	}
	return r.next.Create(ctx, post)
}

func (r *GuardedPostRepository) Update(ctx context.Context, postID string, fields models.PostFields) (*models.Post, error) {
	if !r.liveness.Live() {
		return nil, ErrUnavailable
	}
	return r.next.Update(ctx, postID, fields)
}

func (r *GuardedPostRepository) Delete(ctx context.Context, postID string) error {
	if !r.liveness.Live() {
		return ErrUnavailable
	}
	return r.next.Delete(ctx, postID)
}

// Count has no fallback: sample posts are not stored posts.
func (r *GuardedPostRepository) Count(ctx context.Context) (int64, error) {
	if !r.liveness.Live() {
		return 0, ErrUnavailable
	}
	return r.next.Count(ctx)
}

func (r *GuardedPostRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// GuardedUserRepository rejects every call with ErrUnavailable while the
// datastore is down, so auth failures surface as 503 rather than 500.
type GuardedUserRepository struct {
	next     UserRepository
	liveness Liveness
}

func NewGuardedUserRepository(next UserRepository, liveness Liveness) *GuardedUserRepository {
	return &GuardedUserRepository{next: next, liveness: liveness}
}

func (r *GuardedUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if !r.liveness.Live() {
		return ErrUnavailable
	}
	return r.next.CreateUser(ctx, user)
}

func (r *GuardedUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if !r.liveness.Live() {
		return nil, ErrUnavailable
	}
	return r.next.GetUserByID(ctx, userID)
}

func (r *GuardedUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if !r.liveness.Live() {
		return nil, ErrUnavailable
	}
	return r.next.GetUserByUsername(ctx, username)
}

func (r *GuardedUserRepository) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	if !r.liveness.Live() {
		return ErrUnavailable
	}
	return r.next.SetAdmin(ctx, userID, isAdmin)
}

func (r *GuardedUserRepository) Count(ctx context.Context) (int64, error) {
	if !r.liveness.Live() {
		return 0, ErrUnavailable
	}
	return r.next.Count(ctx)
}

func (r *GuardedUserRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}
