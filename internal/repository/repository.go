package repository

import (
	"context"
	"errors"

	"personalblog/internal/models"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("already exists")
	ErrUnavailable = errors.New("datastore unavailable")
)

type UserRepository interface {
	// CreateUser stores user with a fresh id. The user is made an admin
	// if and only if the store holds no other user at insert time.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	SetAdmin(ctx context.Context, userID string, isAdmin bool) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

type PostRepository interface {
	// List returns every post, newest first.
	List(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	// Create assigns the id and sets CreatedAt and UpdatedAt to the same instant.
	Create(ctx context.Context, post *models.Post) error
	// Update merges fields over the stored post and refreshes UpdatedAt.
	Update(ctx context.Context, postID string, fields models.PostFields) (*models.Post, error)
	Delete(ctx context.Context, postID string) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

type Repository struct {
	User UserRepository
	Post PostRepository
}

func NewRepository(user UserRepository, post PostRepository) *Repository {
	return &Repository{
		User: user,
		Post: post,
	}
}
