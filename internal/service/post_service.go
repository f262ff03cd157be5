package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"personalblog/internal/models"
	"personalblog/internal/repository"
	"personalblog/internal/storage"
)

type PostService interface {
	List(ctx context.Context) ([]models.Post, error)
	Get(ctx context.Context, postID string) (*models.Post, error)
	// Create stores a new post written by author. Any author in fields is ignored.
	Create(ctx context.Context, fields models.PostFields, author string) (*models.Post, error)
	Update(ctx context.Context, postID string, fields models.PostFields) (*models.Post, error)
	Delete(ctx context.Context, postID string) error
	// AttachImage uploads a featured image and points the post at it.
	AttachImage(ctx context.Context, postID, fileName string, file io.Reader, size int64) (*models.Post, error)
}

type postService struct {
	postRepo repository.PostRepository
	storage  storage.Storage
	logger   logrus.FieldLogger
}

// NewPostService builds the post service. A nil store disables image uploads.
func NewPostService(postRepo repository.PostRepository, store storage.Storage, logger logrus.FieldLogger) PostService {
	return &postService{
		postRepo: postRepo,
		storage:  store,
		logger:   logger,
	}
}

func (p *postService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := p.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (p *postService) Get(ctx context.Context, postID string) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

func (p *postService) Create(ctx context.Context, fields models.PostFields, author string) (*models.Post, error) {
	if err := checkText(fields, true); err != nil {
		return nil, err
	}

	fields.Author = &author

	post := &models.Post{}
	fields.Apply(post)

	if err := p.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

func (p *postService) Update(ctx context.Context, postID string, fields models.PostFields) (*models.Post, error) {
	if err := checkText(fields, false); err != nil {
		return nil, err
	}

	post, err := p.postRepo.Update(ctx, postID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

func (p *postService) Delete(ctx context.Context, postID string) error {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if err := p.postRepo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	p.removeImage(ctx, post.FeaturedImage)
	return nil
}

func (p *postService) AttachImage(ctx context.Context, postID, fileName string, file io.Reader, size int64) (*models.Post, error) {
	if p.storage == nil {
		return nil, fmt.Errorf("image storage is not configured: %w", ErrUnavailable)
	}

	existing, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	objectName, imageURL, err := p.storage.UploadImage(ctx, postID, fileName, file, size)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	post, err := p.postRepo.Update(ctx, postID, models.PostFields{FeaturedImage: &imageURL})
	if err != nil {
		if delErr := p.storage.DeleteImage(ctx, objectName); delErr != nil {
			p.logger.WithError(delErr).WithField("object", objectName).Warn("failed to remove orphaned image")
		}
		return nil, fmt.Errorf("failed to update post image: %w", err)
	}

	p.removeImage(ctx, existing.FeaturedImage)
	return post, nil
}

// removeImage deletes an image this service uploaded. External URLs are left alone.
func (p *postService) removeImage(ctx context.Context, imageURL string) {
	if p.storage == nil || imageURL == "" {
		return
	}

	objectName, ok := p.storage.ObjectName(imageURL)
	if !ok {
		return
	}

	if err := p.storage.DeleteImage(ctx, objectName); err != nil {
		p.logger.WithError(err).WithField("object", objectName).Warn("failed to remove image")
	}
}

// checkText rejects blank title, content or excerpt. With required set, an
// absent field is rejected too.
func checkText(fields models.PostFields, required bool) error {
	texts := []struct {
		name  string
		value *string
	}{
		{"title", fields.Title},
		{"content", fields.Content},
		{"excerpt", fields.Excerpt},
	}

	for _, text := range texts {
		if text.value == nil {
			if required {
				return fmt.Errorf("%s is required: %w", text.name, ErrInvalidInput)
			}
			continue
		}
		if strings.TrimSpace(*text.value) == "" {
			return fmt.Errorf("%s cannot be blank: %w", text.name, ErrInvalidInput)
		}
	}
	return nil
}
