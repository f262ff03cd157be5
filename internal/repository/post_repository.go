package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"personalblog/internal/models"
)

const postColumns = `post_id, title, content, excerpt, author, tags, featured_image, created_at, updated_at`

// postRow is the posts table layout; tags live in a text[] column.
type postRow struct {
	PostID        string         `db:"post_id"`
	Title         string         `db:"title"`
	Content       string         `db:"content"`
	Excerpt       string         `db:"excerpt"`
	Author        string         `db:"author"`
	Tags          pq.StringArray `db:"tags"`
	FeaturedImage string         `db:"featured_image"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (row postRow) toModel() models.Post {
	post := models.Post{
		PostID:        row.PostID,
		Title:         row.Title,
		Content:       row.Content,
		Excerpt:       row.Excerpt,
		Author:        row.Author,
		Tags:          []string(row.Tags),
		FeaturedImage: row.FeaturedImage,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	post.Normalize()
	return post
}

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

func (r *PostRepositoryImpl) List(ctx context.Context) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, post_id`

	var rows []postRow
	if err := r.DB.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]models.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toModel())
	}
	return posts, nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_id = $1`

	var row postRow
	err := r.DB.GetContext(ctx, &row, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post with id %s: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	post := row.toModel()
	return &post, nil
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	query := `INSERT INTO posts (` + postColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	post.PostID = uuid.New().String()
	now := time.Now().UTC().Truncate(time.Microsecond)
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Normalize()

	_, err := r.DB.ExecContext(ctx, query,
		post.PostID,
		post.Title,
		post.Content,
		post.Excerpt,
		post.Author,
		pq.StringArray(post.Tags),
		post.FeaturedImage,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// Update is a plain read-merge-write: concurrent updates are last writer wins.
func (r *PostRepositoryImpl) Update(ctx context.Context, postID string, fields models.PostFields) (*models.Post, error) {
	post, err := r.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	fields.Apply(post)
	post.UpdatedAt = laterOf(time.Now().UTC().Truncate(time.Microsecond), post.CreatedAt)
	post.Normalize()

	query := `UPDATE posts SET title = $1, content = $2, excerpt = $3, author = $4, tags = $5, featured_image = $6, updated_at = $7 WHERE post_id = $8`

	result, err := r.DB.ExecContext(ctx, query,
		post.Title,
		post.Content,
		post.Excerpt,
		post.Author,
		pq.StringArray(post.Tags),
		post.FeaturedImage,
		post.UpdatedAt,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check updated rows: %w", err)
	}

	// deleted between the read and the write
	if rowsAffected == 0 {
		return nil, fmt.Errorf("post with id %s: %w", postID, ErrNotFound)
	}

	return post, nil
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, postID string) error {
	query := `DELETE FROM posts WHERE post_id = $1`

	result, err := r.DB.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post with id %s: %w", postID, ErrNotFound)
	}

	return nil
}

func (r *PostRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM posts`); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

func (r *PostRepositoryImpl) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}
