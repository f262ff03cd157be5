package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"personalblog/internal/database"
	"personalblog/internal/models"
)

// BSON dates carry millisecond precision.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

type mongoUserRepository struct {
	users *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{users: db.Collection(database.UsersCollection)}
}

// CreateUser counts before inserting, so two concurrent first registrations
// can both become admin. The unique username index still holds.
func (r *mongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	count, err := r.users.CountDocuments(ctx, bson.D{}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}

	user.UserID = uuid.New().String()
	user.CreatedAt = mongoNow()
	user.IsAdmin = count == 0

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s: %w", user.Username, ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *mongoUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": userID}, "user with id "+userID)
}

func (r *mongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username}, "user "+username)
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M, what string) (*models.User, error) {
	var user models.User
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", what, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	result, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"is_admin": isAdmin}})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s: %w", userID, ErrNotFound)
	}
	return nil
}

func (r *mongoUserRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.users.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *mongoUserRepository) Ping(ctx context.Context) error {
	return r.users.Database().Client().Ping(ctx, nil)
}

type mongoPostRepository struct {
	posts *mongo.Collection
}

func NewMongoPostRepository(db *mongo.Database) PostRepository {
	return &mongoPostRepository{posts: db.Collection(database.PostsCollection)}
}

func (r *mongoPostRepository) List(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})

	cursor, err := r.posts.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	for i := range posts {
		posts[i].Normalize()
	}
	return posts, nil
}

func (r *mongoPostRepository) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	if err := r.posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("post with id %s: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	post.Normalize()
	return &post, nil
}

func (r *mongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.PostID = uuid.New().String()
	now := mongoNow()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Normalize()

	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *mongoPostRepository) Update(ctx context.Context, postID string, fields models.PostFields) (*models.Post, error) {
	post, err := r.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	fields.Apply(post)
	post.UpdatedAt = laterOf(mongoNow(), post.CreatedAt)
	post.Normalize()

	result, err := r.posts.ReplaceOne(ctx, bson.M{"_id": postID}, post)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if result.MatchedCount == 0 {
		return nil, fmt.Errorf("post with id %s: %w", postID, ErrNotFound)
	}
	return post, nil
}

func (r *mongoPostRepository) Delete(ctx context.Context, postID string) error {
	result, err := r.posts.DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("post with id %s: %w", postID, ErrNotFound)
	}
	return nil
}

func (r *mongoPostRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.posts.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

func (r *mongoPostRepository) Ping(ctx context.Context) error {
	return r.posts.Database().Client().Ping(ctx, nil)
}
