package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UsersCollection = "users"
	PostsCollection = "posts"
)

type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
	logger   logrus.FieldLogger
}

// OpenMongo builds a client. The driver dials lazily, so an unreachable
// server is reported by Init or Ping rather than here.
func OpenMongo(ctx context.Context, uri, database string, logger logrus.FieldLogger) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	return &Mongo{
		Client:   client,
		Database: client.Database(database),
		logger:   logger,
	}, nil
}

// Init checks the connection and creates indexes.
func (m *Mongo) Init(ctx context.Context) error {
	if err := m.Ping(ctx); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}

	_, err := m.Database.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = m.Database.Collection(PostsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create posts index: %w", err)
	}

	m.logger.Info("connected to MongoDB")
	return nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
