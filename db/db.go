package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UsersCollection      = "users"
	RecipesCollection    = "recipes"
	MigrationsCollection = "schema_migrations"
)

// Connect dials MongoDB and pings the deployment before returning.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Database("admin").RunCommand(pingCtx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client, nil
}

// MongoStore implements Store on top of a MongoDB database.
type MongoStore struct {
	client  *mongo.Client
	users   *mongo.Collection
	recipes *mongo.Collection
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	d := client.Database(database)
	return &MongoStore{
		client:  client,
		users:   d.Collection(UsersCollection),
		recipes: d.Collection(RecipesCollection),
	}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}
