package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type migration struct {
	Version int
	Name    string
	Up      func(ctx context.Context, d *mongo.Database) error
}

var migrations = []migration{
	{Version: 1, Name: "users collection with unique email", Up: migrateUsers},
	{Version: 2, Name: "recipes collection", Up: migrateRecipes},
	{Version: 3, Name: "index saved recipes", Up: migrateSavedRecipesIndex},
}

var userSchema = bson.M{
	"bsonType": "object",
	"required": bson.A{"name", "email", "password", "savedRecipes"},
	"properties": bson.M{
		"name":     bson.M{"bsonType": "string", "minLength": 1},
		"email":    bson.M{"bsonType": "string", "pattern": `^\S+@\S+\.\S+$`},
		"password": bson.M{"bsonType": "string", "minLength": 1},
		"savedRecipes": bson.M{
			"bsonType":    "array",
			"uniqueItems": true,
			"items":       bson.M{"bsonType": "objectId"},
		},
	},
}

var recipeSchema = bson.M{
	"bsonType": "object",
	"required": bson.A{"name", "ingredients", "instructions", "imageUrl", "description", "cookingTime", "userOwner"},
	"properties": bson.M{
		"name":         bson.M{"bsonType": "string", "minLength": 1},
		"ingredients":  bson.M{"bsonType": "array", "minItems": 1, "items": bson.M{"bsonType": "string", "minLength": 1}},
		"instructions": bson.M{"bsonType": "array", "minItems": 1, "items": bson.M{"bsonType": "string", "minLength": 1}},
		"imageUrl":     bson.M{"bsonType": "string", "minLength": 1},
		"description":  bson.M{"bsonType": "string", "minLength": 1},
		"cookingTime":  bson.M{"bsonType": bson.A{"int", "long", "double"}, "minimum": 1},
		"userOwner":    bson.M{"bsonType": "objectId"},
	},
}

// Migrate applies every migration not yet recorded in schema_migrations, in
// version order.
func Migrate(ctx context.Context, d *mongo.Database, log *zap.Logger) error {
	applied := d.Collection(MigrationsCollection)

	for _, m := range migrations {
		n, err := applied.CountDocuments(ctx, bson.M{"_id": m.Version})
		if err != nil {
			return fmt.Errorf("reading migration %d: %w", m.Version, err)
		}
		if n > 0 {
			continue
		}

		if err := m.Up(ctx, d); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := applied.InsertOne(ctx, bson.M{"_id": m.Version, "name": m.Name, "appliedAt": time.Now().UTC()}); err != nil {
			return fmt.Errorf("recording migration %d: %w", m.Version, err)
		}
		log.Info("applied migration", zap.Int("version", m.Version), zap.String("name", m.Name))
	}
	return nil
}

func migrateUsers(ctx context.Context, d *mongo.Database) error {
	if err := ensureValidated(ctx, d, UsersCollection, userSchema); err != nil {
		return err
	}
	_, err := d.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	return err
}

func migrateRecipes(ctx context.Context, d *mongo.Database) error {
	if err := ensureValidated(ctx, d, RecipesCollection, recipeSchema); err != nil {
		return err
	}
	_, err := d.Collection(RecipesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userOwner", Value: 1}},
		Options: options.Index().SetName("user_owner"),
	})
	return err
}

func migrateSavedRecipesIndex(ctx context.Context, d *mongo.Database) error {
	_, err := d.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "savedRecipes", Value: 1}},
		Options: options.Index().SetName("saved_recipes"),
	})
	return err
}

// ensureValidated creates the collection with a $jsonSchema validator, or
// attaches the validator if the collection already exists.
func ensureValidated(ctx context.Context, d *mongo.Database, name string, schema bson.M) error {
	validator := bson.M{"$jsonSchema": schema}

	err := d.CreateCollection(ctx, name, options.CreateCollection().SetValidator(validator))
	if err == nil {
		return nil
	}

	var ce mongo.CommandError
	// 48 is NamespaceExists.
	if !errors.As(err, &ce) || !ce.HasErrorCode(48) {
		return err
	}
	return d.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}).Err()
}
