package db

import (
	"context"
	"errors"
	"fmt"

	"recipebox/apperr"
	"recipebox/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	if u.SavedRecipes == nil {
		u.SavedRecipes = []primitive.ObjectID{}
	}
	u.ID = primitive.NewObjectID()

	if _, err := s.users.InsertOne(ctx, u); err != nil {
		u.ID = primitive.NilObjectID
		if mongo.IsDuplicateKeyError(err) {
			return apperr.New(apperr.ErrConflict, "email already in use")
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *MongoStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.ErrNotFound, "user not found")
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &u, nil
}

func (s *MongoStore) SaveRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{"_id": userID, "savedRecipes": bson.M{"$ne": recipeID}}
	update := bson.M{"$push": bson.M{"savedRecipes": recipeID}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"savedRecipes": 1})

	var u models.User
	err := s.users.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u)
	if err == nil {
		return u.SavedRecipes, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("saving recipe: %w", err)
	}

	// Nothing matched: either the user is gone or the recipe is already there.
	n, err := s.users.CountDocuments(ctx, bson.M{"_id": userID})
	if err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	if n == 0 {
		return nil, apperr.New(apperr.ErrNotFound, "user not found")
	}
	return nil, apperr.New(apperr.ErrConflict, "recipe already saved")
}

func (s *MongoStore) PullSavedRecipe(ctx context.Context, recipeID primitive.ObjectID) error {
	_, err := s.users.UpdateMany(ctx,
		bson.M{"savedRecipes": recipeID},
		bson.M{"$pull": bson.M{"savedRecipes": recipeID}},
	)
	if err != nil {
		return fmt.Errorf("pulling saved recipe: %w", err)
	}
	return nil
}
