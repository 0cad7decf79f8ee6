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
)

func (s *MongoStore) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	return s.findRecipes(ctx, bson.M{})
}

func (s *MongoStore) RecipesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}
	return s.findRecipes(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *MongoStore) findRecipes(ctx context.Context, filter bson.M) ([]models.Recipe, error) {
	cursor, err := s.recipes.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("finding recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var recipes []models.Recipe
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("decoding recipes: %w", err)
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return recipes, nil
}

func (s *MongoStore) CreateRecipe(ctx context.Context, r *models.Recipe) error {
	r.ID = primitive.NewObjectID()
	if _, err := s.recipes.InsertOne(ctx, r); err != nil {
		r.ID = primitive.NilObjectID
		var we mongo.WriteException
		// 121 is DocumentValidationFailure from the $jsonSchema validator.
		if errors.As(err, &we) && we.HasErrorCode(121) {
			return apperr.New(apperr.ErrValidation, "recipe failed schema validation")
		}
		return fmt.Errorf("inserting recipe: %w", err)
	}
	return nil
}

func (s *MongoStore) RecipeByID(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	var r models.Recipe
	if err := s.recipes.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.ErrNotFound, "recipe not found")
		}
		return nil, fmt.Errorf("finding recipe: %w", err)
	}
	return &r, nil
}

func (s *MongoStore) DeleteRecipe(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	var r models.Recipe
	if err := s.recipes.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.New(apperr.ErrNotFound, "recipe not found")
		}
		return nil, fmt.Errorf("deleting recipe: %w", err)
	}
	return &r, nil
}
