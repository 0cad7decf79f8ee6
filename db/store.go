package db

import (
	"context"

	"recipebox/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore persists users and their saved-recipe lists.
type UserStore interface {
	// CreateUser inserts u and sets u.ID. A taken email is apperr.ErrConflict.
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// SaveRecipe appends recipeID to the user's saved list in one conditional
	// update and returns the resulting list. apperr.ErrNotFound if the user
	// is missing, apperr.ErrConflict if the recipe is already saved.
	SaveRecipe(ctx context.Context, userID, recipeID primitive.ObjectID) ([]primitive.ObjectID, error)
	// PullSavedRecipe removes recipeID from every saved list.
	PullSavedRecipe(ctx context.Context, recipeID primitive.ObjectID) error
}

// RecipeStore persists recipes.
type RecipeStore interface {
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	CreateRecipe(ctx context.Context, r *models.Recipe) error
	RecipeByID(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error)
	// RecipesByIDs returns the recipes that exist among ids, in store order.
	RecipesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Recipe, error)
	// DeleteRecipe removes the recipe and returns what was removed.
	DeleteRecipe(ctx context.Context, id primitive.ObjectID) (*models.Recipe, error)
}

type Store interface {
	UserStore
	RecipeStore
	Ping(ctx context.Context) error
}
