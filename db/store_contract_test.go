package db

import (
	"context"
	"testing"

	"recipebox/apperr"
	"recipebox/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func soup(owner primitive.ObjectID) *models.Recipe {
	return &models.Recipe{
		Name:         "Soup",
		Ingredients:  []string{"water", "salt"},
		Instructions: []string{"boil"},
		ImageURL:     "http://x/y.png",
		Description:  "warm",
		CookingTime:  10,
		UserOwner:    owner,
	}
}

// runStoreContract exercises behavior every Store implementation must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("unique email", func(t *testing.T) {
		s := newStore(t)
		u := &models.User{Name: "Ada", Email: "ada@x.com", Password: "hash"}
		require.NoError(t, s.CreateUser(ctx, u))
		assert.False(t, u.ID.IsZero())

		dup := &models.User{Name: "Other", Email: "ada@x.com", Password: "hash"}
		err := s.CreateUser(ctx, dup)
		assert.ErrorIs(t, err, apperr.ErrConflict)

		got, err := s.UserByEmail(ctx, "ada@x.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "Ada", got.Name)
		assert.Empty(t, got.SavedRecipes)
	})

	t.Run("missing user", func(t *testing.T) {
		s := newStore(t)
		_, err := s.UserByEmail(ctx, "nobody@x.com")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		_, err = s.UserByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		_, err = s.SaveRecipe(ctx, primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("recipe lifecycle", func(t *testing.T) {
		s := newStore(t)
		owner := primitive.NewObjectID()

		r := soup(owner)
		require.NoError(t, s.CreateRecipe(ctx, r))
		require.False(t, r.ID.IsZero())

		got, err := s.RecipeByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, *r, *got)

		all, err := s.ListRecipes(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		deleted, err := s.DeleteRecipe(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "Soup", deleted.Name)

		_, err = s.RecipeByID(ctx, r.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		_, err = s.DeleteRecipe(ctx, r.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		all, err = s.ListRecipes(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("save once then conflict", func(t *testing.T) {
		s := newStore(t)
		u := &models.User{Name: "Ada", Email: "ada@x.com", Password: "hash"}
		require.NoError(t, s.CreateUser(ctx, u))
		r := soup(u.ID)
		require.NoError(t, s.CreateRecipe(ctx, r))

		saved, err := s.SaveRecipe(ctx, u.ID, r.ID)
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{r.ID}, saved)

		_, err = s.SaveRecipe(ctx, u.ID, r.ID)
		assert.ErrorIs(t, err, apperr.ErrConflict)

		got, err := s.UserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Len(t, got.SavedRecipes, 1)
	})

	t.Run("pull and lookup by ids", func(t *testing.T) {
		s := newStore(t)
		u := &models.User{Name: "Ada", Email: "ada@x.com", Password: "hash"}
		require.NoError(t, s.CreateUser(ctx, u))
		a, b := soup(u.ID), soup(u.ID)
		b.Name = "Stew"
		require.NoError(t, s.CreateRecipe(ctx, a))
		require.NoError(t, s.CreateRecipe(ctx, b))
		_, err := s.SaveRecipe(ctx, u.ID, a.ID)
		require.NoError(t, err)
		_, err = s.SaveRecipe(ctx, u.ID, b.ID)
		require.NoError(t, err)

		found, err := s.RecipesByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, primitive.NewObjectID()})
		require.NoError(t, err)
		assert.Len(t, found, 2)

		none, err := s.RecipesByIDs(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)

		require.NoError(t, s.PullSavedRecipe(ctx, a.ID))
		got, err := s.UserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{b.ID}, got.SavedRecipes)
	})
}
