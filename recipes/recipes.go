package recipes

import (
	"errors"
	"net/http"

	"recipebox/apperr"
	"recipebox/db"
	"recipebox/models"
	"recipebox/mq"
	"recipebox/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Recipes db.RecipeStore
	Users   db.UserStore
	Events  mq.Emitter
	Log     *zap.Logger
}

// GetRecipes lists every recipe.
func (h *Handler) GetRecipes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	recipes, err := h.Recipes.ListRecipes(r.Context())
	if err != nil {
		h.Log.Error("list recipes failed", zap.Error(err))
		utils.RespondWithFailure(w, err, "Error fetching recipes")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, recipes)
}

// GetRecipe answers 404 for unknown and malformed IDs alike.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	recipe, err := h.Recipes.RecipeByID(r.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		utils.RespondWithFailure(w, err, "Failed to fetch recipe")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, recipe)
}

// CreateRecipe stores a recipe owned by the caller.
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.CreateRecipeRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithFailure(w, err, "Error creating recipe")
		return
	}
	if req.UserOwner != "" && req.UserOwner != owner.Hex() {
		utils.RespondWithError(w, http.StatusForbidden, "userOwner must be the logged-in user")
		return
	}

	recipe := req.Recipe(owner)
	if err := h.Recipes.CreateRecipe(r.Context(), recipe); err != nil {
		h.Log.Error("create recipe failed", zap.Error(err))
		utils.RespondWithFailure(w, err, "Error creating recipe")
		return
	}

	mq.Notify(r.Context(), h.Events, h.Log, mq.RecipeCreated, mq.Index{
		EntityType: "recipe", Method: "POST", EntityId: recipe.ID.Hex(), UserId: owner.Hex(),
	})
	utils.RespondWithJSON(w, http.StatusCreated, recipe)
}

// SaveRecipe appends a recipe to the caller's saved list.
func (h *Handler) SaveRecipe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.SaveRecipeRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithFailure(w, err, "Internal Server Error")
		return
	}
	if req.UserID != "" && req.UserID != userID.Hex() {
		utils.RespondWithError(w, http.StatusForbidden, "Cannot save recipes for another user")
		return
	}

	recipeID, err := primitive.ObjectIDFromHex(req.RecipeID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if _, err := h.Recipes.RecipeByID(r.Context(), recipeID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		utils.RespondWithFailure(w, err, "Internal Server Error")
		return
	}

	saved, err := h.Users.SaveRecipe(r.Context(), userID, recipeID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, apperr.ErrConflict):
		utils.RespondWithError(w, http.StatusConflict, "Recipe already saved")
		return
	case err != nil:
		h.Log.Error("save recipe failed", zap.Error(err))
		utils.RespondWithFailure(w, err, "Internal Server Error")
		return
	}

	mq.Notify(r.Context(), h.Events, h.Log, mq.RecipeSaved, mq.Index{
		EntityType: "recipe", Method: "PUT", EntityId: recipeID.Hex(), UserId: userID.Hex(),
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message":      "Recipe saved successfully",
		"savedRecipes": saved,
	})
}

// GetSavedRecipes returns the caller's saved list populated in saved order.
func (h *Handler) GetSavedRecipes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, ok := h.ownUser(w, r, ps)
	if !ok {
		return
	}

	found, err := h.Recipes.RecipesByIDs(r.Context(), user.SavedRecipes)
	if err != nil {
		utils.RespondWithFailure(w, err, "Error fetching saved recipes")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"savedRecipes": populate(user.SavedRecipes, found)})
}

// GetSavedRecipesByIDs resolves the saved list with a single set query and
// keeps the store's order.
func (h *Handler) GetSavedRecipesByIDs(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, ok := h.ownUser(w, r, ps)
	if !ok {
		return
	}

	found, err := h.Recipes.RecipesByIDs(r.Context(), user.SavedRecipes)
	if err != nil {
		utils.RespondWithFailure(w, err, "Error fetching saved recipes")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"savedRecipes": found})
}

// DeleteRecipe removes the recipe and pulls it from every saved list.
func (h *Handler) DeleteRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}

	deleted, err := h.Recipes.DeleteRecipe(r.Context(), id)
	if errors.Is(err, apperr.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Recipe not found")
		return
	}
	if err != nil {
		utils.RespondWithFailure(w, err, "Failed to delete recipe")
		return
	}

	if err := h.Users.PullSavedRecipe(r.Context(), id); err != nil {
		// The recipe is gone; dangling IDs are dropped when lists are populated.
		h.Log.Error("pull saved recipe failed", zap.String("recipe_id", id.Hex()), zap.Error(err))
	}

	mq.Notify(r.Context(), h.Events, h.Log, mq.RecipeDeleted, mq.Index{
		EntityType: "recipe", Method: "DELETE", EntityId: id.Hex(), UserId: userID.Hex(),
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Recipe successfully deleted",
		"recipe":  deleted,
	})
}

// ownUser loads the user named by :UserID, which must be the caller.
func (h *Handler) ownUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (*models.User, bool) {
	caller, ok := callerID(w, r)
	if !ok {
		return nil, false
	}
	if ps.ByName("UserID") != caller.Hex() {
		utils.RespondWithError(w, http.StatusForbidden, "Cannot read another user's saved recipes")
		return nil, false
	}

	user, err := h.Users.UserByID(r.Context(), caller)
	if errors.Is(err, apperr.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		utils.RespondWithFailure(w, err, "Error fetching saved recipes")
		return nil, false
	}
	return user, true
}

func callerID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(utils.GetUserIDFromContext(r.Context()))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return primitive.NilObjectID, false
	}
	return id, true
}

// populate orders found by ids and drops IDs with no recipe behind them.
func populate(ids []primitive.ObjectID, found []models.Recipe) []models.Recipe {
	byID := make(map[primitive.ObjectID]models.Recipe, len(found))
	for _, rec := range found {
		byID[rec.ID] = rec
	}
	out := make([]models.Recipe, 0, len(ids))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}
