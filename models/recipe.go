package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Recipe struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Ingredients  []string           `bson:"ingredients" json:"ingredients"`
	Instructions []string           `bson:"instructions" json:"instructions"`
	ImageURL     string             `bson:"imageUrl" json:"imageUrl"`
	Description  string             `bson:"description" json:"description"`
	CookingTime  int                `bson:"cookingTime" json:"cookingTime"`
	UserOwner    primitive.ObjectID `bson:"userOwner" json:"userOwner"`
}

// CreateRecipeRequest is the body of POST /Home. UserOwner is optional and,
// when sent, must name the caller.
type CreateRecipeRequest struct {
	Name         string   `json:"name" validate:"required"`
	Ingredients  []string `json:"ingredients" validate:"required,min=1,dive,required"`
	Instructions []string `json:"instructions" validate:"required,min=1,dive,required"`
	ImageURL     string   `json:"imageUrl" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	CookingTime  int      `json:"cookingTime" validate:"required,gt=0"`
	UserOwner    string   `json:"userOwner,omitempty"`
}

func (r *CreateRecipeRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	r.Description = strings.TrimSpace(r.Description)
	r.UserOwner = strings.TrimSpace(r.UserOwner)
	r.Ingredients = trimAll(r.Ingredients)
	r.Instructions = trimAll(r.Instructions)
}

// Recipe builds the document to insert for owner.
func (r *CreateRecipeRequest) Recipe(owner primitive.ObjectID) *Recipe {
	return &Recipe{
		Name:         r.Name,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		ImageURL:     r.ImageURL,
		Description:  r.Description,
		CookingTime:  r.CookingTime,
		UserOwner:    owner,
	}
}

// SaveRecipeRequest is the body of PUT /Home.
type SaveRecipeRequest struct {
	RecipeID string `json:"recipeID" validate:"required"`
	UserID   string `json:"UserID,omitempty"`
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
