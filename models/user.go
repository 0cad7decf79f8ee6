package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name         string               `bson:"name" json:"name"`
	Email        string               `bson:"email" json:"email"`
	Password     string               `bson:"password" json:"-"`
	SavedRecipes []primitive.ObjectID `bson:"savedRecipes" json:"savedRecipes"`
}

// HasSaved reports whether recipeID is already in the saved list.
func (u *User) HasSaved(recipeID primitive.ObjectID) bool {
	for _, id := range u.SavedRecipes {
		if id == recipeID {
			return true
		}
	}
	return false
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// LoginResponse mirrors the body of POST /login. It is a 200 in both the
// success and the failure case.
type LoginResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	User    *LoginUser `json:"user,omitempty"`
}

type LoginUser struct {
	UserID string `json:"userId"`
}
