package web

import (
	"net/http"
	"strconv"
	"strings"

	"recipebox/models"
)

const minPasswordLen = 6

// formError is a message shown next to the form that caused it.
type formError string

func (e formError) Error() string { return string(e) }

const (
	errFieldsRequired formError = "All fields are required"
	errShortPassword  formError = "Password must be at least 6 characters"
	errCookingTime    formError = "Cooking time must be a positive number of minutes"
)

type loginForm struct {
	Email    string
	Password string
}

func (f loginForm) check() error {
	if f.Email == "" || f.Password == "" {
		return errFieldsRequired
	}
	if len(f.Password) < minPasswordLen {
		return errShortPassword
	}
	return nil
}

type registerForm struct {
	Name     string
	Email    string
	Password string
}

func (f registerForm) check() error {
	if f.Name == "" || f.Email == "" || f.Password == "" {
		return errFieldsRequired
	}
	if len(f.Password) < minPasswordLen {
		return errShortPassword
	}
	return nil
}

// recipeForm keeps the raw entries so a failed submit re-renders them.
type recipeForm struct {
	Name         string
	Description  string
	Ingredients  string
	Instructions string
	ImageURL     string
	CookingTime  string
}

func recipeFormFrom(r *http.Request) recipeForm {
	return recipeForm{
		Name:         strings.TrimSpace(r.PostFormValue("name")),
		Description:  strings.TrimSpace(r.PostFormValue("description")),
		Ingredients:  r.PostFormValue("ingredients"),
		Instructions: r.PostFormValue("instructions"),
		ImageURL:     strings.TrimSpace(r.PostFormValue("imageUrl")),
		CookingTime:  strings.TrimSpace(r.PostFormValue("cookingTime")),
	}
}

func (f recipeForm) request(owner string) (models.CreateRecipeRequest, error) {
	req := models.CreateRecipeRequest{
		Name:         f.Name,
		Description:  f.Description,
		Ingredients:  splitList(f.Ingredients),
		Instructions: splitList(f.Instructions),
		ImageURL:     f.ImageURL,
		UserOwner:    owner,
	}
	if req.Name == "" || req.Description == "" || req.ImageURL == "" ||
		len(req.Ingredients) == 0 || len(req.Instructions) == 0 || f.CookingTime == "" {
		return req, errFieldsRequired
	}
	minutes, err := strconv.Atoi(f.CookingTime)
	if err != nil || minutes <= 0 {
		return req, errCookingTime
	}
	req.CookingTime = minutes
	return req, nil
}

// splitList splits a comma-separated entry, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
