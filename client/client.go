// Package client is the typed data-access layer over the REST API. Each
// method maps to one API operation; there is no retry and no caching.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipebox/globals"
	"recipebox/models"
)

// ErrTransport wraps failures to reach the API at all.
var ErrTransport = errors.New("transport error")

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status behind err, or 0 if err is not an APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns a message fit for showing to a user.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrTransport) {
		return "The recipe service is unreachable. Please try again."
	}
	return "Something went wrong. Please try again."
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type RegisterResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

type SaveResult struct {
	Message      string   `json:"message"`
	SavedRecipes []string `json:"savedRecipes"`
}

type DeleteResult struct {
	Message string        `json:"message"`
	Recipe  models.Recipe `json:"recipe"`
}

type savedList struct {
	SavedRecipes []models.Recipe `json:"savedRecipes"`
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*RegisterResult, error) {
	var out RegisterResult
	if _, err := c.do(ctx, http.MethodPost, "/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login returns the API's answer and, on success, the issued token. A
// rejected login is not an error: check LoginResponse.Success.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, string, error) {
	var out models.LoginResponse
	resp, err := c.do(ctx, http.MethodPost, "/login", "", req, &out)
	if err != nil {
		return nil, "", err
	}
	var token string
	for _, ck := range resp.Cookies() {
		if ck.Name == globals.TokenCookie {
			token = ck.Value
		}
	}
	return &out, token, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, http.MethodPost, "/logout", token, nil, nil)
	return err
}

func (c *Client) ListRecipes(ctx context.Context, token string) ([]models.Recipe, error) {
	var out []models.Recipe
	if _, err := c.do(ctx, http.MethodGet, "/Home", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateRecipe(ctx context.Context, token string, req models.CreateRecipeRequest) (*models.Recipe, error) {
	var out models.Recipe
	if _, err := c.do(ctx, http.MethodPost, "/Home", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveRecipe(ctx context.Context, token, userID, recipeID string) (*SaveResult, error) {
	var out SaveResult
	body := models.SaveRecipeRequest{RecipeID: recipeID, UserID: userID}
	if _, err := c.do(ctx, http.MethodPut, "/Home", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SavedRecipes lists the user's saved recipes, populated in saved order.
func (c *Client) SavedRecipes(ctx context.Context, token, userID string) ([]models.Recipe, error) {
	var out savedList
	if _, err := c.do(ctx, http.MethodGet, "/Home/savedRecipes/ids/"+url.PathEscape(userID), token, nil, &out); err != nil {
		return nil, err
	}
	return out.SavedRecipes, nil
}

// SavedRecipesByIDSet uses the alternate listing that resolves by ID set.
func (c *Client) SavedRecipesByIDSet(ctx context.Context, token, userID string) ([]models.Recipe, error) {
	var out savedList
	if _, err := c.do(ctx, http.MethodGet, "/savedRecipes/"+url.PathEscape(userID), token, nil, &out); err != nil {
		return nil, err
	}
	return out.SavedRecipes, nil
}

func (c *Client) GetRecipe(ctx context.Context, token, id string) (*models.Recipe, error) {
	var out models.Recipe
	if _, err := c.do(ctx, http.MethodGet, "/Home/recipe/"+url.PathEscape(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRecipe(ctx context.Context, token, id string) (*DeleteResult, error) {
	var out DeleteResult
	if _, err := c.do(ctx, http.MethodDelete, "/Home/recipe/"+url.PathEscape(id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: globals.TokenCookie, Value: token})
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(data, resp.Status)}
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("decoding %s %s: %w", method, path, err)
		}
	}
	return resp, nil
}

func errorMessage(data []byte, fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if s := strings.TrimSpace(string(data)); s != "" && len(s) < 200 {
		return s
	}
	return fallback
}
