package db

import (
	"context"
	"sync"

	"recipebox/apperr"
	"recipebox/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store with the same contract as MongoStore.
// It backs the tests and STORE=memory runs.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[primitive.ObjectID]*models.User
	emails  map[string]primitive.ObjectID
	recipes map[primitive.ObjectID]*models.Recipe
	order   []primitive.ObjectID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[primitive.ObjectID]*models.User),
		emails:  make(map[string]primitive.ObjectID),
		recipes: make(map[primitive.ObjectID]*models.Recipe),
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[u.Email]; taken {
		return apperr.New(apperr.ErrConflict, "email already in use")
	}
	if u.SavedRecipes == nil {
		u.SavedRecipes = []primitive.ObjectID{}
	}
	u.ID = primitive.NewObjectID()

	s.users[u.ID] = cloneUser(u)
	s.emails[u.Email] = u.ID
	return nil
}

func (s *MemoryStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, "user not found")
	}
	return cloneUser(s.users[id]), nil
}

func (s *MemoryStore) UserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, "user not found")
	}
	return cloneUser(u), nil
}

func (s *MemoryStore) SaveRecipe(_ context.Context, userID, recipeID primitive.ObjectID) ([]primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, "user not found")
	}
	if u.HasSaved(recipeID) {
		return nil, apperr.New(apperr.ErrConflict, "recipe already saved")
	}
	u.SavedRecipes = append(u.SavedRecipes, recipeID)
	return append([]primitive.ObjectID(nil), u.SavedRecipes...), nil
}

func (s *MemoryStore) PullSavedRecipe(_ context.Context, recipeID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		kept := u.SavedRecipes[:0]
		for _, id := range u.SavedRecipes {
			if id != recipeID {
				kept = append(kept, id)
			}
		}
		u.SavedRecipes = kept
	}
	return nil
}

func (s *MemoryStore) ListRecipes(context.Context) ([]models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Recipe, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *cloneRecipe(s.recipes[id]))
	}
	return out, nil
}

func (s *MemoryStore) CreateRecipe(_ context.Context, r *models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = primitive.NewObjectID()
	s.recipes[r.ID] = cloneRecipe(r)
	s.order = append(s.order, r.ID)
	return nil
}

func (s *MemoryStore) RecipeByID(_ context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, "recipe not found")
	}
	return cloneRecipe(r), nil
}

func (s *MemoryStore) RecipesByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := []models.Recipe{}
	for _, id := range s.order {
		if want[id] {
			out = append(out, *cloneRecipe(s.recipes[id]))
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteRecipe(_ context.Context, id primitive.ObjectID) (*models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, apperr.New(apperr.ErrNotFound, "recipe not found")
	}
	delete(s.recipes, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return r, nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.SavedRecipes = append([]primitive.ObjectID{}, u.SavedRecipes...)
	return &c
}

func cloneRecipe(r *models.Recipe) *models.Recipe {
	c := *r
	c.Ingredients = append([]string(nil), r.Ingredients...)
	c.Instructions = append([]string(nil), r.Instructions...)
	return &c
}
