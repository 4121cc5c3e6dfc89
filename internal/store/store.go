// Package store holds the client-side view of the inventory: the last known
// lists of items and recipes, the selected entity, and the busy and error
// state of the operations that keep them in sync with the server.
package store

import (
	"slices"
	"strings"
	"sync"

	"freshguard/internal/api"
	"freshguard/internal/model"

	"github.com/rs/zerolog"
)

// Fallback messages shown when the server does not supply one.
const (
	MsgFetchItems       = "Error fetching items"
	MsgCreateItem       = "Error creating item"
	MsgGetItem          = "Error getting selected item"
	MsgUpdateItem       = "Error updating item"
	MsgDeleteItem       = "Error deleting item"
	MsgItemRecipes      = "Error fetching item's recipes"
	MsgFetchRecipes     = "Error fetching recipes"
	MsgCreateRecipe     = "Error creating recipe"
	MsgGetRecipe        = "Error getting selected recipe"
	MsgUpdateRecipe     = "Error updating recipe"
	MsgDeleteRecipe     = "Error deleting recipe"
	MsgAddIngredient    = "Error adding ingredient to recipe"
	MsgRemoveIngredient = "Error removing ingredient from recipe"
	MsgSetIngredients   = "Error setting recipe ingredients"
	MsgFindByIngredient = "Error finding recipes by ingredients"
)

// status tracks in-flight operations and the last failure. mu also guards
// the list state of the embedding store.
type status struct {
	mu       sync.RWMutex
	inflight int
	lastErr  string
	logger   zerolog.Logger
}

// begin marks an operation as started and clears the previous error.
func (s *status) begin() {
	s.mu.Lock()
	s.inflight++
	s.lastErr = ""
	s.mu.Unlock()
}

// end marks an operation as finished. On failure it records a display
// message and logs it; err is returned unchanged.
func (s *status) end(op string, err error, fallback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	if err == nil {
		return nil
	}

	s.lastErr = DisplayMessage(err, fallback)
	s.logger.Error().Err(err).Str("op", op).Str("message", s.lastErr).Msg("store operation failed")
	return err
}

// Busy reports whether any operation is in flight.
func (s *status) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Err returns the message of the last failed operation, or "" when the
// latest operation started after it succeeded.
func (s *status) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// DisplayMessage returns the server's message for err, or fallback.
func DisplayMessage(err error, fallback string) string {
	if msg := api.Message(err); msg != "" {
		return msg
	}
	return fallback
}

// matches reports whether any field contains query, ignoring case.
func matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// cloneItem copies item together with its attached recipes so callers can
// not reach the store's slices.
func cloneItem(item model.Item) model.Item {
	if item.Recipes != nil {
		recipes := make([]model.Recipe, len(item.Recipes))
		for i, recipe := range item.Recipes {
			recipes[i] = cloneRecipe(recipe)
		}
		item.Recipes = recipes
	}
	return item
}

func cloneRecipe(recipe model.Recipe) model.Recipe {
	recipe.Ingredients = slices.Clone(recipe.Ingredients)
	return recipe
}

func cloneItems(items []model.Item) []model.Item {
	if items == nil {
		return nil
	}
	out := make([]model.Item, len(items))
	for i, item := range items {
		out[i] = cloneItem(item)
	}
	return out
}

func cloneRecipes(recipes []model.Recipe) []model.Recipe {
	if recipes == nil {
		return nil
	}
	out := make([]model.Recipe, len(recipes))
	for i, recipe := range recipes {
		out[i] = cloneRecipe(recipe)
	}
	return out
}
