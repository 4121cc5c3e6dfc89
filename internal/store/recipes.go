package store

import (
	"context"
	"slices"

	"freshguard/internal/api"
	"freshguard/internal/model"

	"github.com/rs/zerolog"
)

// RecipeStore mirrors the server's recipes, newest first.
type RecipeStore struct {
	status

	api      api.RecipeAPI
	recipes  []model.Recipe
	selected *model.Recipe
}

// NewRecipeStore creates an empty recipe store.
func NewRecipeStore(recipeAPI api.RecipeAPI, logger zerolog.Logger) *RecipeStore {
	return &RecipeStore{
		api: recipeAPI,
		status: status{
			logger: logger.With().Str("store", "recipe").Logger(),
		},
	}
}

// List returns a deep copy of the known recipes.
func (s *RecipeStore) List() []model.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecipes(s.recipes)
}

// Selected returns the selected recipe, if any.
func (s *RecipeStore) Selected() (model.Recipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return model.Recipe{}, false
	}
	return cloneRecipe(*s.selected), true
}

// Select makes recipe the selected one; nil clears the selection.
func (s *RecipeStore) Select(recipe *model.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if recipe == nil {
		s.selected = nil
		return
	}
	sel := cloneRecipe(*recipe)
	s.selected = &sel
}

// Filter returns the recipes whose name, description or ingredient names
// contain query.
func (s *RecipeStore) Filter(query string) []model.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Recipe{}
	for _, recipe := range s.recipes {
		fields := []string{recipe.Name, recipe.Description}
		for _, item := range recipe.Ingredients {
			fields = append(fields, item.Name)
		}
		if matches(query, fields...) {
			out = append(out, recipe)
		}
	}
	return out
}

// Fetch replaces the list with the server's recipes, newest first.
func (s *RecipeStore) Fetch(ctx context.Context) ([]model.Recipe, error) {
	s.begin()

	recipes, err := s.api.ListRecipes(ctx)
	if err != nil {
		return nil, s.end("fetch", err, MsgFetchRecipes)
	}
	slices.Reverse(recipes)

	s.mu.Lock()
	s.recipes = recipes
	s.mu.Unlock()

	s.logger.Debug().Int("count", len(recipes)).Msg("fetched recipes")
	return cloneRecipes(recipes), s.end("fetch", nil, "")
}

// Create stores a new recipe and prepends the server's copy to the list.
func (s *RecipeStore) Create(ctx context.Context, recipe model.Recipe) (model.Recipe, error) {
	s.begin()

	created, err := s.api.CreateRecipe(ctx, recipe)
	if err != nil {
		return model.Recipe{}, s.end("create", err, MsgCreateRecipe)
	}

	s.mu.Lock()
	s.recipes = append([]model.Recipe{*created}, s.recipes...)
	s.mu.Unlock()

	s.logger.Debug().Int64("recipe_id", created.ID).Msg("created recipe")
	return cloneRecipe(*created), s.end("create", nil, "")
}

// Get loads a recipe and selects it.
func (s *RecipeStore) Get(ctx context.Context, id int64) (model.Recipe, error) {
	s.begin()

	recipe, err := s.api.GetRecipe(ctx, id)
	if err != nil {
		return model.Recipe{}, s.end("get", err, MsgGetRecipe)
	}

	s.mu.Lock()
	sel := *recipe
	s.selected = &sel
	s.mu.Unlock()

	return cloneRecipe(*recipe), s.end("get", nil, "")
}

// Update replaces every field of a recipe.
func (s *RecipeStore) Update(ctx context.Context, id int64, recipe model.Recipe) (model.Recipe, error) {
	return s.mutate(ctx, "update", id, MsgUpdateRecipe, func(ctx context.Context) (*model.Recipe, error) {
		return s.api.UpdateRecipe(ctx, id, recipe)
	})
}

// Patch updates only the fields set in patch.
func (s *RecipeStore) Patch(ctx context.Context, id int64, patch model.RecipePatch) (model.Recipe, error) {
	return s.mutate(ctx, "patch", id, MsgUpdateRecipe, func(ctx context.Context) (*model.Recipe, error) {
		return s.api.PatchRecipe(ctx, id, patch)
	})
}

// AddIngredient links an item to a recipe.
func (s *RecipeStore) AddIngredient(ctx context.Context, recipeID, itemID int64) (model.Recipe, error) {
	return s.mutate(ctx, "add-ingredient", recipeID, MsgAddIngredient, func(ctx context.Context) (*model.Recipe, error) {
		return s.api.AddIngredient(ctx, recipeID, itemID)
	})
}

// RemoveIngredient unlinks an item from a recipe.
func (s *RecipeStore) RemoveIngredient(ctx context.Context, recipeID, itemID int64) (model.Recipe, error) {
	return s.mutate(ctx, "remove-ingredient", recipeID, MsgRemoveIngredient, func(ctx context.Context) (*model.Recipe, error) {
		return s.api.RemoveIngredient(ctx, recipeID, itemID)
	})
}

// SetIngredients replaces a recipe's ingredients.
func (s *RecipeStore) SetIngredients(ctx context.Context, recipeID int64, itemIDs []int64) (model.Recipe, error) {
	return s.mutate(ctx, "set-ingredients", recipeID, MsgSetIngredients, func(ctx context.Context) (*model.Recipe, error) {
		return s.api.SetIngredients(ctx, recipeID, itemIDs)
	})
}

// Delete removes a recipe on the server and from the list.
func (s *RecipeStore) Delete(ctx context.Context, id int64) error {
	s.begin()

	if err := s.api.DeleteRecipe(ctx, id); err != nil {
		return s.end("delete", err, MsgDeleteRecipe)
	}

	s.mu.Lock()
	s.recipes = slices.DeleteFunc(s.recipes, func(recipe model.Recipe) bool { return recipe.ID == id })
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()

	s.logger.Debug().Int64("recipe_id", id).Msg("deleted recipe")
	return s.end("delete", nil, "")
}

// FindByIngredients returns the recipes using any of the items. The list
// is left as it is.
func (s *RecipeStore) FindByIngredients(ctx context.Context, itemIDs []int64) ([]model.Recipe, error) {
	s.begin()

	recipes, err := s.api.FindByIngredients(ctx, itemIDs)
	if err != nil {
		return nil, s.end("find", err, MsgFindByIngredient)
	}
	return recipes, s.end("find", nil, "")
}

// mutate runs a call that returns the new state of recipe id and merges it.
func (s *RecipeStore) mutate(ctx context.Context, op string, id int64, fallback string, call func(context.Context) (*model.Recipe, error)) (model.Recipe, error) {
	s.begin()

	updated, err := call(ctx)
	if err != nil {
		return model.Recipe{}, s.end(op, err, fallback)
	}

	s.mu.Lock()
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			s.recipes[i] = *updated
		}
	}
	if s.selected != nil && s.selected.ID == id {
		sel := *updated
		s.selected = &sel
	}
	s.mu.Unlock()

	s.logger.Debug().Int64("recipe_id", id).Str("op", op).Msg("updated recipe")
	return cloneRecipe(*updated), s.end(op, nil, "")
}
