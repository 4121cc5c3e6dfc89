package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"freshguard/internal/model"
)

// ListRecipes handles GET /recipes.
func (c *Client) ListRecipes(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := c.do(ctx, http.MethodGet, "/recipes", nil, nil, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	return recipes, nil
}

// GetRecipe handles GET /recipes/{id}.
func (c *Client) GetRecipe(ctx context.Context, id int64) (*model.Recipe, error) {
	if err := requirePersisted(id); err != nil {
		return nil, err
	}
	var recipe model.Recipe
	if err := c.do(ctx, http.MethodGet, idPath("/recipes", id), nil, nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe handles POST /recipes.
func (c *Client) CreateRecipe(ctx context.Context, recipe model.Recipe) (*model.Recipe, error) {
	recipe.ID = 0

	var created model.Recipe
	if err := c.do(ctx, http.MethodPost, "/recipes", nil, recipe, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateRecipe handles PUT /recipes/{id}.
func (c *Client) UpdateRecipe(ctx context.Context, id int64, recipe model.Recipe) (*model.Recipe, error) {
	if err := requirePersisted(id); err != nil {
		return nil, err
	}
	recipe.ID = 0

	var updated model.Recipe
	if err := c.do(ctx, http.MethodPut, idPath("/recipes", id), nil, recipe, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// PatchRecipe handles PATCH /recipes/{id}.
func (c *Client) PatchRecipe(ctx context.Context, id int64, patch model.RecipePatch) (*model.Recipe, error) {
	if err := requirePersisted(id); err != nil {
		return nil, err
	}
	var updated model.Recipe
	if err := c.do(ctx, http.MethodPatch, idPath("/recipes", id), nil, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteRecipe handles DELETE /recipes/{id}.
func (c *Client) DeleteRecipe(ctx context.Context, id int64) error {
	if err := requirePersisted(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, idPath("/recipes", id), nil, nil, nil)
}

// AddIngredient handles POST /recipes/{id}/ingredients/{itemId}.
func (c *Client) AddIngredient(ctx context.Context, recipeID, itemID int64) (*model.Recipe, error) {
	if err := requirePersisted(recipeID, itemID); err != nil {
		return nil, err
	}
	path := idPath("/recipes", recipeID, "ingredients", strconv.FormatInt(itemID, 10))

	var recipe model.Recipe
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// RemoveIngredient handles DELETE /recipes/{id}/ingredients/{itemId}.
func (c *Client) RemoveIngredient(ctx context.Context, recipeID, itemID int64) (*model.Recipe, error) {
	if err := requirePersisted(recipeID, itemID); err != nil {
		return nil, err
	}
	path := idPath("/recipes", recipeID, "ingredients", strconv.FormatInt(itemID, 10))

	var recipe model.Recipe
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// SetIngredients handles PUT /recipes/{id}/ingredients.
func (c *Client) SetIngredients(ctx context.Context, recipeID int64, itemIDs []int64) (*model.Recipe, error) {
	if err := requirePersisted(recipeID); err != nil {
		return nil, err
	}
	if err := requirePersisted(itemIDs...); err != nil {
		return nil, err
	}
	if itemIDs == nil {
		itemIDs = []int64{}
	}

	var recipe model.Recipe
	if err := c.do(ctx, http.MethodPut, idPath("/recipes", recipeID, "ingredients"), nil, itemIDs, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FindByIngredients handles GET /recipes/find-by-ingredients?itemIds=...
func (c *Client) FindByIngredients(ctx context.Context, itemIDs []int64) ([]model.Recipe, error) {
	if err := requirePersisted(itemIDs...); err != nil {
		return nil, err
	}
	query := url.Values{}
	for _, id := range itemIDs {
		query.Add("itemIds", strconv.FormatInt(id, 10))
	}

	var recipes []model.Recipe
	if err := c.do(ctx, http.MethodGet, "/recipes/find-by-ingredients", query, nil, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	return recipes, nil
}
