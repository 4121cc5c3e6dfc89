package api

import (
	"context"
	"net/http"

	"freshguard/internal/model"
)

// ListItems handles GET /items.
func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, "/items", nil, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// GetItem handles GET /items/{id}.
func (c *Client) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	if err := requirePersisted(id); err != nil {
		return nil, err
	}
	var item model.Item
	if err := c.do(ctx, http.MethodGet, idPath("/items", id), nil, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem handles POST /items. Any ID on the input is dropped.
func (c *Client) CreateItem(ctx context.Context, item model.Item) (*model.Item, error) {
	item.ID = 0
	item.Recipes = nil

	var created model.Item
	if err := c.do(ctx, http.MethodPost, "/items", nil, item, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateItem handles PUT /items/{id}.
func (c *Client) UpdateItem(ctx context.Context, id int64, item model.Item) (*model.Item, error) {
	if err := requirePersisted(id); err != nil {
		return nil, err
	}
	item.ID = 0
	item.Recipes = nil

	var updated model.Item
	if err := c.do(ctx, http.MethodPut, idPath("/items", id), nil, item, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// PatchItem handles PATCH /items/{id}.
func (c *Client) PatchItem(ctx context.Context, id int64, patch model.ItemPatch) (*model.Item, error) {
	if err := requirePersisted(id); err != nil {
		return nil, err
	}
	var updated model.Item
	if err := c.do(ctx, http.MethodPatch, idPath("/items", id), nil, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteItem handles DELETE /items/{id}.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	if err := requirePersisted(id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, idPath("/items", id), nil, nil, nil)
}

// ItemRecipes handles GET /items/{id}/recipes.
func (c *Client) ItemRecipes(ctx context.Context, id int64) ([]model.Recipe, error) {
	if err := requirePersisted(id); err != nil {
		return nil, err
	}
	var recipes []model.Recipe
	if err := c.do(ctx, http.MethodGet, idPath("/items", id, "recipes"), nil, nil, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	return recipes, nil
}
