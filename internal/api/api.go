package api

import (
	"context"

	"freshguard/internal/model"
)

// ItemAPI defines the inventory item endpoints.
type ItemAPI interface {
	// ListItems retrieves all items in server order.
	ListItems(ctx context.Context) ([]model.Item, error)

	// GetItem retrieves a single item by ID.
	GetItem(ctx context.Context, id int64) (*model.Item, error)

	// CreateItem stores a new item and returns it with its assigned ID.
	CreateItem(ctx context.Context, item model.Item) (*model.Item, error)

	// UpdateItem replaces every field of an existing item.
	UpdateItem(ctx context.Context, id int64, item model.Item) (*model.Item, error)

	// PatchItem updates only the fields set in the patch.
	PatchItem(ctx context.Context, id int64, patch model.ItemPatch) (*model.Item, error)

	// DeleteItem removes an item and detaches it from every recipe.
	DeleteItem(ctx context.Context, id int64) error

	// ItemRecipes retrieves the recipes that use an item.
	ItemRecipes(ctx context.Context, id int64) ([]model.Recipe, error)
}

// RecipeAPI defines the recipe and ingredient endpoints.
type RecipeAPI interface {
	ListRecipes(ctx context.Context) ([]model.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (*model.Recipe, error)
	CreateRecipe(ctx context.Context, recipe model.Recipe) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id int64, recipe model.Recipe) (*model.Recipe, error)
	PatchRecipe(ctx context.Context, id int64, patch model.RecipePatch) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id int64) error

	// AddIngredient links an item to a recipe.
	AddIngredient(ctx context.Context, recipeID, itemID int64) (*model.Recipe, error)

	// RemoveIngredient unlinks an item from a recipe.
	RemoveIngredient(ctx context.Context, recipeID, itemID int64) (*model.Recipe, error)

	// SetIngredients replaces the recipe's ingredients with the given items.
	SetIngredients(ctx context.Context, recipeID int64, itemIDs []int64) (*model.Recipe, error)

	// FindByIngredients retrieves recipes that use any of the given items.
	FindByIngredients(ctx context.Context, itemIDs []int64) ([]model.Recipe, error)
}
