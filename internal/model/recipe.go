package model

// Recipe represents a set of instructions that consumes inventory items.
type Recipe struct {
	ID              int64     `json:"id,omitempty"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Instructions    string    `json:"instructions"`
	Servings        int       `json:"servings"`
	PrepTimeMinutes int       `json:"prepTimeMinutes"`
	CreatedAt       Timestamp `json:"createdAt"`
	Ingredients     []Item    `json:"ingredients"`
}

// Persisted reports whether the recipe has a server-assigned id.
func (r Recipe) Persisted() bool {
	return r.ID > 0
}

// IngredientIDs returns the ids of the recipe's ingredients in order.
func (r Recipe) IngredientIDs() []int64 {
	ids := make([]int64, 0, len(r.Ingredients))
	for _, item := range r.Ingredients {
		ids = append(ids, item.ID)
	}
	return ids
}

// HasIngredient reports whether the item is one of the recipe's ingredients.
func (r Recipe) HasIngredient(itemID int64) bool {
	for _, item := range r.Ingredients {
		if item.ID == itemID {
			return true
		}
	}
	return false
}

// RecipePatch is the payload of a partial recipe update.
type RecipePatch struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	Instructions    *string `json:"instructions,omitempty"`
	Servings        *int    `json:"servings,omitempty"`
	PrepTimeMinutes *int    `json:"prepTimeMinutes,omitempty"`
	Ingredients     []Item  `json:"ingredients,omitempty"`
}

// Apply returns a copy of recipe with the patch fields set.
func (p RecipePatch) Apply(recipe Recipe) Recipe {
	if p.Name != nil {
		recipe.Name = *p.Name
	}
	if p.Description != nil {
		recipe.Description = *p.Description
	}
	if p.Instructions != nil {
		recipe.Instructions = *p.Instructions
	}
	if p.Servings != nil {
		recipe.Servings = *p.Servings
	}
	if p.PrepTimeMinutes != nil {
		recipe.PrepTimeMinutes = *p.PrepTimeMinutes
	}
	if p.Ingredients != nil {
		recipe.Ingredients = p.Ingredients
	}
	return recipe
}
