package form

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"freshguard/internal/model"
)

// RecipeSaver is the part of the recipe store a form submits through.
type RecipeSaver interface {
	Create(ctx context.Context, recipe model.Recipe) (model.Recipe, error)
	Update(ctx context.Context, id int64, recipe model.Recipe) (model.Recipe, error)
	Delete(ctx context.Context, id int64) error
	Busy() bool
}

// RecipeDraft holds the editable recipe fields. CreatedAt is kept in the
// wire layout; blank means "now" on submit.
type RecipeDraft struct {
	Name            string
	Description     string
	Instructions    string
	Servings        int
	PrepTimeMinutes int
	CreatedAt       string
	Ingredients     []model.Item
}

// RecipeForm edits a single recipe.
type RecipeForm struct {
	Draft RecipeDraft

	saver  RecipeSaver
	target *model.Recipe
	guard  guard
}

// NewRecipeForm creates an editor for target, or a create form when target
// is nil.
func NewRecipeForm(saver RecipeSaver, target *model.Recipe) *RecipeForm {
	f := &RecipeForm{saver: saver}
	if target != nil {
		t := *target
		f.target = &t
	}
	f.Reset()
	return f
}

// Creating reports whether submitting creates a new recipe.
func (f *RecipeForm) Creating() bool {
	return f.target == nil
}

// Reset restores the draft to the target's values, or blank defaults.
func (f *RecipeForm) Reset() {
	if f.target == nil {
		f.Draft = RecipeDraft{Ingredients: []model.Item{}}
		return
	}
	f.Draft = RecipeDraft{
		Name:            f.target.Name,
		Description:     f.target.Description,
		Instructions:    f.target.Instructions,
		Servings:        f.target.Servings,
		PrepTimeMinutes: f.target.PrepTimeMinutes,
		CreatedAt:       f.target.CreatedAt.String(),
		Ingredients:     slices.Clone(f.target.Ingredients),
	}
	if f.Draft.Ingredients == nil {
		f.Draft.Ingredients = []model.Item{}
	}
}

// Set updates one draft field from raw input. Numeric fields become 0 when
// value is not a number; ingredients take a comma-separated list of item ids.
func (f *RecipeForm) Set(field, value string) error {
	switch fieldKey(field) {
	case "name":
		f.Draft.Name = value
	case "description":
		f.Draft.Description = value
	case "instructions":
		f.Draft.Instructions = value
	case "servings":
		f.Draft.Servings = atoi(value)
	case "preptimeminutes", "preptime":
		f.Draft.PrepTimeMinutes = atoi(value)
	case "createdat":
		f.Draft.CreatedAt = strings.TrimSpace(value)
	case "ingredients":
		ids, err := ParseIDs(value)
		if err != nil {
			return err
		}
		f.SetIngredients(ids)
	default:
		return unknownField(field)
	}
	return nil
}

// SetIngredients replaces the draft ingredients with references to itemIDs.
func (f *RecipeForm) SetIngredients(itemIDs []int64) {
	items := make([]model.Item, 0, len(itemIDs))
	for _, id := range itemIDs {
		items = append(items, model.Item{ID: id})
	}
	f.Draft.Ingredients = items
}

// Payload converts the draft into the wire representation.
func (f *RecipeForm) Payload() (model.Recipe, error) {
	createdAt := model.NewTimestamp(now().UTC())
	if f.Draft.CreatedAt != "" {
		ts, err := model.ParseTimestamp(f.Draft.CreatedAt)
		if err != nil {
			return model.Recipe{}, fmt.Errorf("created at: %w", err)
		}
		createdAt = ts
	}

	ingredients := slices.Clone(f.Draft.Ingredients)
	if ingredients == nil {
		ingredients = []model.Item{}
	}

	return model.Recipe{
		Name:            f.Draft.Name,
		Description:     f.Draft.Description,
		Instructions:    f.Draft.Instructions,
		Servings:        f.Draft.Servings,
		PrepTimeMinutes: f.Draft.PrepTimeMinutes,
		CreatedAt:       createdAt,
		Ingredients:     ingredients,
	}, nil
}

// Submit creates or updates the recipe through the store and, on success,
// reseeds the form from the saved recipe.
func (f *RecipeForm) Submit(ctx context.Context) (model.Recipe, error) {
	var saved model.Recipe
	err := f.guard.run(f.saver.Busy, func() error {
		payload, err := f.Payload()
		if err != nil {
			return err
		}

		if f.target == nil {
			saved, err = f.saver.Create(ctx, payload)
		} else {
			if !f.target.Persisted() {
				return model.ErrNotPersisted
			}
			saved, err = f.saver.Update(ctx, f.target.ID, payload)
		}
		if err != nil {
			return err
		}

		f.target = &saved
		f.Reset()
		return nil
	})
	return saved, err
}

// Delete removes the edited recipe.
func (f *RecipeForm) Delete(ctx context.Context) error {
	return f.guard.run(f.saver.Busy, func() error {
		if f.target == nil || !f.target.Persisted() {
			return model.ErrNotPersisted
		}
		return f.saver.Delete(ctx, f.target.ID)
	})
}

// Submitting reports whether a submit or delete is outstanding.
func (f *RecipeForm) Submitting() bool {
	return f.guard.submitting()
}

// ParseIDs reads a comma-separated list of entity ids. Blank entries are
// skipped.
func ParseIDs(value string) ([]int64, error) {
	ids := []int64{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
