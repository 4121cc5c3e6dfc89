package page

import (
	"context"
	"errors"
	"fmt"
	"io"

	"freshguard/internal/view"
)

// Home shows the newest item and the newest recipe.
func (p *Pages) Home(ctx context.Context, w io.Writer) error {
	if err := writeNav(w, HomePath); err != nil {
		return err
	}
	if err := writeHeading(w, Brand+"!"); err != nil {
		return err
	}

	_, itemsErr := p.items.Fetch(ctx)
	itemsMsg := p.items.Err()
	_, recipesErr := p.recipes.Fetch(ctx)
	recipesMsg := p.recipes.Err()

	itemsSection := section(w, itemsErr, itemsMsg, func() error {
		items := p.items.List()
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "No items yet")
			return err
		}
		return view.ItemCard(w, items[0])
	})
	if itemsSection != nil && !errors.Is(itemsSection, itemsErr) {
		return itemsSection
	}
	if err := blankLine(w); err != nil {
		return err
	}

	recipesSection := section(w, recipesErr, recipesMsg, func() error {
		recipes := p.recipes.List()
		if len(recipes) == 0 {
			_, err := fmt.Fprintln(w, "No recipes yet")
			return err
		}
		return view.RecipeCard(w, recipes[0], false)
	})
	if recipesSection != nil && !errors.Is(recipesSection, recipesErr) {
		return recipesSection
	}

	return errors.Join(itemsErr, recipesErr)
}

// Items lists the inventory matching query, newest first.
func (p *Pages) Items(ctx context.Context, w io.Writer, query string) error {
	if err := writeNav(w, ItemsPath); err != nil {
		return err
	}
	if err := writeHeading(w, "My inventory"); err != nil {
		return err
	}

	_, fetchErr := p.items.Fetch(ctx)
	return section(w, fetchErr, p.items.Err(), func() error {
		items := p.items.Filter(query)
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "No items found")
			return err
		}
		for i, item := range items {
			if i > 0 {
				if err := blankLine(w); err != nil {
					return err
				}
			}
			if err := view.ItemCard(w, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// Recipes lists the recipes matching query, newest first.
func (p *Pages) Recipes(ctx context.Context, w io.Writer, query string) error {
	if err := writeNav(w, RecipesPath); err != nil {
		return err
	}
	if err := writeHeading(w, "My recipes"); err != nil {
		return err
	}

	_, fetchErr := p.recipes.Fetch(ctx)
	return section(w, fetchErr, p.recipes.Err(), func() error {
		recipes := p.recipes.Filter(query)
		if len(recipes) == 0 {
			_, err := fmt.Fprintln(w, "No recipes found")
			return err
		}
		for i, recipe := range recipes {
			if i > 0 {
				if err := blankLine(w); err != nil {
					return err
				}
			}
			if err := view.RecipeCard(w, recipe, false); err != nil {
				return err
			}
		}
		return nil
	})
}

// ItemRecipes shows the pop-up listing the recipes that use item id.
func (p *Pages) ItemRecipes(ctx context.Context, w io.Writer, id int64) error {
	state := view.PopUp{}

	sel, ok := p.items.Selected()
	if !ok || sel.ID != id {
		if _, err := p.items.Get(ctx, id); err != nil {
			state.Err = p.items.Err()
			if werr := view.RecipePopUp(w, state); werr != nil {
				return werr
			}
			return err
		}
	}

	_, loadErr := p.items.LoadRecipes(ctx, id)
	state.Err = p.items.Err()
	if sel, ok := p.items.Selected(); ok {
		state.Item = sel
	}

	if err := view.RecipePopUp(w, state); err != nil {
		return err
	}
	return loadErr
}
