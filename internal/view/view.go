// Package view renders items and recipes as plain-text cards.
package view

import (
	"fmt"
	"io"
	"strings"

	"freshguard/internal/model"
)

// InstructionsPreview is the number of instruction characters a full
// recipe card shows.
const InstructionsPreview = 99

const missing = "-"

// printer writes lines to w and keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(indent int, format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, strings.Repeat("  ", indent)+format+"\n", args...)
}

// ItemCard writes the card of a single item.
func ItemCard(w io.Writer, item model.Item) error {
	p := &printer{w: w}
	p.line(0, "%s%s", item.Name, idSuffix(item.ID))
	if item.Category != "" {
		p.line(1, "%s", item.Category)
	}
	p.line(1, "Expired by: %s", dateOrMissing(item.ExpirationDate))
	p.line(1, "Purchased on: %s", dateOrMissing(item.PurchaseDate))
	p.line(1, "Quantity: %d", item.Quantity)
	p.line(1, "Location: %s", orMissing(item.Location))
	return p.err
}

// RecipeCard writes the card of a recipe. The item view, used when listing
// the recipes of an item, shows only the header lines: name, description,
// servings and prep time.
func RecipeCard(w io.Writer, recipe model.Recipe, itemView bool) error {
	p := &printer{w: w}
	p.line(0, "%s%s", recipe.Name, idSuffix(recipe.ID))
	if recipe.Description != "" {
		p.line(1, "%s", recipe.Description)
	}
	p.line(1, "Servings: %d", recipe.Servings)
	p.line(1, "Prep time: %d minutes", recipe.PrepTimeMinutes)
	if itemView {
		return p.err
	}

	p.line(1, "%s", Preview(recipe.Instructions))
	if len(recipe.Ingredients) > 0 {
		names := make([]string, 0, len(recipe.Ingredients))
		for _, item := range recipe.Ingredients {
			names = append(names, item.Name)
		}
		p.line(1, "Ingredients: %s", strings.Join(names, ", "))
	}
	return p.err
}

// Preview cuts instructions to InstructionsPreview characters and appends
// an ellipsis.
func Preview(instructions string) string {
	runes := []rune(instructions)
	if len(runes) > InstructionsPreview {
		runes = runes[:InstructionsPreview]
	}
	return string(runes) + "..."
}

// PopUp is the state shown by RecipePopUp.
type PopUp struct {
	Item    model.Item
	Loading bool
	Err     string
}

// RecipePopUp writes the recipes that use an item.
func RecipePopUp(w io.Writer, state PopUp) error {
	p := &printer{w: w}
	p.line(0, "Recipes with %s", state.Item.Name)

	switch {
	case state.Loading:
		p.line(1, "Loading recipes...")
	case state.Err != "":
		p.line(1, "Error: %s", state.Err)
	case len(state.Item.Recipes) == 0:
		p.line(1, "No recipes found for %s", state.Item.Name)
	default:
		for _, recipe := range state.Item.Recipes {
			if p.err != nil {
				break
			}
			p.err = RecipeCard(w, recipe, true)
		}
	}
	return p.err
}

// Error writes an error banner.
func Error(w io.Writer, message string) error {
	p := &printer{w: w}
	p.line(0, "Error: %s", message)
	return p.err
}

func idSuffix(id int64) string {
	if id <= 0 {
		return ""
	}
	return fmt.Sprintf(" (#%d)", id)
}

func dateOrMissing(d model.Date) string {
	if s := d.String(); s != "" {
		return s
	}
	return missing
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return s
}
