// Package page maps routes to screens built from the stores and the cards
// in package view.
package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"freshguard/internal/store"
	"freshguard/internal/view"

	"github.com/rs/zerolog"
)

// Routes
const (
	HomePath    = "/"
	ItemsPath   = "/items"
	RecipesPath = "/recipes"
)

// Brand is shown at the start of the navigation bar.
const Brand = "Fresh Guard"

// ErrNotFound is returned by Render for an unknown route.
var ErrNotFound = errors.New("page not found")

// Route is a navigation entry.
type Route struct {
	Path  string
	Label string
}

// Nav returns the navigation entries in display order.
func Nav() []Route {
	return []Route{
		{Path: HomePath, Label: "Home"},
		{Path: ItemsPath, Label: "Items"},
		{Path: RecipesPath, Label: "Recipes"},
	}
}

// Pages renders screens from the item and recipe stores.
type Pages struct {
	items   *store.ItemStore
	recipes *store.RecipeStore
	logger  zerolog.Logger
}

// New creates the page set.
func New(items *store.ItemStore, recipes *store.RecipeStore, logger zerolog.Logger) *Pages {
	return &Pages{
		items:   items,
		recipes: recipes,
		logger:  logger.With().Str("component", "pages").Logger(),
	}
}

// Render writes the page for target, a route optionally followed by
// "?q=<search>".
func (p *Pages) Render(ctx context.Context, w io.Writer, target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid route %q: %w", target, err)
	}

	path := "/" + strings.Trim(u.Path, "/")
	query := u.Query().Get("q")

	p.logger.Debug().Str("path", path).Str("query", query).Msg("rendering page")

	switch path {
	case HomePath:
		return p.Home(ctx, w)
	case ItemsPath:
		return p.Items(ctx, w, query)
	case RecipesPath:
		return p.Recipes(ctx, w, query)
	default:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
}

// writeNav writes the navigation bar with the active route in brackets.
func writeNav(w io.Writer, active string) error {
	parts := []string{Brand}
	for _, r := range Nav() {
		label := r.Label
		if r.Path == active {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	_, err := fmt.Fprintf(w, "%s\n\n", strings.Join(parts, " | "))
	return err
}

func writeHeading(w io.Writer, title string) error {
	_, err := fmt.Fprintf(w, "%s\n\n", title)
	return err
}

// section renders a fetch failure before the cards the store still holds.
// The fetch error is returned once the page is written.
func section(w io.Writer, fetchErr error, message string, cards func() error) error {
	if fetchErr != nil {
		if err := view.Error(w, message); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	if err := cards(); err != nil {
		return err
	}
	return fetchErr
}

func blankLine(w io.Writer) error {
	_, err := io.WriteString(w, "\n")
	return err
}
