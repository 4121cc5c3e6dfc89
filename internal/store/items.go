package store

import (
	"context"
	"slices"

	"freshguard/internal/api"
	"freshguard/internal/model"

	"github.com/rs/zerolog"
)

// ItemStore mirrors the server's items, newest first.
type ItemStore struct {
	status

	api      api.ItemAPI
	items    []model.Item
	selected *model.Item
}

// NewItemStore creates an empty item store.
func NewItemStore(itemAPI api.ItemAPI, logger zerolog.Logger) *ItemStore {
	return &ItemStore{
		api: itemAPI,
		status: status{
			logger: logger.With().Str("store", "item").Logger(),
		},
	}
}

// List returns a deep copy of the known items.
func (s *ItemStore) List() []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// Selected returns the selected item, if any.
func (s *ItemStore) Selected() (model.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return model.Item{}, false
	}
	return cloneItem(*s.selected), true
}

// Select makes item the selected one; nil clears the selection.
func (s *ItemStore) Select(item *model.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item == nil {
		s.selected = nil
		return
	}
	sel := cloneItem(*item)
	s.selected = &sel
}

// Filter returns the items whose name, category or location contains query.
func (s *ItemStore) Filter(query string) []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Item{}
	for _, item := range s.items {
		if matches(query, item.Name, item.Category, item.Location) {
			out = append(out, item)
		}
	}
	return out
}

// Fetch replaces the list with the server's items, newest first.
func (s *ItemStore) Fetch(ctx context.Context) ([]model.Item, error) {
	s.begin()

	items, err := s.api.ListItems(ctx)
	if err != nil {
		return nil, s.end("fetch", err, MsgFetchItems)
	}
	slices.Reverse(items)

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.Debug().Int("count", len(items)).Msg("fetched items")
	return cloneItems(items), s.end("fetch", nil, "")
}

// Create stores a new item and prepends the server's copy to the list.
func (s *ItemStore) Create(ctx context.Context, item model.Item) (model.Item, error) {
	s.begin()

	created, err := s.api.CreateItem(ctx, item)
	if err != nil {
		return model.Item{}, s.end("create", err, MsgCreateItem)
	}

	s.mu.Lock()
	s.items = append([]model.Item{*created}, s.items...)
	s.mu.Unlock()

	s.logger.Debug().Int64("item_id", created.ID).Msg("created item")
	return cloneItem(*created), s.end("create", nil, "")
}

// Get loads an item and selects it.
func (s *ItemStore) Get(ctx context.Context, id int64) (model.Item, error) {
	s.begin()

	item, err := s.api.GetItem(ctx, id)
	if err != nil {
		return model.Item{}, s.end("get", err, MsgGetItem)
	}

	s.mu.Lock()
	sel := *item
	s.selected = &sel
	s.mu.Unlock()

	return cloneItem(*item), s.end("get", nil, "")
}

// Update replaces every field of an item.
func (s *ItemStore) Update(ctx context.Context, id int64, item model.Item) (model.Item, error) {
	s.begin()

	updated, err := s.api.UpdateItem(ctx, id, item)
	if err != nil {
		return model.Item{}, s.end("update", err, MsgUpdateItem)
	}

	s.replace(id, *updated)
	return cloneItem(*updated), s.end("update", nil, "")
}

// Patch updates only the fields set in patch.
func (s *ItemStore) Patch(ctx context.Context, id int64, patch model.ItemPatch) (model.Item, error) {
	s.begin()

	updated, err := s.api.PatchItem(ctx, id, patch)
	if err != nil {
		return model.Item{}, s.end("patch", err, MsgUpdateItem)
	}

	s.replace(id, *updated)
	return cloneItem(*updated), s.end("patch", nil, "")
}

// Delete removes an item on the server and from the list.
func (s *ItemStore) Delete(ctx context.Context, id int64) error {
	s.begin()

	if err := s.api.DeleteItem(ctx, id); err != nil {
		return s.end("delete", err, MsgDeleteItem)
	}

	s.mu.Lock()
	s.items = slices.DeleteFunc(s.items, func(item model.Item) bool { return item.ID == id })
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()

	s.logger.Debug().Int64("item_id", id).Msg("deleted item")
	return s.end("delete", nil, "")
}

// LoadRecipes fetches the recipes using an item and attaches them to the
// list entry and the selection. When the selection is another item, the
// list entry becomes the selection.
func (s *ItemStore) LoadRecipes(ctx context.Context, id int64) ([]model.Recipe, error) {
	s.begin()

	recipes, err := s.api.ItemRecipes(ctx, id)
	if err != nil {
		return nil, s.end("recipes", err, MsgItemRecipes)
	}

	s.mu.Lock()
	var fromList *model.Item
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Recipes = cloneRecipes(recipes)
			entry := cloneItem(s.items[i])
			fromList = &entry
		}
	}
	switch {
	case s.selected != nil && s.selected.ID == id:
		s.selected.Recipes = cloneRecipes(recipes)
	case fromList != nil:
		s.selected = fromList
	}
	s.mu.Unlock()

	return cloneRecipes(recipes), s.end("recipes", nil, "")
}

// replace swaps the list entry and selection having id for item. Recipes
// loaded on demand are not part of the server record and are dropped.
func (s *ItemStore) replace(id int64, item model.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = item
		}
	}
	if s.selected != nil && s.selected.ID == id {
		sel := item
		s.selected = &sel
	}
}
