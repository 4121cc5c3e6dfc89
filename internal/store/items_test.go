package store

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"freshguard/internal/api"
	"freshguard/internal/apitest"
	"freshguard/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockItemAPI is a mock implementation of api.ItemAPI.
type MockItemAPI struct {
	mock.Mock
}

func (m *MockItemAPI) ListItems(ctx context.Context) ([]model.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Item), args.Error(1)
}

func (m *MockItemAPI) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemAPI) CreateItem(ctx context.Context, item model.Item) (*model.Item, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemAPI) UpdateItem(ctx context.Context, id int64, item model.Item) (*model.Item, error) {
	args := m.Called(ctx, id, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemAPI) PatchItem(ctx context.Context, id int64, patch model.ItemPatch) (*model.Item, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Item), args.Error(1)
}

func (m *MockItemAPI) DeleteItem(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemAPI) ItemRecipes(ctx context.Context, id int64) ([]model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

func newLiveItemStore(t *testing.T) (*ItemStore, *apitest.Server) {
	t.Helper()

	srv := apitest.NewServer(t)
	client, err := api.New(srv.BaseURL(), zerolog.Nop())
	require.NoError(t, err)
	return NewItemStore(client, zerolog.Nop()), srv
}

func TestItemStore_FetchNewestFirst(t *testing.T) {
	s, srv := newLiveItemStore(t)
	srv.SeedItem(model.Item{Name: "Rice"})
	srv.SeedItem(model.Item{Name: "Beans"})
	srv.SeedItem(model.Item{Name: "Milk"})

	items, err := s.Fetch(context.Background())
	require.NoError(t, err)

	names := []string{}
	for _, item := range s.List() {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"Milk", "Beans", "Rice"}, names)
	assert.Equal(t, s.List(), items)
	assert.False(t, s.Busy())
	assert.Empty(t, s.Err())
}

func TestItemStore_CreatePrepends(t *testing.T) {
	s, srv := newLiveItemStore(t)
	srv.SeedItem(model.Item{Name: "Rice"})
	ctx := context.Background()

	_, err := s.Fetch(ctx)
	require.NoError(t, err)

	created, err := s.Create(ctx, model.Item{Name: "Milk", Quantity: 1, Location: "Fridge"})
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Milk", list[0].Name)
	assert.True(t, list[0].Persisted())
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, "Rice", list[1].Name)
}

func TestItemStore_UpdateReplacesByID(t *testing.T) {
	s, srv := newLiveItemStore(t)
	rice := srv.SeedItem(model.Item{Name: "Rice", Quantity: 1})
	milk := srv.SeedItem(model.Item{Name: "Milk", Quantity: 1})
	ctx := context.Background()

	_, err := s.Fetch(ctx)
	require.NoError(t, err)
	_, err = s.Get(ctx, milk.ID)
	require.NoError(t, err)

	_, err = s.Update(ctx, milk.ID, model.Item{Name: "Milk", Quantity: 4, Location: "Fridge"})
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, milk.ID, list[0].ID)
	assert.Equal(t, 4, list[0].Quantity)
	assert.Equal(t, "Fridge", list[0].Location)
	assert.Equal(t, rice, list[1], "other entries unchanged")

	sel, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, 4, sel.Quantity)
}

func TestItemStore_Patch(t *testing.T) {
	s, srv := newLiveItemStore(t)
	milk := srv.SeedItem(model.Item{Name: "Milk", Quantity: 1, Location: "Fridge"})
	ctx := context.Background()

	_, err := s.Fetch(ctx)
	require.NoError(t, err)

	qty := 3
	_, err = s.Patch(ctx, milk.ID, model.ItemPatch{Quantity: &qty})
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].Quantity)
	assert.Equal(t, "Fridge", list[0].Location)
}

func TestItemStore_Delete(t *testing.T) {
	s, srv := newLiveItemStore(t)
	rice := srv.SeedItem(model.Item{Name: "Rice"})
	milk := srv.SeedItem(model.Item{Name: "Milk"})
	ctx := context.Background()

	_, err := s.Fetch(ctx)
	require.NoError(t, err)
	_, err = s.Get(ctx, milk.ID)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, milk.ID))

	for _, item := range s.List() {
		assert.NotEqual(t, milk.ID, item.ID)
	}
	assert.Len(t, s.List(), 1)
	assert.Equal(t, rice.ID, s.List()[0].ID)

	_, ok := s.Selected()
	assert.False(t, ok, "deleted item must not stay selected")
}

func TestItemStore_LoadRecipes(t *testing.T) {
	s, srv := newLiveItemStore(t)
	egg := srv.SeedItem(model.Item{Name: "Egg"})
	flour := srv.SeedItem(model.Item{Name: "Flour"})
	srv.SeedRecipe(model.Recipe{Name: "Omelette"}, egg.ID)
	srv.SeedRecipe(model.Recipe{Name: "Cake"}, egg.ID, flour.ID)
	ctx := context.Background()

	_, err := s.Fetch(ctx)
	require.NoError(t, err)

	recipes, err := s.LoadRecipes(ctx, egg.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	for _, item := range s.List() {
		if item.ID == egg.ID {
			assert.Len(t, item.Recipes, 2)
		} else {
			assert.Empty(t, item.Recipes)
		}
	}

	sel, ok := s.Selected()
	require.True(t, ok, "list entry becomes the selection")
	assert.Equal(t, egg.ID, sel.ID)
	assert.Len(t, sel.Recipes, 2)
}

func TestItemStore_CopiesDoNotShareRecipes(t *testing.T) {
	s, srv := newLiveItemStore(t)
	egg := srv.SeedItem(model.Item{Name: "Egg"})
	srv.SeedRecipe(model.Recipe{Name: "Omelette"}, egg.ID)
	ctx := context.Background()

	_, err := s.Fetch(ctx)
	require.NoError(t, err)
	recipes, err := s.LoadRecipes(ctx, egg.ID)
	require.NoError(t, err)

	list := s.List()
	list[0].Recipes[0].Name = "Changed"
	recipes[0].Name = "Changed"
	sel, ok := s.Selected()
	require.True(t, ok)
	sel.Recipes[0].Name = "Changed"

	assert.Equal(t, "Omelette", s.List()[0].Recipes[0].Name)
	sel, _ = s.Selected()
	assert.Equal(t, "Omelette", sel.Recipes[0].Name)
}

func TestItemStore_FailureKeepsList(t *testing.T) {
	s, srv := newLiveItemStore(t)
	milk := srv.SeedItem(model.Item{Name: "Milk"})
	ctx := context.Background()

	_, err := s.Fetch(ctx)
	require.NoError(t, err)
	before := s.List()

	srv.FailNext(http.StatusInternalServerError, "database unavailable")
	_, err = s.Create(ctx, model.Item{Name: "Bread"})
	require.Error(t, err)
	assert.Equal(t, before, s.List())
	assert.Equal(t, "database unavailable", s.Err())

	srv.Fail(apitest.Failure{Status: http.StatusBadGateway})
	err = s.Delete(ctx, milk.ID)
	require.Error(t, err)
	assert.Equal(t, before, s.List())
	assert.Equal(t, MsgDeleteItem, s.Err())

	srv.Fail(apitest.Failure{Status: http.StatusServiceUnavailable})
	_, err = s.Fetch(ctx)
	require.Error(t, err)
	assert.Equal(t, before, s.List())
	assert.Equal(t, MsgFetchItems, s.Err())
	assert.False(t, s.Busy())

	// the next operation clears the error
	_, err = s.Fetch(ctx)
	require.NoError(t, err)
	assert.Empty(t, s.Err())
}

func TestItemStore_ErrorMessages(t *testing.T) {
	ctx := context.Background()
	apiErr := &api.Error{StatusCode: http.StatusInternalServerError}

	tests := []struct {
		name     string
		setup    func(m *MockItemAPI)
		run      func(s *ItemStore) error
		expected string
	}{
		{
			name:  "Fetch",
			setup: func(m *MockItemAPI) { m.On("ListItems", ctx).Return(nil, apiErr) },
			run: func(s *ItemStore) error {
				_, err := s.Fetch(ctx)
				return err
			},
			expected: MsgFetchItems,
		},
		{
			name:  "Get",
			setup: func(m *MockItemAPI) { m.On("GetItem", ctx, int64(7)).Return(nil, apiErr) },
			run: func(s *ItemStore) error {
				_, err := s.Get(ctx, 7)
				return err
			},
			expected: MsgGetItem,
		},
		{
			name: "Update",
			setup: func(m *MockItemAPI) {
				m.On("UpdateItem", ctx, int64(7), model.Item{Name: "X"}).Return(nil, apiErr)
			},
			run: func(s *ItemStore) error {
				_, err := s.Update(ctx, 7, model.Item{Name: "X"})
				return err
			},
			expected: MsgUpdateItem,
		},
		{
			name:  "Recipes",
			setup: func(m *MockItemAPI) { m.On("ItemRecipes", ctx, int64(7)).Return(nil, apiErr) },
			run: func(s *ItemStore) error {
				_, err := s.LoadRecipes(ctx, 7)
				return err
			},
			expected: MsgItemRecipes,
		},
		{
			name:  "Not persisted",
			setup: func(m *MockItemAPI) { m.On("DeleteItem", ctx, int64(0)).Return(model.ErrNotPersisted) },
			run: func(s *ItemStore) error {
				return s.Delete(ctx, 0)
			},
			expected: model.ErrNotPersisted.Message,
		},
		{
			name: "Transport error",
			setup: func(m *MockItemAPI) {
				m.On("CreateItem", ctx, model.Item{}).Return(nil, errors.New("connection refused"))
			},
			run: func(s *ItemStore) error {
				_, err := s.Create(ctx, model.Item{})
				return err
			},
			expected: MsgCreateItem,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAPI := new(MockItemAPI)
			tt.setup(mockAPI)
			s := NewItemStore(mockAPI, zerolog.Nop())

			err := tt.run(s)

			require.Error(t, err)
			assert.Equal(t, tt.expected, s.Err())
			assert.False(t, s.Busy())
			mockAPI.AssertExpectations(t)
		})
	}
}

func TestItemStore_BusyWhileInFlight(t *testing.T) {
	ctx := context.Background()
	mockAPI := new(MockItemAPI)
	s := NewItemStore(mockAPI, zerolog.Nop())

	mockAPI.On("ListItems", ctx).
		Run(func(args mock.Arguments) {
			assert.True(t, s.Busy())
		}).
		Return([]model.Item{{ID: 1, Name: "Milk"}}, nil)

	assert.False(t, s.Busy())
	_, err := s.Fetch(ctx)
	require.NoError(t, err)
	assert.False(t, s.Busy())

	mockAPI.AssertExpectations(t)
}

func TestItemStore_Filter(t *testing.T) {
	ctx := context.Background()
	mockAPI := new(MockItemAPI)
	s := NewItemStore(mockAPI, zerolog.Nop())

	mockAPI.On("ListItems", ctx).Return([]model.Item{
		{ID: 1, Name: "Milk", Category: "Dairy", Location: "Fridge"},
		{ID: 2, Name: "Rice", Category: "Grain", Location: "Pantry"},
		{ID: 3, Name: "Yoghurt", Category: "Dairy", Location: "Fridge"},
	}, nil)

	_, err := s.Fetch(ctx)
	require.NoError(t, err)

	tests := []struct {
		query    string
		expected []int64
	}{
		{query: "", expected: []int64{3, 2, 1}},
		{query: "dairy", expected: []int64{3, 1}},
		{query: "PANTRY", expected: []int64{2}},
		{query: " ilk ", expected: []int64{1}},
		{query: "bread", expected: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			ids := []int64{}
			for _, item := range s.Filter(tt.query) {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}
