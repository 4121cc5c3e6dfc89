package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"freshguard/internal/api"
	"freshguard/internal/apitest"
	"freshguard/internal/dates"
	"freshguard/internal/model"
	"freshguard/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockItemSaver is a mock implementation of ItemSaver.
type MockItemSaver struct {
	mock.Mock
}

func (m *MockItemSaver) Create(ctx context.Context, item model.Item) (model.Item, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(model.Item), args.Error(1)
}

func (m *MockItemSaver) Update(ctx context.Context, id int64, item model.Item) (model.Item, error) {
	args := m.Called(ctx, id, item)
	return args.Get(0).(model.Item), args.Error(1)
}

func (m *MockItemSaver) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemSaver) Busy() bool {
	args := m.Called()
	return args.Bool(0)
}

func newStores(t *testing.T) (*store.ItemStore, *store.RecipeStore, *apitest.Server) {
	t.Helper()

	srv := apitest.NewServer(t)
	client, err := api.New(srv.BaseURL(), zerolog.Nop())
	require.NoError(t, err)
	return store.NewItemStore(client, zerolog.Nop()), store.NewRecipeStore(client, zerolog.Nop()), srv
}

func TestItemForm_Seed(t *testing.T) {
	target := &model.Item{
		ID:             4,
		Name:           "Milk",
		Category:       "Dairy",
		Quantity:       2,
		Location:       "Fridge",
		PurchaseDate:   model.Date{2024, 5, 1},
		ExpirationDate: model.Date{2024, 5, 9},
	}

	f := NewItemForm(new(MockItemSaver), target)
	assert.False(t, f.Creating())
	assert.Equal(t, ItemDraft{
		Name:           "Milk",
		Category:       "Dairy",
		PurchaseDate:   "2024-05-01",
		ExpirationDate: "2024-05-09",
		Quantity:       2,
		Location:       "Fridge",
	}, f.Draft)

	target.Name = "Changed"
	f.Reset()
	assert.Equal(t, "Milk", f.Draft.Name, "form keeps its own copy of the target")

	blank := NewItemForm(new(MockItemSaver), nil)
	assert.True(t, blank.Creating())
	assert.Equal(t, ItemDraft{}, blank.Draft)
}

func TestItemForm_Set(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		expected ItemDraft
		err      error
	}{
		{name: "Name", field: "name", value: "Milk", expected: ItemDraft{Name: "Milk"}},
		{name: "Quantity", field: "quantity", value: "3", expected: ItemDraft{Quantity: 3}},
		{name: "Bad quantity", field: "quantity", value: "three", expected: ItemDraft{}},
		{name: "Kebab-case date", field: "purchase-date", value: " 2024-05-01 ", expected: ItemDraft{PurchaseDate: "2024-05-01"}},
		{name: "Camel-case date", field: "expirationDate", value: "2024-05-09", expected: ItemDraft{ExpirationDate: "2024-05-09"}},
		{name: "Unknown", field: "colour", value: "red", expected: ItemDraft{}, err: ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewItemForm(new(MockItemSaver), nil)
			err := f.Set(tt.field, tt.value)

			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expected, f.Draft)
		})
	}
}

func TestItemForm_Payload(t *testing.T) {
	f := NewItemForm(new(MockItemSaver), nil)
	f.Draft = ItemDraft{Name: "Milk", PurchaseDate: "2024-05-01", Quantity: 1}

	item, err := f.Payload()
	require.NoError(t, err)
	assert.Equal(t, model.Date{2024, 5, 1}, item.PurchaseDate)
	assert.True(t, item.ExpirationDate.IsZero(), "blank date stays unset")
	assert.False(t, item.Persisted())

	f.Draft.ExpirationDate = "05/09/2024"
	_, err = f.Payload()
	assert.ErrorContains(t, err, "expiration date")
}

func TestItemForm_CreateThroughStore(t *testing.T) {
	items, _, srv := newStores(t)
	ctx := context.Background()

	f := NewItemForm(items, nil)
	require.NoError(t, f.Set("name", "Milk"))
	require.NoError(t, f.Set("quantity", "1"))
	require.NoError(t, f.Set("expirationDate", "2024-05-09"))

	saved, err := f.Submit(ctx)
	require.NoError(t, err)
	assert.True(t, saved.Persisted())
	assert.False(t, f.Creating(), "form now edits the saved item")

	list := items.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Milk", list[0].Name)
	assert.Equal(t, saved.ID, list[0].ID)

	stored := srv.Items()
	require.Len(t, stored, 1)
	assert.Equal(t, model.Date{2024, 5, 9}, stored[0].ExpirationDate)
	assert.Nil(t, stored[0].PurchaseDate)
}

func TestItemForm_UpdateAndDelete(t *testing.T) {
	items, _, srv := newStores(t)
	milk := srv.SeedItem(model.Item{Name: "Milk", Quantity: 1})
	ctx := context.Background()

	_, err := items.Fetch(ctx)
	require.NoError(t, err)

	f := NewItemForm(items, &milk)
	require.NoError(t, f.Set("quantity", "5"))
	_, err = f.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, items.List()[0].Quantity)

	require.NoError(t, f.Delete(ctx))
	assert.Empty(t, items.List())
	assert.Empty(t, srv.Items())
}

func TestItemForm_MalformedTargetDate(t *testing.T) {
	saver := new(MockItemSaver)
	saver.On("Busy").Return(false)

	f := NewItemForm(saver, &model.Item{ID: 3, Name: "Milk", PurchaseDate: model.Date{2024, 5}})
	assert.NotEmpty(t, f.Draft.PurchaseDate)

	require.NoError(t, f.Set("name", "Oat milk"))
	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purchase date")

	saver.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestItemForm_ShortWireDateIsNotSaved(t *testing.T) {
	items, _, srv := newStores(t)
	srv.SeedItem(model.Item{Name: "Milk", PurchaseDate: model.Date{2024, 5}})
	ctx := context.Background()

	_, err := items.Get(ctx, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, dates.ErrMalformed)

	for _, req := range srv.Requests() {
		assert.NotContains(t, req, "PUT")
	}
	assert.Equal(t, model.Date{2024, 5}, srv.Items()[0].PurchaseDate)
}

func TestItemForm_DeleteRequiresPersistedTarget(t *testing.T) {
	saver := new(MockItemSaver)
	saver.On("Busy").Return(false)

	err := NewItemForm(saver, nil).Delete(context.Background())
	assert.ErrorIs(t, err, model.ErrNotPersisted)

	err = NewItemForm(saver, &model.Item{Name: "Draft"}).Delete(context.Background())
	assert.ErrorIs(t, err, model.ErrNotPersisted)

	saver.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestItemForm_RejectsWhileStoreBusy(t *testing.T) {
	saver := new(MockItemSaver)
	saver.On("Busy").Return(true)

	f := NewItemForm(saver, nil)
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitting)

	saver.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestItemForm_RejectsReentry(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	saver := new(MockItemSaver)
	saver.On("Busy").Return(false)
	saver.On("Create", ctx, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(model.Item{ID: 1, Name: "Milk"}, nil).
		Once()

	f := NewItemForm(saver, nil)
	f.Draft.Name = "Milk"

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(ctx)
		done <- err
	}()

	require.Eventually(t, f.Submitting, time.Second, time.Millisecond)

	_, err := f.Submit(ctx)
	assert.ErrorIs(t, err, ErrSubmitting)
	assert.ErrorIs(t, f.Delete(ctx), ErrSubmitting)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, f.Submitting())
	saver.AssertExpectations(t)
}

func TestItemForm_StoreFailure(t *testing.T) {
	saver := new(MockItemSaver)
	saver.On("Busy").Return(false)
	saver.On("Create", mock.Anything, mock.Anything).Return(model.Item{}, errors.New("boom"))

	f := NewItemForm(saver, nil)
	f.Draft.Name = "Milk"

	_, err := f.Submit(context.Background())
	assert.EqualError(t, err, "boom")
	assert.True(t, f.Creating(), "failed create keeps the form in create mode")
	assert.Equal(t, "Milk", f.Draft.Name)
	assert.False(t, f.Submitting())
}
