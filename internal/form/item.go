package form

import (
	"context"
	"fmt"
	"strings"

	"freshguard/internal/dates"
	"freshguard/internal/model"
)

// ItemSaver is the part of the item store a form submits through.
type ItemSaver interface {
	Create(ctx context.Context, item model.Item) (model.Item, error)
	Update(ctx context.Context, id int64, item model.Item) (model.Item, error)
	Delete(ctx context.Context, id int64) error
	Busy() bool
}

// ItemDraft holds the editable item fields as entered. Dates are
// "YYYY-MM-DD" strings; an empty string leaves the date unset.
type ItemDraft struct {
	Name           string
	Category       string
	PurchaseDate   string
	ExpirationDate string
	Quantity       int
	Location       string
}

// ItemForm edits a single item. Drafts are not safe for concurrent editing;
// Submit and Delete may be called from any goroutine.
type ItemForm struct {
	Draft ItemDraft

	saver  ItemSaver
	target *model.Item
	guard  guard
}

// NewItemForm creates an editor for target, or a create form when target
// is nil.
func NewItemForm(saver ItemSaver, target *model.Item) *ItemForm {
	f := &ItemForm{saver: saver}
	if target != nil {
		t := *target
		f.target = &t
	}
	f.Reset()
	return f
}

// Creating reports whether submitting creates a new item.
func (f *ItemForm) Creating() bool {
	return f.target == nil
}

// Reset restores the draft to the target's values, or blank defaults.
func (f *ItemForm) Reset() {
	if f.target == nil {
		f.Draft = ItemDraft{}
		return
	}
	f.Draft = ItemDraft{
		Name:           f.target.Name,
		Category:       f.target.Category,
		PurchaseDate:   targetDate(f.target.PurchaseDate),
		ExpirationDate: targetDate(f.target.ExpirationDate),
		Quantity:       f.target.Quantity,
		Location:       f.target.Location,
	}
}

// Set updates one draft field from raw input. The quantity becomes 0 when
// value is not a number.
func (f *ItemForm) Set(field, value string) error {
	switch fieldKey(field) {
	case "name":
		f.Draft.Name = value
	case "category":
		f.Draft.Category = value
	case "purchasedate", "purchased":
		f.Draft.PurchaseDate = strings.TrimSpace(value)
	case "expirationdate", "expires", "expired":
		f.Draft.ExpirationDate = strings.TrimSpace(value)
	case "quantity":
		f.Draft.Quantity = atoi(value)
	case "location":
		f.Draft.Location = value
	default:
		return unknownField(field)
	}
	return nil
}

// Payload converts the draft into the wire representation.
func (f *ItemForm) Payload() (model.Item, error) {
	purchased, err := draftDate(f.Draft.PurchaseDate)
	if err != nil {
		return model.Item{}, fmt.Errorf("purchase date: %w", err)
	}
	expires, err := draftDate(f.Draft.ExpirationDate)
	if err != nil {
		return model.Item{}, fmt.Errorf("expiration date: %w", err)
	}

	return model.Item{
		Name:           f.Draft.Name,
		Category:       f.Draft.Category,
		Quantity:       f.Draft.Quantity,
		Location:       f.Draft.Location,
		PurchaseDate:   purchased,
		ExpirationDate: expires,
	}, nil
}

// Submit creates or updates the item through the store and, on success,
// reseeds the form from the saved item.
func (f *ItemForm) Submit(ctx context.Context) (model.Item, error) {
	var saved model.Item
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

// Delete removes the edited item. Create forms have nothing to delete.
func (f *ItemForm) Delete(ctx context.Context) error {
	return f.guard.run(f.saver.Busy, func() error {
		if f.target == nil || !f.target.Persisted() {
			return model.ErrNotPersisted
		}
		return f.saver.Delete(ctx, f.target.ID)
	})
}

// Submitting reports whether a submit or delete is outstanding.
func (f *ItemForm) Submitting() bool {
	return f.guard.submitting()
}

// targetDate renders a stored date for the draft. A malformed date keeps
// its raw components so Payload rejects it instead of sending null.
func targetDate(d model.Date) string {
	if s := d.String(); s != "" || d.IsZero() {
		return s
	}
	return strings.Trim(fmt.Sprint([]int(d)), "[]")
}

func draftDate(s string) (model.Date, error) {
	if s == "" {
		return nil, nil
	}
	arr, err := dates.StringToArray(s)
	if err != nil {
		return nil, err
	}
	return model.Date(arr), nil
}
