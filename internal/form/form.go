// Package form implements the item and recipe editors. A form is seeded
// from the entity it edits, or from blank defaults when creating, and
// submits its draft through the owning store.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var (
	// ErrSubmitting is returned when a submit or delete is attempted while
	// another one is outstanding or the store is busy.
	ErrSubmitting = errors.New("form: submission already in progress")

	// ErrUnknownField is returned by Set for a field the form does not have.
	ErrUnknownField = errors.New("form: unknown field")
)

var now = time.Now

// guard serialises submissions of a single form.
type guard struct {
	active atomic.Bool
}

// run calls fn unless the form or the store is already busy.
func (g *guard) run(busy func() bool, fn func() error) error {
	if busy() {
		return ErrSubmitting
	}
	if !g.active.CompareAndSwap(false, true) {
		return ErrSubmitting
	}
	defer g.active.Store(false)

	return fn()
}

func (g *guard) submitting() bool {
	return g.active.Load()
}

// fieldKey normalises "purchase-date", "purchase_date" and "purchaseDate".
func fieldKey(field string) string {
	return strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(strings.TrimSpace(field)))
}

// atoi parses a numeric input, yielding 0 when it is not a number.
func atoi(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

func unknownField(field string) error {
	return fmt.Errorf("%w: %q", ErrUnknownField, field)
}
