package model

// Item represents a unit of food inventory.
type Item struct {
	ID             int64  `json:"id,omitempty"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Quantity       int    `json:"quantity"`
	Location       string `json:"location"`
	PurchaseDate   Date   `json:"purchaseDate"`
	ExpirationDate Date   `json:"expirationDate"`

	// Recipes is filled on demand by the item-recipes query.
	Recipes []Recipe `json:"recipes,omitempty"`
}

// Persisted reports whether the item has a server-assigned id.
func (i Item) Persisted() bool {
	return i.ID > 0
}

// ItemPatch is the payload of a partial item update. Nil fields are left
// untouched by the server.
type ItemPatch struct {
	Name           *string `json:"name,omitempty"`
	Category       *string `json:"category,omitempty"`
	Quantity       *int    `json:"quantity,omitempty"`
	Location       *string `json:"location,omitempty"`
	PurchaseDate   Date    `json:"purchaseDate,omitempty"`
	ExpirationDate Date    `json:"expirationDate,omitempty"`
}

// Apply returns a copy of item with the patch fields set.
func (p ItemPatch) Apply(item Item) Item {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Location != nil {
		item.Location = *p.Location
	}
	if !p.PurchaseDate.IsZero() {
		item.PurchaseDate = p.PurchaseDate
	}
	if !p.ExpirationDate.IsZero() {
		item.ExpirationDate = p.ExpirationDate
	}
	return item
}
