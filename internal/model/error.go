package model

// ErrorResponse is the error body exchanged with the inventory API.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine code and the human-readable message.
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Standard error codes
const (
	ErrCodeInvalidJSON    = "INVALID_JSON"
	ErrCodeInvalidID      = "INVALID_ID"
	ErrCodeItemNotFound   = "ITEM_NOT_FOUND"
	ErrCodeRecipeNotFound = "RECIPE_NOT_FOUND"
	ErrCodeNotPersisted   = "NOT_PERSISTED"
	ErrCodeUnauthorised   = "UNAUTHORIZED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotPersisted   = NewDomainError(ErrCodeNotPersisted, "Entity has not been saved yet")
	ErrItemNotFound   = NewDomainError(ErrCodeItemNotFound, "Item not found")
	ErrRecipeNotFound = NewDomainError(ErrCodeRecipeNotFound, "Recipe not found")
)
