// package models defines the data model for the moodtunes mood history
package models

import (
	"time"
)

// Model is implemented by every persisted entity. [MoodEntry] is the only one today.
type Model interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
	// Validate reports the first invalid field, wrapping [shared.ErrInvalidInput].
	Validate() error
}

// Repository is the storage contract shared by entity repositories.
//
// Delete is a soft delete: the row keeps its data and sequence but stops appearing in Get and List.
// List criteria are repository specific; unknown keys are ignored.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria map[string]any) ([]T, error)
}
