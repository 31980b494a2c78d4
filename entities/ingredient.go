package entities

import (
	"github.com/google/uuid"
)

// Ingredient is shared reference data. Name alone is not unique: the same name
// may appear with different measurement units.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name            string    `gorm:"size:200;index;not null" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null" json:"measurement_unit"`
}
