package entities

import (
	"github.com/google/uuid"
)

const (
	TagColorOrange = "#E26C2D"
	TagColorGreen  = "#49B64E"
	TagColorPurple = "#8775D2"
)

// TagColors is the closed palette a tag color must belong to.
var TagColors = []string{TagColorOrange, TagColorGreen, TagColorPurple}

func IsTagColor(color string) bool {
	for _, c := range TagColors {
		if c == color {
			return true
		}
	}
	return false
}

type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name  string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Slug  string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Color string    `gorm:"size:16;uniqueIndex;not null" json:"color"`
}
