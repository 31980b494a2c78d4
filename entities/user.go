package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"size:16;default:user" json:"role"`

	Timestamp
}

// Follow links a subscriber to an author. The composite unique index is the
// authoritative guard against duplicate subscriptions under concurrent requests.
type Follow struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_user_author" json:"user_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_user_author" json:"author_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}
