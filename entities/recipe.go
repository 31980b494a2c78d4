package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Text        string    `gorm:"type:text" json:"text"`
	ImageURL    string    `json:"image_url,omitempty"`
	CookingTime int       `gorm:"not null" json:"cooking_time"`

	Author      *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`

	Timestamp
}

// RecipeIngredient is owned exclusively by its recipe and is only ever written
// as part of a recipe aggregate create or update.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int       `gorm:"not null" json:"amount"`
	CreatedAt    time.Time `gorm:"type:timestamp" json:"created_at"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

func (RecipeIngredient) TableName() string { return "recipe_ingredients" }

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

type ShoppingCart struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (ShoppingCart) TableName() string { return "shopping_carts" }
