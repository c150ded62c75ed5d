package models

import "time"

type Ingredient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Unit      string    `gorm:"size:50;not null" json:"unit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// RecipeIngredient links a recipe to a catalog ingredient with a recipe-specific quantity.
type RecipeIngredient struct {
	RecipeID     uint    `gorm:"primaryKey;autoIncrement:false" json:"recipe_id"`
	IngredientID uint    `gorm:"primaryKey;autoIncrement:false" json:"ingredient_id"`
	Quantity     float64 `gorm:"not null;check:quantity >= 0" json:"quantity"`
	Notes        *string `gorm:"size:255" json:"notes,omitempty"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}
