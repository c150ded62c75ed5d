package models

import "time"

// Recipe is the aggregate root. Instructions and Ingredients are owned children.
type Recipe struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Description string    `gorm:"size:500" json:"description"`
	PrepTime    int       `gorm:"not null;default:0;check:prep_time >= 0" json:"prep_time"`
	CookTime    int       `gorm:"not null;default:0;check:cook_time >= 0" json:"cook_time"`
	Servings    int       `gorm:"not null;default:1;check:servings >= 1" json:"servings"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Instructions []Instruction      `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"instructions,omitempty"`
	Ingredients  []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// Instruction is one ordered step of a recipe. (RecipeID, StepNumber) is unique.
type Instruction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipeID    uint      `gorm:"not null;uniqueIndex:idx_instructions_recipe_step" json:"recipe_id"`
	StepNumber  int       `gorm:"not null;uniqueIndex:idx_instructions_recipe_step;check:step_number >= 1" json:"step_number"`
	Description string    `gorm:"size:1000;not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Instruction) TableName() string {
	return "instructions"
}
