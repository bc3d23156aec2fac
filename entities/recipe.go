package entities

import (
	"github.com/google/uuid"
	"time"
)

// Recipe is owned by one user. LinkedDishID is a weak reference: the dish
// may be deleted later without cascading to the recipe.
type Recipe struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Title        string     `json:"title"`
	Ingredients  string     `json:"ingredients" gorm:"type:text"`
	Instructions string     `json:"instructions" gorm:"type:text"`
	CookTime     string     `json:"cook_time"`
	Servings     string     `json:"servings"`
	Difficulty   string     `json:"difficulty"`
	CuisineType  string     `json:"cuisine_type"`
	SourceType   string     `json:"source_type"` // "ai" or "web"
	SourceURL    string     `json:"source_url,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	LinkedDishID *uuid.UUID `json:"linked_dish_id,omitempty"`
	SavedAt      time.Time  `gorm:"type:timestamp" json:"saved_at"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
