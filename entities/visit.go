package entities

import (
	"github.com/google/uuid"
	"time"
)

type RestaurantVisit struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	RestaurantName string    `json:"restaurant_name"`
	Location       string    `json:"location,omitempty"`
	VisitDate      time.Time `gorm:"type:date" json:"visit_date"`
	MenuPhotoURL   string    `json:"menu_photo_url,omitempty"`
	Notes          string    `json:"notes,omitempty" gorm:"type:text"`
	OverallRating  *int      `json:"overall_rating,omitempty"`

	User   *User   `gorm:"foreignKey:UserID"`
	Dishes []*Dish `gorm:"foreignKey:VisitID"`
	Timestamp
}

type Dish struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	VisitID        uuid.UUID `json:"visit_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty" gorm:"type:text"`
	Price          string    `json:"price,omitempty"`
	Category       string    `json:"category,omitempty"`
	Ordered        bool      `json:"ordered"`
	Rating         *int      `json:"rating,omitempty"`
	Notes          string    `json:"notes,omitempty" gorm:"type:text"`
	WantToRecreate bool      `json:"want_to_recreate"`

	Visit *RestaurantVisit `gorm:"foreignKey:VisitID"`
	Timestamp
}
