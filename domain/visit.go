package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessCaptureMenu   = "menu photo captured"
	MessageSuccessAnalyzeMenu   = "menu analyzed successfully"
	MessageSuccessGetSession    = "visit session retrieved"
	MessageSuccessSelectDishes  = "dishes selected"
	MessageSuccessRateDish      = "dish rated"
	MessageSuccessCompleteVisit = "visit saved successfully"
	MessageSuccessGetVisits     = "visits retrieved successfully"
	MessageSuccessSearchVisits  = "visit search completed"
	MessageSuccessGetDashboard  = "dashboard statistics retrieved successfully"
	MessageSuccessUpdateVisit   = "visit updated successfully"
	MessageSuccessUpdateDish    = "dish updated successfully"
	MessageSuccessDeleteVisit   = "visit deleted successfully"
	MessageSuccessDeleteDish    = "dish deleted successfully"

	MessageFailedCaptureMenu   = "failed to capture menu photo"
	MessageFailedAnalyzeMenu   = "failed to analyze menu"
	MessageFailedGetSession    = "failed to retrieve visit session"
	MessageFailedSelectDishes  = "failed to select dishes"
	MessageFailedRateDish      = "failed to rate dish"
	MessageFailedCompleteVisit = "failed to save visit"
	MessageFailedGetVisits     = "failed to retrieve visits"
	MessageFailedSearchVisits  = "failed to search visits"
	MessageFailedGetDashboard  = "failed to retrieve dashboard statistics"
	MessageFailedUpdateVisit   = "failed to update visit"
	MessageFailedUpdateDish    = "failed to update dish"
	MessageFailedDeleteVisit   = "failed to delete visit"
	MessageFailedDeleteDish    = "failed to delete dish"

	ErrEmptyPhoto             = errors.New("menu photo is empty")
	ErrNoActiveSession        = errors.New("no active visit session")
	ErrInvalidState           = errors.New("operation not allowed in current session state")
	ErrAnalysisFailed         = errors.New("menu analysis failed, please try again")
	ErrEmptySelection         = errors.New("at least one dish must be selected")
	ErrSelectionOutOfRange    = errors.New("selected dish index out of range")
	ErrUnknownDish            = errors.New("unknown dish in this session")
	ErrInvalidRating          = errors.New("rating must be between 1 and 5")
	ErrDishesNotRated         = errors.New("every selected dish must be rated before saving")
	ErrRestaurantNameRequired = errors.New("restaurant name is required")
	ErrInvalidVisitDate       = errors.New("invalid visit date")
	ErrVisitNotFound          = errors.New("visit not found")
	ErrDishNotFound           = errors.New("dish not found")
)

type (
	// DishCandidate is one dish the vision extractor read off a menu photo.
	// Price is free-form text, not guaranteed numeric.
	DishCandidate struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Price       string `json:"price,omitempty"`
		Category    string `json:"category,omitempty"`
	}

	// SelectedDish is a candidate the user carried forward. The ID is stable
	// for the lifetime of the session only.
	SelectedDish struct {
		ID string `json:"id"`
		DishCandidate
	}

	DishRating struct {
		Rating         int    `json:"rating"`
		Notes          string `json:"notes,omitempty"`
		WantToRecreate bool   `json:"want_to_recreate"`
	}

	CaptureMenuRequest struct {
		Photo *multipart.FileHeader `json:"photo" form:"photo" validate:"required"`
	}

	SelectDishesRequest struct {
		Indices []int `json:"indices" validate:"required,min=1"`
	}

	RateDishRequest struct {
		DishID         string `json:"dish_id" validate:"required,uuid"`
		Rating         int    `json:"rating" validate:"required,min=1,max=5"`
		Notes          string `json:"notes"`
		WantToRecreate bool   `json:"want_to_recreate"`
	}

	CompleteVisitRequest struct {
		RestaurantName string `json:"restaurant_name" validate:"required"`
		Location       string `json:"location"`
		VisitDate      string `json:"visit_date" validate:"omitempty,datetime=2006-01-02"`
		Notes          string `json:"notes"`
		OverallRating  *int   `json:"overall_rating" validate:"omitempty,min=1,max=5"`
	}

	CompleteVisitResponse struct {
		VisitID       string `json:"visit_id"`
		DishesSaved   int    `json:"dishes_saved"`
		RecipesQueued int    `json:"recipes_queued"`
	}

	SessionResponse struct {
		State        string                `json:"state"`
		MenuPhotoURL string                `json:"menu_photo_url,omitempty"`
		Candidates   []DishCandidate       `json:"candidates,omitempty"`
		Selected     []SelectedDish        `json:"selected,omitempty"`
		Ratings      map[string]DishRating `json:"ratings,omitempty"`
		Failure      string                `json:"failure,omitempty"`
	}

	AnalyzeMenuResponse struct {
		Dishes []DishCandidate `json:"dishes"`
	}

	UpdateVisitRequest struct {
		RestaurantName string `json:"restaurant_name" validate:"omitempty"`
		Location       string `json:"location"`
		VisitDate      string `json:"visit_date" validate:"omitempty,datetime=2006-01-02"`
		Notes          string `json:"notes"`
		OverallRating  *int   `json:"overall_rating" validate:"omitempty,min=1,max=5"`
	}

	UpdateDishRequest struct {
		Name           string `json:"name" validate:"omitempty"`
		Description    string `json:"description"`
		Price          string `json:"price"`
		Category       string `json:"category"`
		Rating         *int   `json:"rating" validate:"omitempty,min=1,max=5"`
		Notes          string `json:"notes"`
		WantToRecreate *bool  `json:"want_to_recreate"`
	}

	DishResponse struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		Description    string `json:"description,omitempty"`
		Price          string `json:"price,omitempty"`
		Category       string `json:"category,omitempty"`
		Ordered        bool   `json:"ordered"`
		Rating         *int   `json:"rating,omitempty"`
		Notes          string `json:"notes,omitempty"`
		WantToRecreate bool   `json:"want_to_recreate"`
	}

	VisitResponse struct {
		ID             string         `json:"id"`
		RestaurantName string         `json:"restaurant_name"`
		Location       string         `json:"location,omitempty"`
		VisitDate      time.Time      `json:"visit_date"`
		MenuPhotoURL   string         `json:"menu_photo_url,omitempty"`
		Notes          string         `json:"notes,omitempty"`
		OverallRating  *int           `json:"overall_rating,omitempty"`
		Dishes         []DishResponse `json:"dishes"`
		CreatedAt      time.Time      `json:"created_at"`
	}

	DashboardStatsResponse struct {
		TotalVisits        int     `json:"total_visits"`
		TotalDishes        int     `json:"total_dishes"`
		AverageRating      float64 `json:"average_rating"`
		FavoriteRestaurant string  `json:"favorite_restaurant,omitempty"`
	}
)
