package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGenerateRecipe = "recipe generated successfully"
	MessageSuccessGenerateBatch  = "recipe generation completed"
	MessageSuccessGetRecipes     = "recipes retrieved successfully"
	MessageSuccessSaveRecipe     = "recipe saved successfully"
	MessageSuccessDeleteRecipe   = "recipe deleted successfully"
	MessageSuccessGetDiscovery   = "recipe discovery retrieved successfully"

	MessageFailedGenerateRecipe = "failed to generate recipe"
	MessageFailedGenerateBatch  = "failed to generate recipes"
	MessageFailedGetRecipes     = "failed to retrieve recipes"
	MessageFailedSaveRecipe     = "failed to save recipe"
	MessageFailedDeleteRecipe   = "failed to delete recipe"
	MessageFailedGetDiscovery   = "failed to retrieve recipe discovery"

	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrGenerationFailed = errors.New("recipe generation failed")
)

const (
	RecipeSourceAI  = "ai"
	RecipeSourceWeb = "web"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

type (
	GenerateRecipeRequest struct {
		DishName        string `json:"dish_name" validate:"required"`
		DishDescription string `json:"dish_description"`
		RestaurantName  string `json:"restaurant_name"`
		DishID          string `json:"dish_id" validate:"omitempty,uuid"`
	}

	// GeneratedRecipe mirrors the generator's wire schema.
	GeneratedRecipe struct {
		Title        string   `json:"title"`
		Ingredients  []string `json:"ingredients"`
		Instructions []string `json:"instructions"`
		CookTime     string   `json:"cook_time"`
		Servings     string   `json:"servings"`
		Difficulty   string   `json:"difficulty"`
		CuisineType  string   `json:"cuisine_type"`
	}

	BatchGenerateDish struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}

	BatchGenerateRecipesRequest struct {
		VisitID        string              `json:"visit_id" validate:"required,uuid"`
		RestaurantName string              `json:"restaurant_name"`
		Dishes         []BatchGenerateDish `json:"dishes" validate:"required,min=1,dive"`
	}

	BatchGenerateRecipesResponse struct {
		Success          bool              `json:"success"`
		RecipesGenerated int               `json:"recipes_generated"`
		Recipes          []GeneratedRecipe `json:"recipes"`
	}

	SaveRecipeRequest struct {
		Title        string   `json:"title" validate:"required"`
		Ingredients  []string `json:"ingredients"`
		Instructions []string `json:"instructions"`
		CookTime     string   `json:"cook_time"`
		Servings     string   `json:"servings"`
		Difficulty   string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
		CuisineType  string   `json:"cuisine_type"`
		SourceType   string   `json:"source_type" validate:"omitempty,oneof=ai web"`
		SourceURL    string   `json:"source_url" validate:"omitempty,url"`
		ImageURL     string   `json:"image_url" validate:"omitempty,url"`
		LinkedDishID string   `json:"linked_dish_id" validate:"omitempty,uuid"`
	}

	RecipeResponse struct {
		ID           string    `json:"id"`
		Title        string    `json:"title"`
		Ingredients  []string  `json:"ingredients"`
		Instructions []string  `json:"instructions"`
		CookTime     string    `json:"cook_time"`
		Servings     string    `json:"servings"`
		Difficulty   string    `json:"difficulty"`
		CuisineType  string    `json:"cuisine_type"`
		SourceType   string    `json:"source_type"`
		SourceURL    string    `json:"source_url,omitempty"`
		ImageURL     string    `json:"image_url,omitempty"`
		LinkedDishID string    `json:"linked_dish_id,omitempty"`
		SavedAt      time.Time `json:"saved_at"`
	}

	// RecreateDishResponse is a want-to-recreate dish joined with its parent
	// visit for display in the discovery list.
	RecreateDishResponse struct {
		DishID         string    `json:"dish_id"`
		Name           string    `json:"name"`
		Description    string    `json:"description,omitempty"`
		RestaurantName string    `json:"restaurant_name"`
		VisitDate      time.Time `json:"visit_date"`
	}

	DiscoveryResponse struct {
		Recipes          []RecipeResponse       `json:"recipes"`
		DishesToRecreate []RecreateDishResponse `json:"dishes_to_recreate"`
	}
)
