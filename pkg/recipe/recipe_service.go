package recipe

import (
	"context"
	"dishcovery/domain"
	"dishcovery/entities"
	"encoding/json"
	"errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"log"
	"strings"
	"sync"
	"time"
)

type (
	// DishResolver is the slice of the visit repository the recipe flows
	// need: linking a generated recipe back to its dish and checking dish
	// ownership.
	DishResolver interface {
		FindDishByVisitAndName(ctx context.Context, visitID string, name string) (*entities.Dish, error)
		GetDishOwner(ctx context.Context, dishID string) (string, error)
	}

	RecipeService interface {
		GenerateForDish(ctx context.Context, req domain.GenerateRecipeRequest, userID string) (domain.RecipeResponse, error)
		GenerateBatch(ctx context.Context, req domain.BatchGenerateRecipesRequest, userID string) domain.BatchGenerateRecipesResponse
		ListRecipes(ctx context.Context, userID string) ([]domain.RecipeResponse, error)
		SaveRecipe(ctx context.Context, req domain.SaveRecipeRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, id string, userID string) error
		Discovery(ctx context.Context, userID string, query string) (domain.DiscoveryResponse, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		generator        Generator
		dishes           DishResolver
	}
)

func NewRecipeService(recipeRepository RecipeRepository, generator Generator, dishes DishResolver) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		generator:        generator,
		dishes:           dishes,
	}
}

// GenerateForDish generates and persists a recipe for a single dish. When a
// dish id is supplied it must belong to the requesting user; the recipe is
// linked to it. A recipe that cannot be linked is still saved.
func (s *recipeService) GenerateForDish(ctx context.Context, req domain.GenerateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	var linkedDishID *uuid.UUID
	if req.DishID != "" {
		owner, err := s.dishes.GetDishOwner(ctx, req.DishID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.RecipeResponse{}, domain.ErrDishNotFound
			}
			return domain.RecipeResponse{}, err
		}
		if owner != userID {
			return domain.RecipeResponse{}, domain.ErrUnauthorizedAccess
		}
		dishUUID, err := uuid.Parse(req.DishID)
		if err != nil {
			return domain.RecipeResponse{}, domain.ErrParseUUID
		}
		linkedDishID = &dishUUID
	}

	generated, err := s.generator.GenerateRecipe(ctx, req)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrGenerationFailed
	}

	saved, err := s.persistGenerated(ctx, userUUID, generated, linkedDishID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return toRecipeResponse(saved), nil
}

// GenerateBatch runs one generator call per dish concurrently. A failed
// dish is logged and excluded from the tally; it never aborts the others.
func (s *recipeService) GenerateBatch(ctx context.Context, req domain.BatchGenerateRecipesRequest, userID string) domain.BatchGenerateRecipesResponse {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.BatchGenerateRecipesResponse{Recipes: []domain.GeneratedRecipe{}}
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		recipes []domain.GeneratedRecipe
	)

	for _, dish := range req.Dishes {
		wg.Add(1)
		go func(dish domain.BatchGenerateDish) {
			defer wg.Done()

			generated, err := s.generator.GenerateRecipe(ctx, domain.GenerateRecipeRequest{
				DishName:        dish.Name,
				DishDescription: dish.Description,
				RestaurantName:  req.RestaurantName,
			})
			if err != nil {
				log.Printf("recipe generation failed for %q: %v", dish.Name, err)
				return
			}

			// Resolve the dish row for linking; an unresolved link is not
			// a reason to drop the recipe.
			var linkedDishID *uuid.UUID
			if row, err := s.dishes.FindDishByVisitAndName(ctx, req.VisitID, dish.Name); err == nil {
				linkedDishID = &row.ID
			}

			if _, err := s.persistGenerated(ctx, userUUID, generated, linkedDishID); err != nil {
				log.Printf("failed to save generated recipe for %q: %v", dish.Name, err)
				return
			}

			mu.Lock()
			recipes = append(recipes, generated)
			mu.Unlock()
		}(dish)
	}
	wg.Wait()

	if recipes == nil {
		recipes = []domain.GeneratedRecipe{}
	}
	return domain.BatchGenerateRecipesResponse{
		Success:          true,
		RecipesGenerated: len(recipes),
		Recipes:          recipes,
	}
}

func (s *recipeService) persistGenerated(ctx context.Context, userID uuid.UUID, generated domain.GeneratedRecipe, linkedDishID *uuid.UUID) (*entities.Recipe, error) {
	ingredients, _ := json.Marshal(generated.Ingredients)
	instructions, _ := json.Marshal(generated.Instructions)

	recipe := &entities.Recipe{
		ID:           uuid.New(),
		UserID:       userID,
		Title:        generated.Title,
		Ingredients:  string(ingredients),
		Instructions: string(instructions),
		CookTime:     generated.CookTime,
		Servings:     generated.Servings,
		Difficulty:   normalizeDifficulty(generated.Difficulty),
		CuisineType:  generated.CuisineType,
		SourceType:   domain.RecipeSourceAI,
		LinkedDishID: linkedDishID,
		SavedAt:      time.Now(),
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) ListRecipes(ctx context.Context, userID string) ([]domain.RecipeResponse, error) {
	recipes, err := s.recipeRepository.ListRecipes(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		result = append(result, toRecipeResponse(recipe))
	}
	return result, nil
}

// SaveRecipe persists a recipe the user wants to keep, e.g. one sourced
// from the web. Saving again under the same id updates it.
func (s *recipeService) SaveRecipe(ctx context.Context, req domain.SaveRecipeRequest, userID string) (domain.RecipeResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = domain.RecipeSourceWeb
	}

	var linkedDishID *uuid.UUID
	if req.LinkedDishID != "" {
		dishUUID, err := uuid.Parse(req.LinkedDishID)
		if err != nil {
			return domain.RecipeResponse{}, domain.ErrParseUUID
		}
		linkedDishID = &dishUUID
	}

	ingredients, _ := json.Marshal(req.Ingredients)
	instructions, _ := json.Marshal(req.Instructions)

	recipe := &entities.Recipe{
		ID:           uuid.New(),
		UserID:       userUUID,
		Title:        req.Title,
		Ingredients:  string(ingredients),
		Instructions: string(instructions),
		CookTime:     req.CookTime,
		Servings:     req.Servings,
		Difficulty:   normalizeDifficulty(req.Difficulty),
		CuisineType:  req.CuisineType,
		SourceType:   sourceType,
		SourceURL:    req.SourceURL,
		ImageURL:     req.ImageURL,
		LinkedDishID: linkedDishID,
		SavedAt:      time.Now(),
	}

	if err := s.recipeRepository.UpsertRecipe(ctx, recipe); err != nil {
		return domain.RecipeResponse{}, err
	}
	return toRecipeResponse(recipe), nil
}

// DeleteRecipe is the bookmark toggle-off: the row is removed outright.
func (s *recipeService) DeleteRecipe(ctx context.Context, id string, userID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if recipe.UserID.String() != userID {
		return domain.ErrUnauthorizedAccess
	}

	return s.recipeRepository.DeleteRecipe(ctx, id)
}

// Discovery lists the user's saved recipes alongside the dishes they
// flagged to recreate, both filtered by a case-insensitive substring query.
func (s *recipeService) Discovery(ctx context.Context, userID string, query string) (domain.DiscoveryResponse, error) {
	recipes, err := s.recipeRepository.ListRecipes(ctx, userID)
	if err != nil {
		return domain.DiscoveryResponse{}, err
	}

	dishes, err := s.recipeRepository.ListDishesToRecreate(ctx, userID)
	if err != nil {
		return domain.DiscoveryResponse{}, err
	}

	filteredRecipes := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res := toRecipeResponse(recipe)
		if query == "" || matchesRecipe(res, query) {
			filteredRecipes = append(filteredRecipes, res)
		}
	}

	filteredDishes := make([]domain.RecreateDishResponse, 0, len(dishes))
	for _, dish := range dishes {
		if query == "" || containsFold(dish.Name, query) || containsFold(dish.Description, query) {
			filteredDishes = append(filteredDishes, domain.RecreateDishResponse{
				DishID:         dish.DishID.String(),
				Name:           dish.Name,
				Description:    dish.Description,
				RestaurantName: dish.RestaurantName,
				VisitDate:      dish.VisitDate,
			})
		}
	}

	return domain.DiscoveryResponse{
		Recipes:          filteredRecipes,
		DishesToRecreate: filteredDishes,
	}, nil
}

func matchesRecipe(recipe domain.RecipeResponse, query string) bool {
	if containsFold(recipe.Title, query) || containsFold(recipe.CuisineType, query) {
		return true
	}
	for _, ingredient := range recipe.Ingredients {
		if containsFold(ingredient, query) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func toRecipeResponse(recipe *entities.Recipe) domain.RecipeResponse {
	var ingredients, instructions []string
	_ = json.Unmarshal([]byte(recipe.Ingredients), &ingredients)
	_ = json.Unmarshal([]byte(recipe.Instructions), &instructions)

	res := domain.RecipeResponse{
		ID:           recipe.ID.String(),
		Title:        recipe.Title,
		Ingredients:  ingredients,
		Instructions: instructions,
		CookTime:     recipe.CookTime,
		Servings:     recipe.Servings,
		Difficulty:   recipe.Difficulty,
		CuisineType:  recipe.CuisineType,
		SourceType:   recipe.SourceType,
		SourceURL:    recipe.SourceURL,
		ImageURL:     recipe.ImageURL,
		SavedAt:      recipe.SavedAt,
	}
	if recipe.LinkedDishID != nil {
		res.LinkedDishID = recipe.LinkedDishID.String()
	}
	return res
}
