package recipe

import (
	"context"
	"dishcovery/entities"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"time"
)

// DishToRecreate is a want-to-recreate dish joined with its parent visit.
type DishToRecreate struct {
	DishID         uuid.UUID
	Name           string
	Description    string
	RestaurantName string
	VisitDate      time.Time
}

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		UpsertRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		ListRecipes(ctx context.Context, userID string) ([]*entities.Recipe, error)
		DeleteRecipe(ctx context.Context, id string) error
		ListDishesToRecreate(ctx context.Context, userID string) ([]DishToRecreate, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) UpsertRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) ListRecipes(ctx context.Context, userID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at desc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{}).Error
}

func (r *recipeRepository) ListDishesToRecreate(ctx context.Context, userID string) ([]DishToRecreate, error) {
	var rows []struct {
		DishID         uuid.UUID
		Name           string
		Description    string
		RestaurantName string
		VisitDate      time.Time
	}

	if err := r.db.WithContext(ctx).
		Table("dishes").
		Select("dishes.id as dish_id, dishes.name, dishes.description, restaurant_visits.restaurant_name, restaurant_visits.visit_date").
		Joins("JOIN restaurant_visits ON restaurant_visits.id = dishes.visit_id").
		Where("dishes.want_to_recreate = ? AND restaurant_visits.user_id = ?", true, userID).
		Order("restaurant_visits.visit_date desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	dishes := make([]DishToRecreate, 0, len(rows))
	for _, row := range rows {
		dishes = append(dishes, DishToRecreate{
			DishID:         row.DishID,
			Name:           row.Name,
			Description:    row.Description,
			RestaurantName: row.RestaurantName,
			VisitDate:      row.VisitDate,
		})
	}
	return dishes, nil
}
