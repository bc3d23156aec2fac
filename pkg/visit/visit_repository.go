package visit

import (
	"context"
	"dishcovery/entities"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"strings"
)

type (
	VisitRepository interface {
		CreateVisitWithDishes(ctx context.Context, visit *entities.RestaurantVisit, dishes []*entities.Dish) error
		GetVisitByID(ctx context.Context, id string) (*entities.RestaurantVisit, error)
		ListVisits(ctx context.Context, userID string) ([]*entities.RestaurantVisit, error)
		SearchVisits(ctx context.Context, userID string, query string) ([]*entities.RestaurantVisit, error)
		UpdateVisit(ctx context.Context, visit *entities.RestaurantVisit) error
		DeleteVisit(ctx context.Context, id string) error
		GetDishByID(ctx context.Context, id string) (*entities.Dish, error)
		UpdateDish(ctx context.Context, dish *entities.Dish) error
		DeleteDish(ctx context.Context, id string) error
		FindDishByVisitAndName(ctx context.Context, visitID string, name string) (*entities.Dish, error)
		GetDishOwner(ctx context.Context, dishID string) (string, error)
	}

	visitRepository struct {
		db *gorm.DB
	}
)

func NewVisitRepository(db *gorm.DB) VisitRepository {
	return &visitRepository{db: db}
}

// CreateVisitWithDishes inserts the visit and its dishes in one transaction
// so a failed dish insert never leaves an orphan visit behind.
func (r *visitRepository) CreateVisitWithDishes(ctx context.Context, visit *entities.RestaurantVisit, dishes []*entities.Dish) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(visit).Error; err != nil {
			return err
		}
		if len(dishes) == 0 {
			return nil
		}
		return tx.Create(dishes).Error
	})
}

func (r *visitRepository) GetVisitByID(ctx context.Context, id string) (*entities.RestaurantVisit, error) {
	var visit entities.RestaurantVisit
	if err := r.db.WithContext(ctx).
		Preload("Dishes").
		Where("id = ?", id).
		First(&visit).Error; err != nil {
		return nil, err
	}
	return &visit, nil
}

func (r *visitRepository) ListVisits(ctx context.Context, userID string) ([]*entities.RestaurantVisit, error) {
	var visits []*entities.RestaurantVisit
	if err := r.db.WithContext(ctx).
		Preload("Dishes").
		Where("user_id = ?", userID).
		Order("visit_date desc").
		Find(&visits).Error; err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *visitRepository) SearchVisits(ctx context.Context, userID string, query string) ([]*entities.RestaurantVisit, error) {
	like := "%" + strings.ToLower(query) + "%"

	dishMatch := r.db.WithContext(ctx).Model(&entities.Dish{}).
		Select("dishes.visit_id").
		Joins("JOIN restaurant_visits ON restaurant_visits.id = dishes.visit_id").
		Where("restaurant_visits.user_id = ?", userID).
		Where("LOWER(dishes.name) LIKE ?", like)

	var visits []*entities.RestaurantVisit
	if err := r.db.WithContext(ctx).
		Preload("Dishes").
		Where("user_id = ?", userID).
		Where(
			r.db.Where("LOWER(restaurant_name) LIKE ?", like).
				Or("LOWER(location) LIKE ?", like).
				Or("id IN (?)", dishMatch),
		).
		Order("visit_date desc").
		Find(&visits).Error; err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *visitRepository) UpdateVisit(ctx context.Context, visit *entities.RestaurantVisit) error {
	return r.db.WithContext(ctx).Save(visit).Error
}

// DeleteVisit removes the visit's dishes first, then the visit, in one
// transaction so a half-deleted visit can never be observed.
func (r *visitRepository) DeleteVisit(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("visit_id = ?", id).Delete(&entities.Dish{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.RestaurantVisit{}).Error
	})
}

func (r *visitRepository) GetDishByID(ctx context.Context, id string) (*entities.Dish, error) {
	var dish entities.Dish
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&dish).Error; err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *visitRepository) UpdateDish(ctx context.Context, dish *entities.Dish) error {
	return r.db.WithContext(ctx).Save(dish).Error
}

func (r *visitRepository) DeleteDish(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Dish{}).Error
}

func (r *visitRepository) FindDishByVisitAndName(ctx context.Context, visitID string, name string) (*entities.Dish, error) {
	var dish entities.Dish
	if err := r.db.WithContext(ctx).
		Where("visit_id = ? AND name = ?", visitID, name).
		First(&dish).Error; err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *visitRepository) GetDishOwner(ctx context.Context, dishID string) (string, error) {
	var row struct {
		UserID uuid.UUID
	}
	if err := r.db.WithContext(ctx).
		Table("dishes").
		Select("restaurant_visits.user_id").
		Joins("JOIN restaurant_visits ON restaurant_visits.id = dishes.visit_id").
		Where("dishes.id = ?", dishID).
		Scan(&row).Error; err != nil {
		return "", err
	}
	if row.UserID == uuid.Nil {
		return "", gorm.ErrRecordNotFound
	}
	return row.UserID.String(), nil
}
