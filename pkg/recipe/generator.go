package recipe

import (
	"context"
	"dishcovery/domain"
)

// Generator produces a home-cook recipe for a restaurant dish.
type Generator interface {
	GenerateRecipe(ctx context.Context, req domain.GenerateRecipeRequest) (domain.GeneratedRecipe, error)
}
