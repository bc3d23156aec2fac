package vision

import (
	"context"
	"dishcovery/domain"
)

// Extractor reads a menu photo and returns the dishes printed on it. An
// empty result is a valid outcome, not an error.
type Extractor interface {
	ExtractDishes(ctx context.Context, image []byte, mimeType string) ([]domain.DishCandidate, error)
}
