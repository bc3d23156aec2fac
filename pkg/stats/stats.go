// Package stats computes summary statistics over a user's visit history.
// All functions are pure and operate on visits with dishes preloaded.
package stats

import (
	"dishcovery/domain"
	"dishcovery/entities"
)

func TotalVisits(visits []*entities.RestaurantVisit) int {
	return len(visits)
}

func TotalDishes(visits []*entities.RestaurantVisit) int {
	total := 0
	for _, visit := range visits {
		total += len(visit.Dishes)
	}
	return total
}

// AverageRating averages per-visit means across all visits. A dish counts
// toward its visit's mean only when it carries a rating above zero; a visit
// with no rated dishes still contributes 0 to the outer mean, and the divisor
// is the total visit count. That zero-contribution rule matches the behavior
// the mobile dashboard has always shown and is pinned by a test.
func AverageRating(visits []*entities.RestaurantVisit) float64 {
	if len(visits) == 0 {
		return 0
	}

	sum := 0.0
	for _, visit := range visits {
		ratedSum, ratedCount := 0, 0
		for _, dish := range visit.Dishes {
			if dish.Rating != nil && *dish.Rating > 0 {
				ratedSum += *dish.Rating
				ratedCount++
			}
		}
		if ratedCount > 0 {
			sum += float64(ratedSum) / float64(ratedCount)
		}
	}
	return sum / float64(len(visits))
}

// FavoriteRestaurant returns the most visited restaurant name. Ties go to
// the restaurant seen first in input order. Empty when there are no visits.
func FavoriteRestaurant(visits []*entities.RestaurantVisit) string {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, visit := range visits {
		if _, seen := counts[visit.RestaurantName]; !seen {
			order = append(order, visit.RestaurantName)
		}
		counts[visit.RestaurantName]++
	}

	favorite := ""
	best := 0
	for _, name := range order {
		if counts[name] > best {
			favorite = name
			best = counts[name]
		}
	}
	return favorite
}

func Summarize(visits []*entities.RestaurantVisit) domain.DashboardStatsResponse {
	return domain.DashboardStatsResponse{
		TotalVisits:        TotalVisits(visits),
		TotalDishes:        TotalDishes(visits),
		AverageRating:      AverageRating(visits),
		FavoriteRestaurant: FavoriteRestaurant(visits),
	}
}
