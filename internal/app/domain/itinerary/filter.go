package itinerary

import (
	"sort"
	"strings"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
)

// matchesFilter applies the filter predicates in contract order: free-text
// search, destination, status, date range, budget range, tag overlap. All
// predicates AND together; zero values never constrain.
func matchesFilter(it models.Itinerary, f models.ItineraryFilter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(it.Title), needle) &&
			!strings.Contains(strings.ToLower(it.Destination), needle) &&
			!strings.Contains(strings.ToLower(it.Summary), needle) {
			return false
		}
	}
	if f.Destination != "" && it.Destination != f.Destination {
		return false
	}
	if f.Status != "" && it.Status != f.Status {
		return false
	}
	if f.DateFrom != nil && it.StartDate.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && it.StartDate.After(*f.DateTo) {
		return false
	}
	if f.BudgetMin != nil && it.TotalBudget < *f.BudgetMin {
		return false
	}
	if f.BudgetMax != nil && it.TotalBudget > *f.BudgetMax {
		return false
	}
	if len(f.Tags) > 0 && !hasAnyTag(it.Tags, f.Tags) {
		return false
	}
	return true
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// sortItineraries orders items by the filter's sort field and direction.
// The sort is stable so equal keys keep their stored order.
func sortItineraries(items []models.Itinerary, f models.ItineraryFilter) {
	less := func(a, b models.Itinerary) bool {
		switch f.SortBy {
		case models.SortByStartDate:
			return a.StartDate.Before(b.StartDate)
		case models.SortByTitle:
			return a.Title < b.Title
		case models.SortByActualCost:
			return a.ActualCost < b.ActualCost
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if f.SortOrder == models.SortAsc {
			return less(items[i], items[j])
		}
		return less(items[j], items[i])
	})
}

// paginate slices one page out of the sorted match set.
func paginate(items []models.Itinerary, page, limit int) []models.Itinerary {
	start := (page - 1) * limit
	if start >= len(items) {
		return []models.Itinerary{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
