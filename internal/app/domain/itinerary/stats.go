package itinerary

import (
	"sort"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
)

// computeStats aggregates the full collection into the stats view. It is
// shared by both backends so the numbers never depend on where the data
// lives.
func computeStats(items []models.Itinerary) *models.ItineraryStats {
	stats := &models.ItineraryStats{
		TopDestinations: []models.DestinationCount{},
		MonthlyActivity: []models.MonthlyActivity{},
	}
	if len(items) == 0 {
		return stats
	}

	destinations := make(map[string]int)
	months := make(map[string]*models.MonthlyActivity)

	for _, it := range items {
		stats.TotalCount++
		if it.Status == models.StatusCompleted {
			stats.CompletedCount++
		}
		stats.TotalCost += it.ActualCost
		if it.Destination != "" {
			destinations[it.Destination]++
		}
		if !it.StartDate.IsZero() {
			key := it.StartDate.Format("2006-01")
			m, ok := months[key]
			if !ok {
				m = &models.MonthlyActivity{Month: key}
				months[key] = m
			}
			m.Count++
			m.Cost += it.ActualCost
		}
	}
	stats.AverageCost = stats.TotalCost / float64(stats.TotalCount)

	for dest, count := range destinations {
		stats.TopDestinations = append(stats.TopDestinations, models.DestinationCount{
			Destination: dest,
			Count:       count,
		})
	}
	sort.Slice(stats.TopDestinations, func(i, j int) bool {
		a, b := stats.TopDestinations[i], stats.TopDestinations[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Destination < b.Destination
	})
	if len(stats.TopDestinations) > 5 {
		stats.TopDestinations = stats.TopDestinations[:5]
	}

	for _, m := range months {
		stats.MonthlyActivity = append(stats.MonthlyActivity, *m)
	}
	sort.Slice(stats.MonthlyActivity, func(i, j int) bool {
		return stats.MonthlyActivity[i].Month < stats.MonthlyActivity[j].Month
	})

	return stats
}
