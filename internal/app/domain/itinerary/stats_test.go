package itinerary

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
)

func TestComputeStatsEmpty(t *testing.T) {
	stats := computeStats(nil)
	assert.Equal(t, 0, stats.TotalCount)
	assert.Equal(t, float64(0), stats.AverageCost)
	assert.Empty(t, stats.TopDestinations)
	assert.Empty(t, stats.MonthlyActivity)
}

func TestComputeStatsAggregates(t *testing.T) {
	items := []models.Itinerary{
		{Destination: "Beijing", Status: models.StatusCompleted, ActualCost: 100, StartDate: date(2026, 3, 5)},
		{Destination: "Beijing", Status: models.StatusDraft, ActualCost: 200, StartDate: date(2026, 3, 20)},
		{Destination: "Tokyo", Status: models.StatusCompleted, ActualCost: 300, StartDate: date(2026, 4, 1)},
	}

	stats := computeStats(items)
	assert.Equal(t, 3, stats.TotalCount)
	assert.Equal(t, 2, stats.CompletedCount)
	assert.Equal(t, float64(600), stats.TotalCost)
	assert.Equal(t, float64(200), stats.AverageCost)

	require.Len(t, stats.TopDestinations, 2)
	assert.Equal(t, models.DestinationCount{Destination: "Beijing", Count: 2}, stats.TopDestinations[0])

	require.Len(t, stats.MonthlyActivity, 2)
	assert.Equal(t, "2026-03", stats.MonthlyActivity[0].Month)
	assert.Equal(t, 2, stats.MonthlyActivity[0].Count)
	assert.Equal(t, float64(300), stats.MonthlyActivity[0].Cost)
	assert.Equal(t, "2026-04", stats.MonthlyActivity[1].Month)
}

func TestComputeStatsTopDestinationsCappedAtFive(t *testing.T) {
	var items []models.Itinerary
	for i := 0; i < 7; i++ {
		items = append(items, models.Itinerary{Destination: fmt.Sprintf("City-%d", i)})
	}
	// One destination dominates the ranking.
	items = append(items, models.Itinerary{Destination: "City-3"})

	stats := computeStats(items)
	require.Len(t, stats.TopDestinations, 5)
	assert.Equal(t, "City-3", stats.TopDestinations[0].Destination)
	assert.Equal(t, 2, stats.TopDestinations[0].Count)
	// Ties break alphabetically.
	assert.Equal(t, "City-0", stats.TopDestinations[1].Destination)
}

func TestComputeStatsSkipsBlankDestinationAndZeroDate(t *testing.T) {
	items := []models.Itinerary{
		{Destination: "", ActualCost: 50},
		{Destination: "Rome", StartDate: date(2026, 6, 1)},
	}

	stats := computeStats(items)
	assert.Equal(t, 2, stats.TotalCount)
	require.Len(t, stats.TopDestinations, 1)
	assert.Equal(t, "Rome", stats.TopDestinations[0].Destination)
	require.Len(t, stats.MonthlyActivity, 1)
}
