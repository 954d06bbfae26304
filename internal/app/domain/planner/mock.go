package planner

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/domain/itinerary"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
)

var _ Generator = (*MockGenerator)(nil)

// mockSlot is one entry of the fixed five-slot daily template.
type mockSlot struct {
	time     string
	title    string
	category models.StopCategory
	duration int
}

var dailyTemplate = [5]mockSlot{
	{time: "09:00", title: "Morning sightseeing", category: models.CategoryAttraction, duration: 150},
	{time: "12:00", title: "Local lunch", category: models.CategoryRestaurant, duration: 90},
	{time: "14:00", title: "Afternoon exploration", category: models.CategoryActivity, duration: 180},
	{time: "18:00", title: "Dinner", category: models.CategoryRestaurant, duration: 90},
	{time: "20:30", title: "Return to hotel", category: models.CategoryHotel, duration: 60},
}

// MockGenerator synthesizes a plausible itinerary without calling a model, so
// the rest of the system works when no provider credential is configured.
// Output is fully determined by the request: the budget is split evenly
// across days and then across the five daily slots.
type MockGenerator struct {
	logger *zap.Logger
	newID  func() string
}

func NewMockGenerator(logger *zap.Logger) *MockGenerator {
	return &MockGenerator{logger: logger, newID: itinerary.NewID}
}

func (g *MockGenerator) Generate(ctx context.Context, req models.TripRequest) (*models.Itinerary, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	numDays := tripDays(req)
	dayCost := float64(req.Budget) / float64(numDays)
	slotCost := dayCost / float64(len(dailyTemplate))

	it := &models.Itinerary{
		ID:          g.newID(),
		Title:       fmt.Sprintf("%d-Day %s Trip", numDays, req.Destination),
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalDays:   numDays,
		TotalBudget: req.Budget,
		ActualCost:  dayCost * float64(numDays),
		Travelers:   req.Travelers,
		TravelStyle: req.TravelStyle,
		Summary: fmt.Sprintf("A %d-day visit to %s balancing sights, food and downtime.",
			numDays, req.Destination),
		Recommendations: []string{
			fmt.Sprintf("Book %s accommodation early for better rates.", req.Destination),
			"Keep one afternoon unplanned for spontaneous finds.",
			"Check local opening hours the evening before each day.",
		},
		Status: models.StatusDraft,
		Days:   make([]models.Day, 0, numDays),
	}

	for d := 1; d <= numDays; d++ {
		day := models.Day{
			Day:       d,
			Date:      req.StartDate.AddDate(0, 0, d-1),
			TotalCost: dayCost,
			Summary:   fmt.Sprintf("Day %d in %s", d, req.Destination),
			Stops:     make([]models.Stop, 0, len(dailyTemplate)),
		}
		for sIdx, slot := range dailyTemplate {
			day.Stops = append(day.Stops, models.Stop{
				ID:       fmt.Sprintf("stop-%d-%d", d, sIdx+1),
				Day:      d,
				Time:     slot.time,
				Title:    fmt.Sprintf("%s in %s (day %d)", slot.title, req.Destination, d),
				Location: req.Destination,
				Category: slot.category,
				Duration: slot.duration,
				Cost:     slotCost,
			})
		}
		it.Days = append(it.Days, day)
	}

	g.logger.Debug("Generated mock itinerary",
		zap.String("destination", req.Destination),
		zap.Int("days", numDays),
	)
	return it, nil
}
