package planner

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
)

func parseRequest() models.TripRequest {
	return models.TripRequest{
		Destination: "Rome",
		StartDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
		Budget:      2000,
		Travelers:   2,
	}
}

const sampleResponse = `{
  "title": "Roman Holiday",
  "summary": "Two days of ruins and pasta.",
  "recommendations": ["Validate metro tickets"],
  "days": [
    {
      "day": 1,
      "date": "2026-06-01",
      "total_cost": 900,
      "summary": "Ancient Rome",
      "stops": [
        {"time": "09:00", "title": "Colosseum", "location": "Colosseum",
         "category": "attraction", "duration": 180, "cost": 40}
      ]
    },
    {
      "day": 2,
      "date": "2026-06-02",
      "total_cost": 700,
      "summary": "Vatican",
      "stops": [
        {"time": "10:00", "title": "St Peter's", "location": "Vatican",
         "category": "SIGHTSEEING", "duration": 120, "cost": 0}
      ]
    }
  ]
}`

func TestParseItinerary(t *testing.T) {
	it, err := parseItinerary(sampleResponse, parseRequest())
	require.NoError(t, err)

	assert.Equal(t, "Roman Holiday", it.Title)
	assert.Equal(t, "Rome", it.Destination)
	assert.Equal(t, 2, it.TotalDays)
	assert.Equal(t, models.StatusDraft, it.Status)
	assert.True(t, strings.HasPrefix(it.ID, "it-"))
	assert.InDelta(t, 1600, it.ActualCost, 1e-9)

	require.Len(t, it.Days, 2)
	assert.Equal(t, "stop-1-1", it.Days[0].Stops[0].ID)
	assert.Equal(t, models.CategoryAttraction, it.Days[0].Stops[0].Category)
	// Unknown categories normalize to activity.
	assert.Equal(t, models.CategoryActivity, it.Days[1].Stops[0].Category)
}

func TestParseItineraryStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + sampleResponse + "\n```"
	it, err := parseItinerary(fenced, parseRequest())
	require.NoError(t, err)
	assert.Equal(t, "Roman Holiday", it.Title)
}

func TestParseItineraryBadDateFallsBackToStartDate(t *testing.T) {
	response := strings.ReplaceAll(sampleResponse, `"2026-06-02"`, `"next tuesday"`)
	it, err := parseItinerary(response, parseRequest())
	require.NoError(t, err)
	assert.Equal(t, parseRequest().StartDate.AddDate(0, 0, 1), it.Days[1].Date)
}

func TestParseItineraryRejectsNonConsecutiveDays(t *testing.T) {
	response := strings.ReplaceAll(sampleResponse, `"day": 2`, `"day": 5`)
	_, err := parseItinerary(response, parseRequest())
	assert.Error(t, err)
}

func TestParseItineraryRejectsGarbage(t *testing.T) {
	_, err := parseItinerary("the model had a bad day", parseRequest())
	assert.Error(t, err)

	_, err = parseItinerary(`{"title":"empty","days":[]}`, parseRequest())
	assert.Error(t, err)
}

func TestParseItineraryDefaultTitle(t *testing.T) {
	response := strings.ReplaceAll(sampleResponse, `"Roman Holiday"`, `""`)
	it, err := parseItinerary(response, parseRequest())
	require.NoError(t, err)
	assert.Equal(t, "Rome Trip", it.Title)
}

func TestBuildPromptIncludesConstraints(t *testing.T) {
	req := parseRequest()
	req.TravelStyle = "slow"
	req.Interests = []string{"food", "art"}

	prompt := buildPrompt(req)
	assert.Contains(t, prompt, "2-day trip to Rome")
	assert.Contains(t, prompt, "2026-06-01")
	assert.Contains(t, prompt, "slow")
	assert.Contains(t, prompt, "food, art")
	assert.Contains(t, prompt, `"category"`)
}

func TestTripDays(t *testing.T) {
	req := parseRequest()
	assert.Equal(t, 2, tripDays(req))

	req.EndDate = req.StartDate
	assert.Equal(t, 1, tripDays(req))
}
