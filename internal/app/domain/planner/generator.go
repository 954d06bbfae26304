package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/domain/itinerary"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
)

const defaultModel = "gemini-2.0-flash"

// Generator produces a complete itinerary for a requirements record, or a
// failure with a human-readable message. Implementations never persist.
type Generator interface {
	Generate(ctx context.Context, req models.TripRequest) (*models.Itinerary, error)
}

var _ Generator = (*GeminiGenerator)(nil)

// GeminiGenerator asks a Gemini model for a structured itinerary.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if model == "" {
		model = defaultModel
	}
	return &GeminiGenerator{client: client, model: model, logger: logger}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req models.TripRequest) (*models.Itinerary, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	prompt := buildPrompt(req)
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.7),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		g.logger.Error("Itinerary generation request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrGeneration, err)
	}

	it, err := parseItinerary(resp.Text(), req)
	if err != nil {
		g.logger.Error("Failed to parse generated itinerary", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrGeneration, err)
	}
	return it, nil
}

func validateRequest(req models.TripRequest) error {
	if req.Destination == "" {
		return fmt.Errorf("%w: destination is required", models.ErrValidation)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", models.ErrValidation)
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", models.ErrValidation)
	}
	return nil
}

// tripDays is the inclusive day span of the request.
func tripDays(req models.TripRequest) int {
	return int(req.EndDate.Sub(req.StartDate).Hours()/24) + 1
}

func buildPrompt(req models.TripRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan a %d-day trip to %s from %s to %s for %d traveler(s) with a total budget of %d.\n",
		tripDays(req), req.Destination,
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"),
		req.Travelers, req.Budget)
	if req.TravelStyle != "" {
		fmt.Fprintf(&b, "Travel style: %s.\n", req.TravelStyle)
	}
	if req.Transportation != "" {
		fmt.Fprintf(&b, "Preferred transportation: %s.\n", req.Transportation)
	}
	if req.Accommodation != "" {
		fmt.Fprintf(&b, "Preferred accommodation: %s.\n", req.Accommodation)
	}
	if len(req.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s.\n", strings.Join(req.Interests, ", "))
	}
	if req.Preferences != "" {
		fmt.Fprintf(&b, "Additional preferences: %s.\n", req.Preferences)
	}
	b.WriteString(`
Respond with a single JSON object, no markdown fences, using this schema:
{
  "title": string,
  "summary": string,
  "recommendations": [string],
  "days": [{
    "day": number (1-based, consecutive),
    "date": "YYYY-MM-DD",
    "total_cost": number,
    "summary": string,
    "stops": [{
      "time": "HH:MM",
      "title": string,
      "description": string,
      "location": string,
      "category": "attraction"|"restaurant"|"hotel"|"transport"|"activity",
      "duration": number (minutes),
      "cost": number,
      "notes": string
    }]
  }]
}`)
	return b.String()
}

// Payload shapes for the model response; calendar dates arrive as plain
// strings and are parsed during conversion.
type itineraryPayload struct {
	Title           string       `json:"title"`
	Summary         string       `json:"summary"`
	Recommendations []string     `json:"recommendations"`
	Days            []dayPayload `json:"days"`
}

type dayPayload struct {
	Day       int           `json:"day"`
	Date      string        `json:"date"`
	TotalCost float64       `json:"total_cost"`
	Summary   string        `json:"summary"`
	Stops     []stopPayload `json:"stops"`
}

type stopPayload struct {
	Time        string  `json:"time"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Category    string  `json:"category"`
	Duration    int     `json:"duration"`
	Cost        float64 `json:"cost"`
	Notes       string  `json:"notes"`
}

// cleanJSONResponse strips markdown code fences the model sometimes adds.
func cleanJSONResponse(response string) string {
	cleaned := strings.ReplaceAll(response, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

func parseItinerary(responseText string, req models.TripRequest) (*models.Itinerary, error) {
	var payload itineraryPayload
	if err := json.Unmarshal([]byte(cleanJSONResponse(responseText)), &payload); err != nil {
		return nil, fmt.Errorf("response is not valid itinerary JSON: %w", err)
	}
	if len(payload.Days) == 0 {
		return nil, fmt.Errorf("response contains no days")
	}

	it := &models.Itinerary{
		ID:              itinerary.NewID(),
		Title:           payload.Title,
		Destination:     req.Destination,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TotalDays:       len(payload.Days),
		TotalBudget:     req.Budget,
		Travelers:       req.Travelers,
		TravelStyle:     req.TravelStyle,
		Summary:         payload.Summary,
		Recommendations: payload.Recommendations,
		Status:          models.StatusDraft,
	}
	if it.Title == "" {
		it.Title = fmt.Sprintf("%s Trip", req.Destination)
	}

	var actual float64
	for i, dp := range payload.Days {
		if dp.Day != i+1 {
			return nil, fmt.Errorf("days are not consecutive from 1 (got %d at position %d)", dp.Day, i)
		}
		date, err := time.Parse("2006-01-02", dp.Date)
		if err != nil {
			date = req.StartDate.AddDate(0, 0, i)
		}
		day := models.Day{
			Day:       dp.Day,
			Date:      date,
			TotalCost: dp.TotalCost,
			Summary:   dp.Summary,
			Stops:     make([]models.Stop, 0, len(dp.Stops)),
		}
		for j, sp := range dp.Stops {
			day.Stops = append(day.Stops, models.Stop{
				ID:          fmt.Sprintf("stop-%d-%d", dp.Day, j+1),
				Day:         dp.Day,
				Time:        sp.Time,
				Title:       sp.Title,
				Description: sp.Description,
				Location:    sp.Location,
				Category:    normalizeCategory(sp.Category),
				Duration:    sp.Duration,
				Cost:        sp.Cost,
				Notes:       sp.Notes,
			})
		}
		actual += day.TotalCost
		it.Days = append(it.Days, day)
	}
	it.ActualCost = actual

	return it, nil
}

func normalizeCategory(c string) models.StopCategory {
	switch models.StopCategory(strings.ToLower(strings.TrimSpace(c))) {
	case models.CategoryAttraction, models.CategoryRestaurant, models.CategoryHotel,
		models.CategoryTransport, models.CategoryActivity:
		return models.StopCategory(strings.ToLower(strings.TrimSpace(c)))
	default:
		return models.CategoryActivity
	}
}
