package planner

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/observability/metrics"
)

type Handler struct {
	generator Generator
	log       *zap.Logger
}

func NewHandler(generator Generator, log *zap.Logger) *Handler {
	return &Handler{
		generator: generator,
		log:       log,
	}
}

// generateRequest is the wire form of a trip requirements record. Dates are
// accepted as "2006-01-02" or RFC3339.
type generateRequest struct {
	Destination    string   `json:"destination"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	Budget         int      `json:"budget"`
	Travelers      int      `json:"travelers"`
	TravelStyle    string   `json:"travel_style"`
	Preferences    string   `json:"preferences"`
	Transportation string   `json:"transportation"`
	Accommodation  string   `json:"accommodation"`
	Interests      []string `json:"interests"`
}

// Generate produces a complete itinerary from a requirements record. The
// result is returned to the caller unsaved.
func (h *Handler) Generate(c *gin.Context) {
	var body generateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.log.Error("Failed to parse generation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	req, err := body.toTripRequest()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m := metrics.Get()
	m.GenerationRequestsTotal.Add(c.Request.Context(), 1)

	start := time.Now()
	it, err := h.generator.Generate(c.Request.Context(), req)
	m.GenerationDuration.Record(c.Request.Context(), time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("Itinerary generation failed",
			zap.String("destination", req.Destination),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Itinerary generation failed"})
		return
	}

	c.JSON(http.StatusOK, it)
}

func (b generateRequest) toTripRequest() (models.TripRequest, error) {
	start, err := parseDate(b.StartDate)
	if err != nil {
		return models.TripRequest{}, errors.New("invalid start_date")
	}
	end, err := parseDate(b.EndDate)
	if err != nil {
		return models.TripRequest{}, errors.New("invalid end_date")
	}
	return models.TripRequest{
		Destination:    b.Destination,
		StartDate:      start,
		EndDate:        end,
		Budget:         b.Budget,
		Travelers:      b.Travelers,
		TravelStyle:    b.TravelStyle,
		Preferences:    b.Preferences,
		Transportation: b.Transportation,
		Accommodation:  b.Accommodation,
		Interests:      b.Interests,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
