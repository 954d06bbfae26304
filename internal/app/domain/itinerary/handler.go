package itinerary

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/middleware"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/observability/metrics"
)

type Handler struct {
	service Service
	log     *zap.Logger
}

func NewHandler(service Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

// List returns one page of the caller's itineraries.
func (h *Handler) List(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := h.service.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.log.Error("Failed to list itineraries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list itineraries"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get returns a single itinerary by id.
func (h *Handler) Get(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	id := c.Param("id")

	it, err := h.service.Get(c.Request.Context(), id, userID)
	if err != nil {
		h.log.Error("Failed to get itinerary", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load itinerary"})
		return
	}
	if it == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
		return
	}

	c.JSON(http.StatusOK, it)
}

// Save upserts an itinerary from the request body.
func (h *Handler) Save(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	var it models.Itinerary
	if err := c.ShouldBindJSON(&it); err != nil {
		h.log.Error("Failed to parse itinerary body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	saved, err := h.service.Save(c.Request.Context(), &it, userID)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("Failed to save itinerary", zap.String("id", it.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save itinerary"})
		return
	}

	metrics.Get().ItinerariesSavedTotal.Add(c.Request.Context(), 1)
	c.JSON(http.StatusOK, saved)
}

// Delete removes an itinerary by id.
func (h *Handler) Delete(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	id := c.Param("id")

	deleted, err := h.service.Delete(c.Request.Context(), id, userID)
	if err != nil {
		h.log.Error("Failed to delete itinerary", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete itinerary"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
		return
	}

	metrics.Get().ItinerariesDeletedTotal.Add(c.Request.Context(), 1)
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// Duplicate clones an existing itinerary with optional field overrides.
func (h *Handler) Duplicate(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	id := c.Param("id")

	var overrides DuplicateOverrides
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&overrides); err != nil {
			h.log.Error("Failed to parse duplicate overrides", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	dup, err := h.service.Duplicate(c.Request.Context(), id, userID, overrides)
	if err != nil {
		h.log.Error("Failed to duplicate itinerary", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to duplicate itinerary"})
		return
	}
	if dup == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
		return
	}

	c.JSON(http.StatusCreated, dup)
}

// Stats returns the aggregate view over the caller's collection.
func (h *Handler) Stats(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)

	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("Failed to compute stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Markers returns the map points for one itinerary.
func (h *Handler) Markers(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	id := c.Param("id")

	markers, err := h.service.Markers(c.Request.Context(), id, userID)
	if err != nil {
		h.log.Error("Failed to build markers", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build markers"})
		return
	}
	if markers == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Itinerary not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"markers": markers})
}

// Current returns the itinerary held in the current-itinerary slot.
func (h *Handler) Current(c *gin.Context) {
	it, err := h.service.Current(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to read current itinerary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read current itinerary"})
		return
	}
	if it == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No current itinerary"})
		return
	}

	c.JSON(http.StatusOK, it)
}

// SetCurrent stores an itinerary in the current-itinerary slot.
func (h *Handler) SetCurrent(c *gin.Context) {
	var it models.Itinerary
	if err := c.ShouldBindJSON(&it); err != nil {
		h.log.Error("Failed to parse itinerary body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.service.SetCurrent(c.Request.Context(), &it); err != nil {
		if errors.Is(err, models.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("Failed to set current itinerary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set current itinerary"})
		return
	}

	c.Status(http.StatusNoContent)
}

// parseFilter builds the listing filter from query parameters.
func parseFilter(c *gin.Context) (models.ItineraryFilter, error) {
	f := models.ItineraryFilter{
		Search:      c.Query("search"),
		Destination: c.Query("destination"),
		Status:      models.ItineraryStatus(c.Query("status")),
		SortBy:      models.SortField(c.Query("sort_by")),
		SortOrder:   models.SortOrder(c.Query("sort_order")),
	}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, errors.New("invalid page")
		}
		f.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, errors.New("invalid limit")
		}
		f.Limit = n
	}
	if v := c.Query("budget_min"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, errors.New("invalid budget_min")
		}
		f.BudgetMin = &n
	}
	if v := c.Query("budget_max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, errors.New("invalid budget_max")
		}
		f.BudgetMax = &n
	}
	if v := c.Query("date_from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, errors.New("invalid date_from")
		}
		f.DateFrom = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, errors.New("invalid date_to")
		}
		f.DateTo = &t
	}
	if v := c.Query("tags"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}

	return f, nil
}
