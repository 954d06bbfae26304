package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/domain/geocode"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/domain/itinerary"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/domain/planner"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/pkg/config"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/pkg/storage"
)

// Setup wires the repositories, services and handlers and registers every
// route on the router. A nil pool means the service runs on local storage
// only.
func Setup(r *gin.Engine, pool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) error {
	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		return err
	}

	local := itinerary.NewLocalRepository(store, logger)
	var remote *itinerary.PostgresRepository
	if pool != nil {
		remote = itinerary.NewPostgresRepository(pool, logger)
	}
	repo := itinerary.NewRepository(remote, local, logger)

	current := itinerary.NewCurrentCache(store, logger)
	resolver := geocode.NewResolver(logger)
	service := itinerary.NewService(repo, current, resolver, logger)
	itineraryHandler := itinerary.NewHandler(service, logger)

	generator := newGenerator(cfg, logger)
	plannerHandler := planner.NewHandler(generator, logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"storage": storageMode(pool),
		})
	})

	api := r.Group("/api/v1")
	{
		itineraries := api.Group("/itineraries")
		{
			itineraries.GET("", itineraryHandler.List)
			itineraries.POST("", itineraryHandler.Save)
			itineraries.GET("/stats", itineraryHandler.Stats)
			itineraries.GET("/current", itineraryHandler.Current)
			itineraries.PUT("/current", itineraryHandler.SetCurrent)
			itineraries.POST("/generate", plannerHandler.Generate)
			itineraries.GET("/:id", itineraryHandler.Get)
			itineraries.DELETE("/:id", itineraryHandler.Delete)
			itineraries.POST("/:id/duplicate", itineraryHandler.Duplicate)
			itineraries.GET("/:id/markers", itineraryHandler.Markers)
		}
	}

	return nil
}

// newGenerator picks the Gemini generator when an API key is configured and
// the deterministic mock otherwise.
func newGenerator(cfg *config.Config, logger *zap.Logger) planner.Generator {
	if cfg.Gemini.APIKey != "" {
		gen, err := planner.NewGeminiGenerator(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
		if err == nil {
			return gen
		}
		logger.Warn("Failed to create Gemini generator, using mock", zap.Error(err))
	} else {
		logger.Info("No Gemini API key configured, using mock generator")
	}
	return planner.NewMockGenerator(logger)
}

func storageMode(pool *pgxpool.Pool) string {
	if pool != nil {
		return "remote"
	}
	return "local"
}
