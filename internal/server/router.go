package server

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/middleware"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/pkg/config"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/routes"
)

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(dbPool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("travel-planner"))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityMiddleware())
	r.Use(middleware.OptionalAuthMiddleware(cfg.JWTSecret, logger))

	if err := routes.Setup(r, dbPool, cfg, logger); err != nil {
		return nil, err
	}

	return r, nil
}
