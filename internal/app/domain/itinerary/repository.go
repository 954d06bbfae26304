package itinerary

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/observability/metrics"
)

// backend is one physical persistence implementation behind the facade.
type backend interface {
	List(ctx context.Context, userID string, filter models.ItineraryFilter) (*models.ItineraryPage, error)
	GetByID(ctx context.Context, id, userID string) (*models.Itinerary, error)
	Save(ctx context.Context, it *models.Itinerary, userID string) (*models.Itinerary, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
	All(ctx context.Context, userID string) ([]models.Itinerary, error)
}

// DuplicateOverrides are the caller-supplied field replacements applied to a
// duplicated itinerary.
type DuplicateOverrides struct {
	Title       *string  `json:"title,omitempty"`
	Destination *string  `json:"destination,omitempty"`
	IsPublic    *bool    `json:"is_public,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Repository is the single entry point for itinerary persistence. Callers
// never learn which physical backend served them.
type Repository interface {
	List(ctx context.Context, userID string, filter models.ItineraryFilter) (*models.ItineraryPage, error)
	GetByID(ctx context.Context, id, userID string) (*models.Itinerary, error)
	Save(ctx context.Context, it *models.Itinerary, userID string) (*models.Itinerary, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
	Duplicate(ctx context.Context, id, userID string, overrides DuplicateOverrides) (*models.Itinerary, error)
	Stats(ctx context.Context, userID string) (*models.ItineraryStats, error)
}

var _ Repository = (*RepositoryImpl)(nil)

// RepositoryImpl dispatches each call to the remote backend when one is
// configured and the caller is authenticated, and to the local backend
// otherwise. A remote failure that means "schema missing" (SQLSTATE 42P01) is
// silently retried against the local backend; every other remote failure
// propagates unchanged.
type RepositoryImpl struct {
	remote backend // nil when no remote store is configured
	local  backend
	logger *zap.Logger
	now    func() time.Time
}

func NewRepository(remote, local backend, logger *zap.Logger) *RepositoryImpl {
	r := &RepositoryImpl{
		remote: remote,
		local:  local,
		logger: logger,
		now:    time.Now,
	}
	// A typed-nil *PostgresRepository must behave like "no remote".
	if pg, ok := remote.(*PostgresRepository); ok && pg == nil {
		r.remote = nil
	}
	return r
}

// useRemote reports whether the remote backend serves this call.
func (r *RepositoryImpl) useRemote(userID string) bool {
	return r.remote != nil && userID != ""
}

// fallback logs the degrade and marks the call as served locally.
func (r *RepositoryImpl) fallback(ctx context.Context, op string, err error) {
	r.logger.Warn("Remote schema missing, falling back to local storage",
		zap.String("operation", op),
		zap.Error(err),
	)
	metrics.Get().StorageFallbacksTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.String("operation", op)))
}

func (r *RepositoryImpl) List(ctx context.Context, userID string, filter models.ItineraryFilter) (*models.ItineraryPage, error) {
	if r.useRemote(userID) {
		page, err := r.remote.List(ctx, userID, filter)
		if err == nil {
			return page, nil
		}
		if !isUndefinedTable(err) {
			return nil, err
		}
		r.fallback(ctx, "list", err)
	}
	return r.local.List(ctx, userID, filter)
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id, userID string) (*models.Itinerary, error) {
	if r.useRemote(userID) {
		it, err := r.remote.GetByID(ctx, id, userID)
		if err == nil {
			return it, nil
		}
		if !isUndefinedTable(err) {
			return nil, err
		}
		r.fallback(ctx, "get", err)
	}
	return r.local.GetByID(ctx, id, userID)
}

func (r *RepositoryImpl) Save(ctx context.Context, it *models.Itinerary, userID string) (*models.Itinerary, error) {
	if it.ID == "" {
		it.ID = NewID()
	}
	if r.useRemote(userID) {
		saved, err := r.remote.Save(ctx, it, userID)
		if err == nil {
			return saved, nil
		}
		if !isUndefinedTable(err) {
			return nil, err
		}
		r.fallback(ctx, "save", err)
	}
	return r.local.Save(ctx, it, userID)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id, userID string) (bool, error) {
	if r.useRemote(userID) {
		deleted, err := r.remote.Delete(ctx, id, userID)
		if err == nil {
			return deleted, nil
		}
		if !isUndefinedTable(err) {
			return false, err
		}
		r.fallback(ctx, "delete", err)
	}
	return r.local.Delete(ctx, id, userID)
}

// Duplicate copies an existing itinerary under a fresh id with status reset to
// draft and timestamps reset, then persists it. Returns nil when the source
// does not exist.
func (r *RepositoryImpl) Duplicate(ctx context.Context, id, userID string, overrides DuplicateOverrides) (*models.Itinerary, error) {
	source, err := r.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, nil
	}

	dup := source.Clone()
	dup.ID = NewID()
	dup.Status = models.StatusDraft
	dup.CreatedAt = time.Time{}
	dup.UpdatedAt = nil
	if overrides.Title != nil {
		dup.Title = *overrides.Title
	}
	if overrides.Destination != nil {
		dup.Destination = *overrides.Destination
	}
	if overrides.IsPublic != nil {
		dup.IsPublic = *overrides.IsPublic
	}
	if overrides.Tags != nil {
		dup.Tags = append([]string(nil), overrides.Tags...)
	}

	return r.Save(ctx, &dup, userID)
}

// Stats scans the full collection; there is no incremental materialization.
func (r *RepositoryImpl) Stats(ctx context.Context, userID string) (*models.ItineraryStats, error) {
	var (
		items []models.Itinerary
		err   error
	)
	if r.useRemote(userID) {
		items, err = r.remote.All(ctx, userID)
		if err != nil {
			if !isUndefinedTable(err) {
				return nil, err
			}
			r.fallback(ctx, "stats", err)
			items, err = r.local.All(ctx, userID)
		}
	} else {
		items, err = r.local.All(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return computeStats(items), nil
}

// NewID returns a fresh globally-unique itinerary identifier.
func NewID() string {
	return "it-" + uuid.NewString()
}
