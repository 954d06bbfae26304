package itinerary

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/domain/geocode"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// Service is the business-logic surface the handlers consume.
type Service interface {
	List(ctx context.Context, userID string, filter models.ItineraryFilter) (*models.ItineraryPage, error)
	Get(ctx context.Context, id, userID string) (*models.Itinerary, error)
	Save(ctx context.Context, it *models.Itinerary, userID string) (*models.Itinerary, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
	Duplicate(ctx context.Context, id, userID string, overrides DuplicateOverrides) (*models.Itinerary, error)
	Stats(ctx context.Context, userID string) (*models.ItineraryStats, error)
	Markers(ctx context.Context, id, userID string) ([]models.Marker, error)
	Current(ctx context.Context) (*models.Itinerary, error)
	SetCurrent(ctx context.Context, it *models.Itinerary) error
}

type ServiceImpl struct {
	repo     Repository
	current  *CurrentCache
	resolver *geocode.Resolver
	cache    *cache.Cache
	logger   *zap.Logger
}

func NewService(repo Repository, current *CurrentCache, resolver *geocode.Resolver, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:     repo,
		current:  current,
		resolver: resolver,
		cache:    cache.New(2*time.Minute, 5*time.Minute),
		logger:   logger,
	}
}

func (s *ServiceImpl) List(ctx context.Context, userID string, filter models.ItineraryFilter) (*models.ItineraryPage, error) {
	page, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		s.logger.Error("Failed to list itineraries", zap.Error(err))
		return nil, err
	}
	return page, nil
}

// Get returns the itinerary by id, consulting the current-itinerary slot as a
// fallback when the direct lookup misses.
func (s *ServiceImpl) Get(ctx context.Context, id, userID string) (*models.Itinerary, error) {
	it, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		s.logger.Error("Failed to get itinerary", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if it != nil {
		return it, nil
	}

	cached, err := s.current.Get()
	if err != nil {
		return nil, err
	}
	if cached != nil && cached.ID == id {
		return cached, nil
	}
	return nil, nil
}

func (s *ServiceImpl) Save(ctx context.Context, it *models.Itinerary, userID string) (*models.Itinerary, error) {
	saved, err := s.repo.Save(ctx, it, userID)
	if err != nil {
		s.logger.Error("Failed to save itinerary", zap.String("id", it.ID), zap.Error(err))
		return nil, err
	}
	s.cache.Delete(statsCacheKey(userID))
	return saved, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id, userID string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		s.logger.Error("Failed to delete itinerary", zap.String("id", id), zap.Error(err))
		return false, err
	}
	if deleted {
		s.cache.Delete(statsCacheKey(userID))
		// Drop a stale slot pointing at the removed entity.
		if cached, cerr := s.current.Get(); cerr == nil && cached != nil && cached.ID == id {
			if err := s.current.Clear(); err != nil {
				s.logger.Warn("Failed to clear current itinerary slot", zap.Error(err))
			}
		}
	}
	return deleted, nil
}

func (s *ServiceImpl) Duplicate(ctx context.Context, id, userID string, overrides DuplicateOverrides) (*models.Itinerary, error) {
	dup, err := s.repo.Duplicate(ctx, id, userID, overrides)
	if err != nil {
		s.logger.Error("Failed to duplicate itinerary", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if dup != nil {
		s.cache.Delete(statsCacheKey(userID))
	}
	return dup, nil
}

func (s *ServiceImpl) Stats(ctx context.Context, userID string) (*models.ItineraryStats, error) {
	key := statsCacheKey(userID)
	if v, ok := s.cache.Get(key); ok {
		return v.(*models.ItineraryStats), nil
	}
	stats, err := s.repo.Stats(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to compute itinerary stats", zap.Error(err))
		return nil, err
	}
	s.cache.SetDefault(key, stats)
	return stats, nil
}

// Markers builds the ordered map-point list for one itinerary. Stops without
// precise coordinates go through the resolver; anything still out of range is
// dropped and logged rather than handed to the map.
func (s *ServiceImpl) Markers(ctx context.Context, id, userID string) ([]models.Marker, error) {
	it, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, nil
	}

	base := s.resolver.ResolveArea(it.Destination)
	markers := make([]models.Marker, 0)
	for _, day := range it.Days {
		for _, stop := range day.Stops {
			coords := models.Coordinates{}
			if stop.Coordinates != nil && stop.Coordinates.Valid() {
				coords = *stop.Coordinates
			} else {
				coords = s.resolver.Resolve(stop.Location, it.Destination, &base)
			}
			if !coords.Valid() {
				s.logger.Warn("Dropping marker with out-of-range coordinates",
					zap.String("itinerary_id", it.ID),
					zap.String("stop_id", stop.ID),
					zap.Float64("longitude", coords.Longitude),
					zap.Float64("latitude", coords.Latitude),
				)
				continue
			}
			markers = append(markers, models.Marker{
				ID:          stop.ID,
				Name:        stop.Title,
				Coordinates: coords,
				Category:    stop.Category,
				Day:         day.Day,
			})
		}
	}
	return markers, nil
}

func (s *ServiceImpl) Current(ctx context.Context) (*models.Itinerary, error) {
	return s.current.Get()
}

func (s *ServiceImpl) SetCurrent(ctx context.Context, it *models.Itinerary) error {
	if it == nil || it.ID == "" {
		return fmt.Errorf("%w: current itinerary requires an id", models.ErrValidation)
	}
	return s.current.Set(it)
}

func statsCacheKey(userID string) string {
	if userID == "" {
		return "stats:anonymous"
	}
	return "stats:" + userID
}
