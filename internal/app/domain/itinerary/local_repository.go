package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/pkg/storage"
)

// Storage keys. The collection key holds the full queryable itinerary list;
// the current key holds the independent "currently viewed" slot.
const (
	collectionKey = "travel_itineraries"
	currentKey    = "current_itinerary"
)

var _ backend = (*LocalRepository)(nil)

// LocalRepository persists the whole itinerary collection as one serialized
// value in a key-value store. Every mutation is a read-modify-write of the
// full collection; concurrent writers from other processes are
// last-writer-wins by design.
type LocalRepository struct {
	store  storage.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewLocalRepository(store storage.Store, logger *zap.Logger) *LocalRepository {
	return &LocalRepository{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// loadCollection reads the full collection. A missing key is an empty
// collection; an unparseable value is logged and also treated as empty, never
// surfaced to the caller.
func (r *LocalRepository) loadCollection() ([]models.Itinerary, error) {
	data, ok, err := r.store.Get(collectionKey)
	if err != nil {
		r.logger.Error("Failed to read itinerary collection", zap.Error(err))
		return nil, fmt.Errorf("failed to read itinerary collection: %w", err)
	}
	if !ok {
		return []models.Itinerary{}, nil
	}

	var items []models.Itinerary
	if err := json.Unmarshal(data, &items); err != nil {
		r.logger.Warn("Itinerary collection is corrupt, treating as empty", zap.Error(err))
		return []models.Itinerary{}, nil
	}
	return items, nil
}

func (r *LocalRepository) saveCollection(items []models.Itinerary) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize itinerary collection: %w", err)
	}
	if err := r.store.Set(collectionKey, data); err != nil {
		r.logger.Error("Failed to write itinerary collection", zap.Error(err))
		return fmt.Errorf("failed to write itinerary collection: %w", err)
	}
	return nil
}

func (r *LocalRepository) List(ctx context.Context, userID string, filter models.ItineraryFilter) (*models.ItineraryPage, error) {
	filter.Normalize()

	items, err := r.loadCollection()
	if err != nil {
		return nil, err
	}

	matched := make([]models.Itinerary, 0, len(items))
	for _, it := range items {
		if matchesFilter(it, filter) {
			matched = append(matched, it)
		}
	}
	sortItineraries(matched, filter)

	return &models.ItineraryPage{
		Total: len(matched),
		Items: paginate(matched, filter.Page, filter.Limit),
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (r *LocalRepository) GetByID(ctx context.Context, id, userID string) (*models.Itinerary, error) {
	items, err := r.loadCollection()
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID == id {
			found := it.Clone()
			return &found, nil
		}
	}
	return nil, nil
}

// Save upserts by id. UpdatedAt is stamped on every save; CreatedAt only when
// it is still zero.
func (r *LocalRepository) Save(ctx context.Context, it *models.Itinerary, userID string) (*models.Itinerary, error) {
	items, err := r.loadCollection()
	if err != nil {
		return nil, err
	}

	entity := it.Clone()
	now := r.now()
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = now
	}
	stamped := now
	entity.UpdatedAt = &stamped
	if entity.Status == "" {
		entity.Status = models.StatusDraft
	}

	replaced := false
	for i := range items {
		if items[i].ID == entity.ID {
			items[i] = entity
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, entity)
	}

	if err := r.saveCollection(items); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *LocalRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	items, err := r.loadCollection()
	if err != nil {
		return false, err
	}

	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	if err := r.saveCollection(kept); err != nil {
		return false, err
	}
	return true, nil
}

func (r *LocalRepository) All(ctx context.Context, userID string) ([]models.Itinerary, error) {
	return r.loadCollection()
}
