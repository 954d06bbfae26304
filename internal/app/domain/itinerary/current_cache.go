package itinerary

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/pkg/storage"
)

// CurrentCache is the single-slot "currently viewed" itinerary, persisted
// under its own storage key. It is a convenience cache independent of the
// queryable collection: the detail view reads it as a fallback when a direct
// lookup by id misses.
type CurrentCache struct {
	store  storage.Store
	logger *zap.Logger
}

func NewCurrentCache(store storage.Store, logger *zap.Logger) *CurrentCache {
	return &CurrentCache{store: store, logger: logger}
}

// Get returns the cached itinerary, or nil when the slot is empty or corrupt.
func (c *CurrentCache) Get() (*models.Itinerary, error) {
	data, ok, err := c.store.Get(currentKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read current itinerary: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var it models.Itinerary
	if err := json.Unmarshal(data, &it); err != nil {
		c.logger.Warn("Current itinerary slot is corrupt, clearing", zap.Error(err))
		if delErr := c.store.Delete(currentKey); delErr != nil {
			c.logger.Warn("Failed to clear corrupt slot", zap.Error(delErr))
		}
		return nil, nil
	}
	return &it, nil
}

// Set replaces the slot content.
func (c *CurrentCache) Set(it *models.Itinerary) error {
	data, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("failed to serialize current itinerary: %w", err)
	}
	if err := c.store.Set(currentKey, data); err != nil {
		return fmt.Errorf("failed to write current itinerary: %w", err)
	}
	return nil
}

// Clear empties the slot.
func (c *CurrentCache) Clear() error {
	return c.store.Delete(currentKey)
}
