package itinerary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/domain/geocode"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/pkg/storage"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) List(ctx context.Context, userID string, filter models.ItineraryFilter) (*models.ItineraryPage, error) {
	args := m.Called(ctx, userID, filter)
	if page := args.Get(0); page != nil {
		return page.(*models.ItineraryPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id, userID string) (*models.Itinerary, error) {
	args := m.Called(ctx, id, userID)
	if it := args.Get(0); it != nil {
		return it.(*models.Itinerary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Save(ctx context.Context, it *models.Itinerary, userID string) (*models.Itinerary, error) {
	args := m.Called(ctx, it, userID)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.Itinerary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id, userID string) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) Duplicate(ctx context.Context, id, userID string, overrides DuplicateOverrides) (*models.Itinerary, error) {
	args := m.Called(ctx, id, userID, overrides)
	if dup := args.Get(0); dup != nil {
		return dup.(*models.Itinerary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Stats(ctx context.Context, userID string) (*models.ItineraryStats, error) {
	args := m.Called(ctx, userID)
	if stats := args.Get(0); stats != nil {
		return stats.(*models.ItineraryStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestService(repo Repository) (*ServiceImpl, *CurrentCache) {
	current := NewCurrentCache(storage.NewMemoryStore(), zap.NewNop())
	svc := NewService(repo, current, geocode.NewResolver(zap.NewNop()), zap.NewNop())
	return svc, current
}

func TestServiceGetFallsBackToCurrentSlot(t *testing.T) {
	repo := new(mockRepository)
	svc, current := newTestService(repo)
	ctx := context.Background()

	require.NoError(t, current.Set(&models.Itinerary{ID: "it-1", Title: "From Slot"}))
	repo.On("GetByID", ctx, "it-1", "user-1").Return(nil, nil)

	got, err := svc.Get(ctx, "it-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "From Slot", got.Title)

	// A different id does not match the slot.
	repo.On("GetByID", ctx, "it-2", "user-1").Return(nil, nil)
	got, err = svc.Get(ctx, "it-2", "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	repo.AssertExpectations(t)
}

func TestServiceStatsAreCached(t *testing.T) {
	repo := new(mockRepository)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	repo.On("Stats", ctx, "user-1").Return(&models.ItineraryStats{TotalCount: 3}, nil).Once()

	first, err := svc.Stats(ctx, "user-1")
	require.NoError(t, err)
	second, err := svc.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
}

func TestServiceSaveInvalidatesStatsCache(t *testing.T) {
	repo := new(mockRepository)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	repo.On("Stats", ctx, "user-1").Return(&models.ItineraryStats{TotalCount: 1}, nil).Once()
	_, err := svc.Stats(ctx, "user-1")
	require.NoError(t, err)

	it := &models.Itinerary{ID: "it-1"}
	repo.On("Save", ctx, it, "user-1").Return(it, nil)
	_, err = svc.Save(ctx, it, "user-1")
	require.NoError(t, err)

	repo.On("Stats", ctx, "user-1").Return(&models.ItineraryStats{TotalCount: 2}, nil).Once()
	stats, err := svc.Stats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCount)
	repo.AssertExpectations(t)
}

func TestServiceDeleteClearsMatchingCurrentSlot(t *testing.T) {
	repo := new(mockRepository)
	svc, current := newTestService(repo)
	ctx := context.Background()

	require.NoError(t, current.Set(&models.Itinerary{ID: "it-1"}))
	repo.On("Delete", ctx, "it-1", "user-1").Return(true, nil)

	deleted, err := svc.Delete(ctx, "it-1", "user-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	slot, err := current.Get()
	require.NoError(t, err)
	assert.Nil(t, slot)
	repo.AssertExpectations(t)
}

func TestServiceDeleteKeepsUnrelatedCurrentSlot(t *testing.T) {
	repo := new(mockRepository)
	svc, current := newTestService(repo)
	ctx := context.Background()

	require.NoError(t, current.Set(&models.Itinerary{ID: "it-other"}))
	repo.On("Delete", ctx, "it-1", "user-1").Return(true, nil)

	_, err := svc.Delete(ctx, "it-1", "user-1")
	require.NoError(t, err)

	slot, err := current.Get()
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, "it-other", slot.ID)
	repo.AssertExpectations(t)
}

func TestServiceMarkersResolveMissingCoordinates(t *testing.T) {
	repo := new(mockRepository)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	precise := models.Coordinates{Longitude: 121.4905, Latitude: 31.2397}
	it := &models.Itinerary{
		ID:          "it-1",
		Destination: "Shanghai",
		Days: []models.Day{{
			Day: 1,
			Stops: []models.Stop{
				{ID: "stop-1-1", Title: "The Bund", Location: "The Bund", Coordinates: &precise},
				{ID: "stop-1-2", Title: "Dinner", Location: "some noodle place"},
			},
		}},
	}
	repo.On("GetByID", ctx, "it-1", "user-1").Return(it, nil)

	markers, err := svc.Markers(ctx, "it-1", "user-1")
	require.NoError(t, err)
	require.Len(t, markers, 2)

	assert.Equal(t, precise, markers[0].Coordinates)
	assert.Equal(t, 1, markers[0].Day)

	// The unknown stop resolves near the destination's city center.
	assert.InDelta(t, 121.4737, markers[1].Coordinates.Longitude, 0.05)
	assert.InDelta(t, 31.2304, markers[1].Coordinates.Latitude, 0.05)
	repo.AssertExpectations(t)
}

func TestServiceMarkersMissingItinerary(t *testing.T) {
	repo := new(mockRepository)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "it-404", "user-1").Return(nil, nil)

	markers, err := svc.Markers(ctx, "it-404", "user-1")
	require.NoError(t, err)
	assert.Nil(t, markers)
	repo.AssertExpectations(t)
}

func TestServiceSetCurrentValidates(t *testing.T) {
	repo := new(mockRepository)
	svc, _ := newTestService(repo)
	ctx := context.Background()

	err := svc.SetCurrent(ctx, &models.Itinerary{})
	assert.ErrorIs(t, err, models.ErrValidation)

	require.NoError(t, svc.SetCurrent(ctx, &models.Itinerary{ID: "it-1"}))
	got, err := svc.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "it-1", got.ID)
}
