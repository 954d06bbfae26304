package geocode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
)

func TestResolveKnownLandmark(t *testing.T) {
	r := NewResolver(zap.NewNop())

	got := r.Resolve("The Bund", "Shanghai", nil)
	assert.InDelta(t, 121.4905, got.Longitude, 1e-6)
	assert.InDelta(t, 31.2397, got.Latitude, 1e-6)
}

func TestResolveLandmarkSubstring(t *testing.T) {
	r := NewResolver(zap.NewNop())

	// "Visit the Eiffel Tower at sunset" contains a known landmark name.
	got := r.Resolve("visit the eiffel tower at sunset", "Paris", nil)
	assert.InDelta(t, 2.2945, got.Longitude, 1e-6)
	assert.InDelta(t, 48.8584, got.Latitude, 1e-6)
}

func TestResolveUnknownLabelIsDeterministic(t *testing.T) {
	r := NewResolver(zap.NewNop())

	first := r.Resolve("some tiny noodle shop", "Beijing", nil)
	second := r.Resolve("some tiny noodle shop", "Beijing", nil)
	assert.Equal(t, first, second)

	// The offset stays within the configured bound around the city center.
	center := cityCenters["beijing"]
	assert.InDelta(t, center.Longitude, first.Longitude, maxOffsetDeg)
	assert.InDelta(t, center.Latitude, first.Latitude, maxOffsetDeg)
	assert.True(t, first.Valid())
}

func TestResolveAmbiguousSubstringIsStable(t *testing.T) {
	r := NewResolver(zap.NewNop())

	// "palace" is contained in more than one landmark name. The winner must
	// not depend on map iteration order: longest name, ties alphabetical.
	first := r.Resolve("palace", "Beijing", nil)
	for i := 0; i < 200; i++ {
		assert.Equal(t, first, r.Resolve("palace", "Beijing", nil))
	}
	assert.Equal(t, landmarks["potala palace"], first)

	// Same rule on the city-center table: "an" hits several city names.
	area := r.ResolveArea("an")
	for i := 0; i < 200; i++ {
		assert.Equal(t, area, r.ResolveArea("an"))
	}
}

func TestResolveDifferentLabelsSpread(t *testing.T) {
	r := NewResolver(zap.NewNop())

	a := r.Resolve("alley cafe", "Beijing", nil)
	b := r.Resolve("rooftop bar", "Beijing", nil)
	assert.NotEqual(t, a, b)
}

func TestResolvePrefersProvidedBase(t *testing.T) {
	r := NewResolver(zap.NewNop())

	base := models.Coordinates{Longitude: 151.2093, Latitude: -33.8688}
	got := r.Resolve("unknown place", "nowhereville", &base)
	assert.InDelta(t, base.Longitude, got.Longitude, maxOffsetDeg)
	assert.InDelta(t, base.Latitude, got.Latitude, maxOffsetDeg)
}

func TestResolveAreaFallsBackToDefault(t *testing.T) {
	r := NewResolver(zap.NewNop())

	assert.Equal(t, cityCenters["tokyo"], r.ResolveArea("Tokyo"))
	assert.Equal(t, defaultCenter, r.ResolveArea("atlantis"))
	assert.Equal(t, defaultCenter, r.ResolveArea(""))
}

func TestResolveResultAlwaysInRange(t *testing.T) {
	r := NewResolver(zap.NewNop())

	labels := []string{"a", "b", "c", "night market", "hidden temple", "harbor cruise"}
	for _, label := range labels {
		got := r.Resolve(label, "Sydney", nil)
		assert.GreaterOrEqual(t, got.Latitude, -90.0)
		assert.LessOrEqual(t, got.Latitude, 90.0)
		assert.GreaterOrEqual(t, got.Longitude, -180.0)
		assert.LessOrEqual(t, got.Longitude, 180.0)
	}
}
