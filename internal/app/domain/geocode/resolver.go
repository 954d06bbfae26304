package geocode

import (
	"hash/fnv"
	"strings"

	"go.uber.org/zap"

	"github.com/ShadowOnYOU/AI-travel-Planner-sub000/internal/app/models"
)

// maxOffsetDeg bounds the pseudo-random fallback offset to roughly three
// kilometres at mid latitudes.
const maxOffsetDeg = 0.03

// defaultCenter is used when neither the label nor the area matches anything.
var defaultCenter = models.Coordinates{Longitude: 116.3913, Latitude: 39.9075} // Beijing

// landmarks maps well-known place names to precise coordinates.
var landmarks = map[string]models.Coordinates{
	"forbidden city":        {Longitude: 116.3972, Latitude: 39.9169},
	"tiananmen square":      {Longitude: 116.3976, Latitude: 39.9055},
	"temple of heaven":      {Longitude: 116.4107, Latitude: 39.8822},
	"summer palace":         {Longitude: 116.2732, Latitude: 39.9999},
	"great wall":            {Longitude: 116.0170, Latitude: 40.3584},
	"mutianyu":              {Longitude: 116.5681, Latitude: 40.4319},
	"the bund":              {Longitude: 121.4905, Latitude: 31.2397},
	"oriental pearl tower":  {Longitude: 121.4998, Latitude: 31.2397},
	"yu garden":             {Longitude: 121.4920, Latitude: 31.2272},
	"west lake":             {Longitude: 120.1445, Latitude: 30.2438},
	"terracotta army":       {Longitude: 109.2786, Latitude: 34.3841},
	"big wild goose pagoda": {Longitude: 108.9644, Latitude: 34.2186},
	"li river":              {Longitude: 110.4573, Latitude: 25.0513},
	"potala palace":         {Longitude: 91.1171, Latitude: 29.6556},
	"victoria peak":         {Longitude: 114.1494, Latitude: 22.2759},
	"eiffel tower":          {Longitude: 2.2945, Latitude: 48.8584},
	"louvre":                {Longitude: 2.3376, Latitude: 48.8606},
	"colosseum":             {Longitude: 12.4924, Latitude: 41.8902},
	"statue of liberty":     {Longitude: -74.0445, Latitude: 40.6892},
	"tokyo tower":           {Longitude: 139.7454, Latitude: 35.6586},
	"sensoji temple":        {Longitude: 139.7967, Latitude: 35.7148},
	"marina bay sands":      {Longitude: 103.8614, Latitude: 1.2834},
}

// cityCenters maps destination names to their city-center coordinates.
var cityCenters = map[string]models.Coordinates{
	"beijing":   {Longitude: 116.3913, Latitude: 39.9075},
	"shanghai":  {Longitude: 121.4737, Latitude: 31.2304},
	"guangzhou": {Longitude: 113.2644, Latitude: 23.1291},
	"shenzhen":  {Longitude: 114.0579, Latitude: 22.5431},
	"hangzhou":  {Longitude: 120.1551, Latitude: 30.2741},
	"chengdu":   {Longitude: 104.0665, Latitude: 30.5723},
	"xian":      {Longitude: 108.9398, Latitude: 34.3416},
	"xi'an":     {Longitude: 108.9398, Latitude: 34.3416},
	"guilin":    {Longitude: 110.2900, Latitude: 25.2742},
	"lhasa":     {Longitude: 91.1409, Latitude: 29.6456},
	"sanya":     {Longitude: 109.5082, Latitude: 18.2479},
	"hong kong": {Longitude: 114.1694, Latitude: 22.3193},
	"tokyo":     {Longitude: 139.6917, Latitude: 35.6895},
	"kyoto":     {Longitude: 135.7681, Latitude: 35.0116},
	"osaka":     {Longitude: 135.5023, Latitude: 34.6937},
	"seoul":     {Longitude: 126.9780, Latitude: 37.5665},
	"singapore": {Longitude: 103.8198, Latitude: 1.3521},
	"bangkok":   {Longitude: 100.5018, Latitude: 13.7563},
	"paris":     {Longitude: 2.3522, Latitude: 48.8566},
	"london":    {Longitude: -0.1276, Latitude: 51.5072},
	"rome":      {Longitude: 12.4964, Latitude: 41.9028},
	"new york":  {Longitude: -74.0060, Latitude: 40.7128},
	"sydney":    {Longitude: 151.2093, Latitude: -33.8688},
}

// Resolver turns free-text place labels into map coordinates. It never fails:
// unknown labels degrade to a deterministic offset around the area's center.
type Resolver struct {
	logger *zap.Logger
}

func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve looks up a coordinate for label, optionally scoped by an area name
// and a pre-known base coordinate for that area. Lookup order: exact landmark,
// substring landmark, city center by area, deterministic offset from the base.
func (r *Resolver) Resolve(label, area string, base *models.Coordinates) models.Coordinates {
	key := normalize(label)

	if c, ok := landmarks[key]; ok {
		return c
	}
	if c, ok := substringMatch(key, landmarks); ok {
		return c
	}

	center := r.areaCenter(area, base)

	// No authoritative match: derive a small, stable offset from the label so
	// repeated renders place the marker at the same plausible spot.
	lonOff, latOff := offsetFor(key)
	return models.Coordinates{
		Longitude: clamp(center.Longitude+lonOff, -180, 180),
		Latitude:  clamp(center.Latitude+latOff, -90, 90),
	}
}

// ResolveArea returns the center coordinate for a destination name, falling
// back to the global default when the destination is unknown.
func (r *Resolver) ResolveArea(area string) models.Coordinates {
	return r.areaCenter(area, nil)
}

func (r *Resolver) areaCenter(area string, base *models.Coordinates) models.Coordinates {
	if base != nil && base.Valid() {
		return *base
	}
	key := normalize(area)
	if c, ok := cityCenters[key]; ok {
		return c
	}
	if c, ok := substringMatch(key, cityCenters); ok {
		return c
	}
	if key != "" && r.logger != nil {
		r.logger.Debug("Unknown area, using default center", zap.String("area", area))
	}
	return defaultCenter
}

// substringMatch scans the table for entries whose name contains the key or
// vice versa. Map iteration order is random, so the winner is chosen by rule:
// the longest matching name, ties broken alphabetically.
func substringMatch(key string, table map[string]models.Coordinates) (models.Coordinates, bool) {
	if key == "" {
		return models.Coordinates{}, false
	}
	var bestName string
	var best models.Coordinates
	for name, c := range table {
		if !strings.Contains(key, name) && !strings.Contains(name, key) {
			continue
		}
		if bestName == "" || len(name) > len(bestName) || (len(name) == len(bestName) && name < bestName) {
			bestName, best = name, c
		}
	}
	return best, bestName != ""
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// offsetFor hashes the label into a bounded lon/lat offset. The two halves of
// the 64-bit sum keep longitude and latitude independent.
func offsetFor(label string) (float64, float64) {
	h := fnv.New64a()
	h.Write([]byte(label))
	sum := h.Sum64()

	lonUnit := float64(uint32(sum))/float64(1<<32)*2 - 1     // [-1,1)
	latUnit := float64(uint32(sum>>32))/float64(1<<32)*2 - 1 // [-1,1)
	return lonUnit * maxOffsetDeg, latUnit * maxOffsetDeg
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
