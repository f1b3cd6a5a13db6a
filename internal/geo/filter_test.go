package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"roomatch/server/internal/models"
)

func geocoded(id int64, lat, lon float64) models.Listing {
	return models.Listing{ID: id, Latitude: &lat, Longitude: &lon, IsActive: true}
}

func TestFilterByBounds(t *testing.T) {
	inside := geocoded(1, 45.05, 7.65)
	onEdge := geocoded(2, 45.0, 7.6)
	north := geocoded(3, 45.3, 7.65)
	east := geocoded(4, 45.05, 8.0)
	noCoords := models.Listing{ID: 5, IsActive: true}
	inactive := geocoded(6, 45.05, 7.65)
	inactive.IsActive = false

	listings := []models.Listing{inside, onEdge, north, east, noCoords, inactive}

	result := FilterByBounds(listings, 45.1, 45.0, 7.7, 7.6)

	ids := make([]int64, len(result))
	for i, l := range result {
		ids[i] = l.ID
	}
	assert.ElementsMatch(t, []int64{1, 2}, ids)
}

func TestFilterByBounds_InvertedBoundsMatchNothing(t *testing.T) {
	listings := []models.Listing{geocoded(1, 45.05, 7.65)}

	// south > north
	assert.Empty(t, FilterByBounds(listings, 45.0, 45.1, 7.7, 7.6))
	// west > east
	assert.Empty(t, FilterByBounds(listings, 45.1, 45.0, 7.6, 7.7))
}

func TestFilterByRadius(t *testing.T) {
	near := geocoded(1, 45.03, 7.6) // ~3.3 km from center
	far := geocoded(2, 45.2, 7.6)   // ~22 km from center
	noCoords := models.Listing{ID: 3, IsActive: true}
	inactive := geocoded(4, 45.03, 7.6)
	inactive.IsActive = false

	listings := []models.Listing{near, far, noCoords, inactive}

	result := FilterByRadius(listings, 45.0, 7.6, 5)

	assert.Len(t, result, 1)
	assert.Equal(t, int64(1), result[0].ID)
}

func TestFilterByRadius_BoundaryInclusive(t *testing.T) {
	listing := geocoded(1, 45.03, 7.6)
	exact := DistanceKm(45.0, 7.6, 45.03, 7.6)

	assert.Len(t, FilterByRadius([]models.Listing{listing}, 45.0, 7.6, exact), 1)
	assert.Empty(t, FilterByRadius([]models.Listing{listing}, 45.0, 7.6, exact*0.999))
}

func TestFilterByRadius_NonPositiveRadius(t *testing.T) {
	listings := []models.Listing{geocoded(1, 45.0, 7.6)}

	assert.Empty(t, FilterByRadius(listings, 45.0, 7.6, 0))
	assert.Empty(t, FilterByRadius(listings, 45.0, 7.6, -3))
}
