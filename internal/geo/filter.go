package geo

import (
	"github.com/paulmach/orb"

	"roomatch/server/internal/models"
)

// FilterByBounds keeps active, geocoded listings inside the map viewport
// described by north/south latitude and east/west longitude limits
// (boundary inclusive). Inverted bounds are taken literally and match
// nothing; viewports wrapping the antimeridian are not supported.
func FilterByBounds(listings []models.Listing, north, south, east, west float64) []models.Listing {
	bound := orb.Bound{
		Min: orb.Point{west, south},
		Max: orb.Point{east, north},
	}

	var result []models.Listing
	for _, listing := range listings {
		if !listing.IsActive || !listing.HasCoordinates() {
			continue
		}
		if bound.Contains(orb.Point{*listing.Longitude, *listing.Latitude}) {
			result = append(result, listing)
		}
	}
	return result
}

// FilterByRadius keeps active, geocoded listings within radiusKm of the
// given center (boundary inclusive). A non-positive radius matches nothing.
func FilterByRadius(listings []models.Listing, lat, lon, radiusKm float64) []models.Listing {
	if radiusKm <= 0 {
		return nil
	}

	var result []models.Listing
	for _, listing := range listings {
		if !listing.IsActive || !listing.HasCoordinates() {
			continue
		}
		if DistanceKm(lat, lon, *listing.Latitude, *listing.Longitude) <= radiusKm {
			result = append(result, listing)
		}
	}
	return result
}
