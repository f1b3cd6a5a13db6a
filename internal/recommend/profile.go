package recommend

import (
	"math"
	"sort"
	"time"

	"roomatch/server/internal/models"
)

// Interaction kinds map to base weights by intent strength: a contact is a
// much stronger signal than a view.
var kindWeights = map[models.InteractionKind]float64{
	models.InteractionView:    1,
	models.InteractionSave:    3,
	models.InteractionContact: 5,
}

// decayRate gives interactions a half-life of roughly a week; events older
// than a month contribute next to nothing.
const decayRate = 0.1

// maxPreferred caps the preferred category/city sets used for scoring.
const maxPreferred = 3

type CategoryPreference struct {
	Category models.Category `json:"category"`
	Score    float64         `json:"score"`
}

type CityPreference struct {
	City  string  `json:"city"`
	Score float64 `json:"score"`
}

// PreferenceProfile is the per-request summary of a user's interaction
// history. It is derived, never persisted.
type PreferenceProfile struct {
	Categories []CategoryPreference `json:"categories"` // descending score, at most maxPreferred
	Cities     []CityPreference     `json:"cities"`     // descending score, at most maxPreferred

	// Price band around the weighted mean price (±20%). HasPriceBand is
	// false when no resolvable event carried a price, in which case price
	// contributes nothing to scoring.
	MeanPrice    float64 `json:"mean_price"`
	PriceLow     float64 `json:"price_low"`
	PriceHigh    float64 `json:"price_high"`
	HasPriceBand bool    `json:"has_price_band"`

	// Plain min/max prices seen across interactions, kept as a sanity
	// bound; not used for ranking.
	MinPrice int `json:"min_price"`
	MaxPrice int `json:"max_price"`
}

// timeWeight returns the exponential decay factor for an event that
// happened at the given time. Clock skew putting the event in the future is
// clamped to zero age.
func timeWeight(now, at time.Time) float64 {
	ageDays := math.Floor(now.Sub(at).Hours() / 24)
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Exp(-decayRate * ageDays)
}

// BuildProfile aggregates a user's interaction events into a preference
// profile. It returns nil when events is empty, meaning no personalization
// signal is available. Events whose listing cannot be resolved through
// lookup are skipped, and repeated (listing, kind) pairs only count once.
func BuildProfile(events []models.InteractionEvent, lookup func(listingID int64) *models.Listing, now time.Time) *PreferenceProfile {
	if len(events) == 0 {
		return nil
	}

	type dedupKey struct {
		listingID int64
		kind      models.InteractionKind
	}
	seen := make(map[dedupKey]bool)

	categoryScores := make(map[models.Category]float64)
	cityScores := make(map[string]float64)
	// Insertion order makes the top-3 cut stable for equal scores.
	var categoryOrder []models.Category
	var cityOrder []string

	var priceSum, priceCount float64
	minPrice, maxPrice := 0, 0
	sawPrice := false

	for _, event := range events {
		key := dedupKey{listingID: event.ListingID, kind: event.Kind}
		if seen[key] {
			continue
		}
		seen[key] = true

		listing := lookup(event.ListingID)
		if listing == nil {
			continue
		}

		kindWeight, ok := kindWeights[event.Kind]
		if !ok {
			kindWeight = 1
		}
		weight := timeWeight(now, event.CreatedAt)
		score := kindWeight * weight

		if _, ok := categoryScores[listing.Category]; !ok {
			categoryOrder = append(categoryOrder, listing.Category)
		}
		categoryScores[listing.Category] += score

		if _, ok := cityScores[listing.City]; !ok {
			cityOrder = append(cityOrder, listing.City)
		}
		cityScores[listing.City] += score

		if !sawPrice || listing.Price < minPrice {
			minPrice = listing.Price
		}
		if !sawPrice || listing.Price > maxPrice {
			maxPrice = listing.Price
		}
		sawPrice = true
		priceSum += float64(listing.Price) * score
		priceCount += score
	}

	profile := &PreferenceProfile{
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	}

	if priceCount > 0 {
		profile.MeanPrice = priceSum / priceCount
		profile.PriceLow = profile.MeanPrice * 0.8
		profile.PriceHigh = profile.MeanPrice * 1.2
		profile.HasPriceBand = true
	}

	for _, category := range categoryOrder {
		profile.Categories = append(profile.Categories, CategoryPreference{
			Category: category,
			Score:    categoryScores[category],
		})
	}
	sort.SliceStable(profile.Categories, func(i, j int) bool {
		return profile.Categories[i].Score > profile.Categories[j].Score
	})
	if len(profile.Categories) > maxPreferred {
		profile.Categories = profile.Categories[:maxPreferred]
	}

	for _, city := range cityOrder {
		profile.Cities = append(profile.Cities, CityPreference{
			City:  city,
			Score: cityScores[city],
		})
	}
	sort.SliceStable(profile.Cities, func(i, j int) bool {
		return profile.Cities[i].Score > profile.Cities[j].Score
	})
	if len(profile.Cities) > maxPreferred {
		profile.Cities = profile.Cities[:maxPreferred]
	}

	return profile
}
