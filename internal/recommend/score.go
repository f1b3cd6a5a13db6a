package recommend

import (
	"math"
	"time"

	"roomatch/server/internal/models"
)

// Similarity scoring rubric. Points are additive and each condition is
// independent; a candidate totalling zero or less is excluded from results.
const (
	categoryMatchPoints = 5
	topCategoryBonus    = 2
	cityMatchPoints     = 4
	topCityBonus        = 2
	priceBandPoints     = 3
	priceTightBonus     = 2 // deviation < 5%
	priceCloseBonus     = 1 // deviation < 10%
	zoneMatchPoints     = 3
	newListingBonus     = 2 // created < 7 days ago
	recentListingBonus  = 1 // created < 30 days ago
)

// pricePoints scores a candidate price against a reference price: inside the
// ±20% band earns points, with extra points the closer it sits.
func pricePoints(candidatePrice int, refPrice float64) int {
	if refPrice <= 0 {
		return 0
	}
	price := float64(candidatePrice)
	if price < refPrice*0.8 || price > refPrice*1.2 {
		return 0
	}

	points := priceBandPoints
	deviation := math.Abs(price-refPrice) / refPrice
	if deviation < 0.05 {
		points += priceTightBonus
	} else if deviation < 0.1 {
		points += priceCloseBonus
	}
	return points
}

// recencyPoints rewards freshly created listings.
func recencyPoints(createdAt, now time.Time) int {
	age := now.Sub(createdAt)
	switch {
	case age < 7*24*time.Hour:
		return newListingBonus
	case age < 30*24*time.Hour:
		return recentListingBonus
	}
	return 0
}

// ScoreAgainstListing rates how similar candidate is to a single reference
// listing. Used for "more like this" suggestions.
func ScoreAgainstListing(candidate, ref *models.Listing, now time.Time) int {
	score := 0

	if candidate.Category == ref.Category {
		score += categoryMatchPoints
	}
	if candidate.City == ref.City {
		score += cityMatchPoints
	}
	score += pricePoints(candidate.Price, float64(ref.Price))
	if ref.Zone != "" && candidate.Zone == ref.Zone {
		score += zoneMatchPoints
	}
	score += recencyPoints(candidate.CreatedAt, now)

	return score
}

// ScoreAgainstProfile rates how well candidate matches a user's preference
// profile. Membership in the preferred category/city sets earns points, the
// top-ranked entry of each set earns a bonus on top.
func ScoreAgainstProfile(candidate *models.Listing, profile *PreferenceProfile, now time.Time) int {
	score := 0

	for i, pref := range profile.Categories {
		if pref.Category != candidate.Category {
			continue
		}
		score += categoryMatchPoints
		if i == 0 {
			score += topCategoryBonus
		}
		break
	}

	for i, pref := range profile.Cities {
		if pref.City != candidate.City {
			continue
		}
		score += cityMatchPoints
		if i == 0 {
			score += topCityBonus
		}
		break
	}

	if profile.HasPriceBand {
		score += pricePoints(candidate.Price, profile.MeanPrice)
	}
	score += recencyPoints(candidate.CreatedAt, now)

	return score
}
