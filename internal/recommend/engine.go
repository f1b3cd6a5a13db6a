package recommend

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"roomatch/server/internal/models"
)

const (
	// DefaultRecommendLimit bounds personalized recommendation results.
	DefaultRecommendLimit = 10
	// DefaultSimilarLimit bounds "more like this" results.
	DefaultSimilarLimit = 4
)

// ErrUserNotFound is returned by Recommend for a user that does not exist;
// asking for recommendations for an unknown user is a caller bug, not an
// empty-content case.
var ErrUserNotFound = errors.New("user not found")

// Store is the read-only data access the engine needs. Implementations must
// treat a missing listing as (nil, nil), not an error.
type Store interface {
	UserExists(userID int64) (bool, error)
	GetListing(listingID int64) (*models.Listing, error)
	GetInteractionsByUser(userID int64) ([]models.InteractionEvent, error)
	GetActiveListings(excludeIDs map[int64]struct{}) ([]models.Listing, error)
}

// Engine ranks listings for a user from their interaction history and
// scores listing-to-listing similarity. It is stateless: every call
// recomputes from the store, so fresh interactions are always reflected.
type Engine struct {
	store  Store
	logger *logrus.Logger
	now    func() time.Time
}

func NewEngine(store Store, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Engine{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Recommend returns up to limit listings ranked for the given user. A user
// with no interaction history, or whose profile matches nothing, gets the
// most recently created active listings instead. Listings the user already
// interacted with are never returned.
func (e *Engine) Recommend(userID int64, limit int) ([]models.Listing, error) {
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}

	exists, err := e.store.UserExists(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user %d: %w", userID, err)
	}
	if !exists {
		return nil, fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}

	events, err := e.store.GetInteractionsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interactions for user %d: %w", userID, err)
	}

	// Cold start: no signal at all, fall back to recency.
	if len(events) == 0 {
		candidates, err := e.store.GetActiveListings(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch listings: %w", err)
		}
		return truncate(sortByRecency(candidates), limit), nil
	}

	exclude := make(map[int64]struct{}, len(events))
	for _, event := range events {
		exclude[event.ListingID] = struct{}{}
	}

	profile := BuildProfile(events, e.lookupListing, e.now())

	candidates, err := e.store.GetActiveListings(exclude)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate listings: %w", err)
	}

	if profile == nil {
		return truncate(sortByRecency(candidates), limit), nil
	}

	now := e.now()
	ranked := rank(candidates, func(listing *models.Listing) int {
		return ScoreAgainstProfile(listing, profile, now)
	})

	// A profile that scores nothing positively (narrow or stale
	// preferences) degrades to recency, still excluding seen listings.
	if len(ranked) == 0 {
		e.logger.WithField("user_id", userID).Debug("Profile matched no candidates, falling back to recency")
		return truncate(sortByRecency(candidates), limit), nil
	}

	return truncate(ranked, limit), nil
}

// SimilarListings returns up to limit active listings most similar to the
// given one. An unknown reference listing yields an empty result. The
// reference itself is never included.
func (e *Engine) SimilarListings(listingID int64, limit int) ([]models.Listing, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	ref, err := e.store.GetListing(listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing %d: %w", listingID, err)
	}
	if ref == nil {
		return nil, nil
	}

	candidates, err := e.store.GetActiveListings(map[int64]struct{}{listingID: {}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate listings: %w", err)
	}

	now := e.now()
	ranked := rank(candidates, func(listing *models.Listing) int {
		return ScoreAgainstListing(listing, ref, now)
	})

	return truncate(ranked, limit), nil
}

// lookupListing resolves a listing for profile building. Unresolvable
// listings (deleted or failing to load) are skipped rather than aborting
// the whole computation.
func (e *Engine) lookupListing(listingID int64) *models.Listing {
	listing, err := e.store.GetListing(listingID)
	if err != nil {
		e.logger.WithError(err).WithField("listing_id", listingID).Warn("Skipping unresolvable listing")
		return nil
	}
	return listing
}

type scoredListing struct {
	listing models.Listing
	score   int
}

// rank scores every candidate, drops non-positive scores and orders the
// rest by score. Ties go to the newer listing, then the higher ID, so the
// ordering does not depend on input order.
func rank(candidates []models.Listing, score func(*models.Listing) int) []models.Listing {
	scored := make([]scoredListing, 0, len(candidates))
	for i := range candidates {
		s := score(&candidates[i])
		if s <= 0 {
			continue
		}
		scored = append(scored, scoredListing{listing: candidates[i], score: s})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		if !scored[i].listing.CreatedAt.Equal(scored[j].listing.CreatedAt) {
			return scored[i].listing.CreatedAt.After(scored[j].listing.CreatedAt)
		}
		return scored[i].listing.ID > scored[j].listing.ID
	})

	result := make([]models.Listing, len(scored))
	for i, s := range scored {
		result[i] = s.listing
	}
	return result
}

// sortByRecency orders listings newest first, breaking creation-time ties
// by ID.
func sortByRecency(listings []models.Listing) []models.Listing {
	sorted := make([]models.Listing, len(listings))
	copy(sorted, listings)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}

func truncate(listings []models.Listing, limit int) []models.Listing {
	if len(listings) > limit {
		return listings[:limit]
	}
	return listings
}
