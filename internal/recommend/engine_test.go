package recommend

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"roomatch/server/internal/models"
)

// MockStore is a mock implementation of the Store interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) UserExists(userID int64) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) GetListing(listingID int64) (*models.Listing, error) {
	args := m.Called(listingID)
	listing, _ := args.Get(0).(*models.Listing)
	return listing, args.Error(1)
}

func (m *MockStore) GetInteractionsByUser(userID int64) ([]models.InteractionEvent, error) {
	args := m.Called(userID)
	events, _ := args.Get(0).([]models.InteractionEvent)
	return events, args.Error(1)
}

func (m *MockStore) GetActiveListings(excludeIDs map[int64]struct{}) ([]models.Listing, error) {
	args := m.Called(excludeIDs)
	listings, _ := args.Get(0).([]models.Listing)
	return listings, args.Error(1)
}

func newTestEngine(store Store) *Engine {
	engine := NewEngine(store, logrus.New())
	engine.now = func() time.Time { return testNow }
	return engine
}

func TestRecommend_UnknownUser(t *testing.T) {
	store := &MockStore{}
	store.On("UserExists", int64(42)).Return(false, nil)

	engine := newTestEngine(store)
	listings, err := engine.Recommend(42, 10)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, listings)
}

func TestRecommend_StoreFailurePropagated(t *testing.T) {
	store := &MockStore{}
	store.On("UserExists", int64(42)).Return(false, errors.New("connection refused"))

	engine := newTestEngine(store)
	_, err := engine.Recommend(42, 10)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRecommend_ColdStartFallsBackToRecency(t *testing.T) {
	oldest := models.Listing{ID: 1, IsActive: true, CreatedAt: testNow.AddDate(0, 0, -30)}
	middle := models.Listing{ID: 2, IsActive: true, CreatedAt: testNow.AddDate(0, 0, -15)}
	newest := models.Listing{ID: 3, IsActive: true, CreatedAt: testNow.AddDate(0, 0, -1)}

	store := &MockStore{}
	store.On("UserExists", int64(42)).Return(true, nil)
	store.On("GetInteractionsByUser", int64(42)).Return([]models.InteractionEvent{}, nil)
	store.On("GetActiveListings", map[int64]struct{}(nil)).Return([]models.Listing{oldest, newest, middle}, nil)

	engine := newTestEngine(store)
	listings, err := engine.Recommend(42, 2)

	assert.NoError(t, err)
	assert.Len(t, listings, 2)
	assert.Equal(t, int64(3), listings[0].ID)
	assert.Equal(t, int64(2), listings[1].ID)
}

func TestRecommend_RanksByProfileAndExcludesSeen(t *testing.T) {
	// User viewed a Torino studio (A) today. B matches category, city and
	// price band; C matches nothing but freshness.
	a := models.Listing{ID: 1, Category: models.CategoryStudio, City: "Torino", Price: 50000, IsActive: true, CreatedAt: testNow}
	b := models.Listing{ID: 2, Category: models.CategoryStudio, City: "Torino", Price: 51000, IsActive: true, CreatedAt: testNow}
	c := models.Listing{ID: 3, Category: models.CategorySharedRoom, City: "Milano", Price: 20000, IsActive: true, CreatedAt: testNow}

	store := &MockStore{}
	store.On("UserExists", int64(42)).Return(true, nil)
	store.On("GetInteractionsByUser", int64(42)).Return([]models.InteractionEvent{
		{UserID: 42, ListingID: 1, Kind: models.InteractionView, CreatedAt: testNow},
	}, nil)
	store.On("GetListing", int64(1)).Return(&a, nil)
	store.On("GetActiveListings", map[int64]struct{}{1: {}}).Return([]models.Listing{c, b}, nil)

	engine := newTestEngine(store)
	listings, err := engine.Recommend(42, 10)

	assert.NoError(t, err)
	assert.Len(t, listings, 2)
	assert.Equal(t, int64(2), listings[0].ID)
	assert.Equal(t, int64(3), listings[1].ID)
	for _, listing := range listings {
		assert.NotEqual(t, a.ID, listing.ID, "interacted listing must never be recommended")
	}
}

func TestRecommend_NothingScoresPositively_FallsBackToRecency(t *testing.T) {
	a := models.Listing{ID: 1, Category: models.CategoryStudio, City: "Torino", Price: 50000, IsActive: true, CreatedAt: testNow.AddDate(-1, 0, 0)}
	// Stale candidates in other cities with prices far outside the band.
	d := models.Listing{ID: 4, Category: models.CategoryOther, City: "Bari", Price: 300000, IsActive: true, CreatedAt: testNow.AddDate(0, -6, 0)}
	e := models.Listing{ID: 5, Category: models.CategoryOther, City: "Napoli", Price: 280000, IsActive: true, CreatedAt: testNow.AddDate(0, -3, 0)}

	store := &MockStore{}
	store.On("UserExists", int64(42)).Return(true, nil)
	store.On("GetInteractionsByUser", int64(42)).Return([]models.InteractionEvent{
		{UserID: 42, ListingID: 1, Kind: models.InteractionSave, CreatedAt: testNow},
	}, nil)
	store.On("GetListing", int64(1)).Return(&a, nil)
	store.On("GetActiveListings", map[int64]struct{}{1: {}}).Return([]models.Listing{d, e}, nil)

	engine := newTestEngine(store)
	listings, err := engine.Recommend(42, 10)

	assert.NoError(t, err)
	assert.Len(t, listings, 2)
	// Recency order, newest first.
	assert.Equal(t, int64(5), listings[0].ID)
	assert.Equal(t, int64(4), listings[1].ID)
}

func TestRecommend_SkipsUnresolvableListings(t *testing.T) {
	b := models.Listing{ID: 2, Category: models.CategoryStudio, City: "Torino", Price: 51000, IsActive: true, CreatedAt: testNow}

	store := &MockStore{}
	store.On("UserExists", int64(42)).Return(true, nil)
	store.On("GetInteractionsByUser", int64(42)).Return([]models.InteractionEvent{
		{UserID: 42, ListingID: 99, Kind: models.InteractionView, CreatedAt: testNow},
	}, nil)
	store.On("GetListing", int64(99)).Return(nil, nil)
	store.On("GetActiveListings", map[int64]struct{}{99: {}}).Return([]models.Listing{b}, nil)

	engine := newTestEngine(store)
	listings, err := engine.Recommend(42, 10)

	// The unresolvable listing is skipped without failing the whole
	// computation; the fresh candidate still surfaces.
	assert.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, int64(2), listings[0].ID)
}

func TestRecommend_TieBreakByCreationThenID(t *testing.T) {
	ref := models.Listing{ID: 1, Category: models.CategoryStudio, City: "Torino", Price: 50000, IsActive: true, CreatedAt: testNow.AddDate(-1, 0, 0)}
	older := models.Listing{ID: 2, Category: models.CategoryStudio, City: "Torino", Price: 50000, IsActive: true, CreatedAt: testNow.AddDate(0, 0, -2)}
	newer := models.Listing{ID: 3, Category: models.CategoryStudio, City: "Torino", Price: 50000, IsActive: true, CreatedAt: testNow.AddDate(0, 0, -1)}

	store := &MockStore{}
	store.On("UserExists", int64(42)).Return(true, nil)
	store.On("GetInteractionsByUser", int64(42)).Return([]models.InteractionEvent{
		{UserID: 42, ListingID: 1, Kind: models.InteractionView, CreatedAt: testNow},
	}, nil)
	store.On("GetListing", int64(1)).Return(&ref, nil)
	store.On("GetActiveListings", map[int64]struct{}{1: {}}).Return([]models.Listing{older, newer}, nil)

	engine := newTestEngine(store)
	listings, err := engine.Recommend(42, 10)

	assert.NoError(t, err)
	assert.Len(t, listings, 2)
	assert.Equal(t, int64(3), listings[0].ID)
	assert.Equal(t, int64(2), listings[1].ID)
}

func TestSimilarListings_UnknownReferenceIsEmpty(t *testing.T) {
	store := &MockStore{}
	store.On("GetListing", int64(99)).Return(nil, nil)

	engine := newTestEngine(store)
	listings, err := engine.SimilarListings(99, 4)

	assert.NoError(t, err)
	assert.Empty(t, listings)
}

func TestSimilarListings_RanksAndExcludesReference(t *testing.T) {
	ref := models.Listing{ID: 1, Category: models.CategoryStudio, City: "Torino", Zone: "Centro", Price: 50000, IsActive: true, CreatedAt: testNow.AddDate(0, -2, 0)}
	strong := models.Listing{ID: 2, Category: models.CategoryStudio, City: "Torino", Zone: "Centro", Price: 50500, IsActive: true, CreatedAt: testNow.AddDate(0, -2, 0)}
	weak := models.Listing{ID: 3, Category: models.CategoryStudio, City: "Milano", Price: 90000, IsActive: true, CreatedAt: testNow.AddDate(0, -2, 0)}
	unrelated := models.Listing{ID: 4, Category: models.CategoryOther, City: "Bari", Price: 200000, IsActive: true, CreatedAt: testNow.AddDate(0, -2, 0)}

	store := &MockStore{}
	store.On("GetListing", int64(1)).Return(&ref, nil)
	store.On("GetActiveListings", map[int64]struct{}{1: {}}).Return([]models.Listing{weak, strong, unrelated}, nil)

	engine := newTestEngine(store)
	listings, err := engine.SimilarListings(1, 4)

	assert.NoError(t, err)
	assert.Len(t, listings, 2) // unrelated scored zero and is dropped
	assert.Equal(t, int64(2), listings[0].ID)
	assert.Equal(t, int64(3), listings[1].ID)
	for _, listing := range listings {
		assert.NotEqual(t, ref.ID, listing.ID)
		assert.Positive(t, ScoreAgainstListing(&listing, &ref, testNow))
	}
}

func TestSimilarListings_DefaultLimit(t *testing.T) {
	ref := models.Listing{ID: 1, Category: models.CategoryStudio, City: "Torino", Price: 50000, IsActive: true, CreatedAt: testNow}

	var candidates []models.Listing
	for i := int64(2); i <= 10; i++ {
		candidates = append(candidates, models.Listing{
			ID: i, Category: models.CategoryStudio, City: "Torino", Price: 50000, IsActive: true, CreatedAt: testNow,
		})
	}

	store := &MockStore{}
	store.On("GetListing", int64(1)).Return(&ref, nil)
	store.On("GetActiveListings", map[int64]struct{}{1: {}}).Return(candidates, nil)

	engine := newTestEngine(store)
	listings, err := engine.SimilarListings(1, 0)

	assert.NoError(t, err)
	assert.Len(t, listings, DefaultSimilarLimit)
}
