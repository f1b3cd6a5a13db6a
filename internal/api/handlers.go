package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"roomatch/server/config"
	"roomatch/server/internal/database"
	"roomatch/server/internal/geo"
	"roomatch/server/internal/ingest"
	"roomatch/server/internal/models"
	"roomatch/server/internal/recommend"
)

type Handler struct {
	db     *database.Database
	engine *recommend.Engine
	queue  *ingest.InteractionQueue
	config *config.Config
	logger *logrus.Logger
}

// SearchQuery carries listing search parameters. Prices are whole currency
// units; geo narrowing accepts either map bounds or a center plus radius.
type SearchQuery struct {
	City     string   `form:"city"`
	Category string   `form:"category"`
	MinPrice int      `form:"min_price"`
	MaxPrice int      `form:"max_price"`
	North    *float64 `form:"north"`
	South    *float64 `form:"south"`
	East     *float64 `form:"east"`
	West     *float64 `form:"west"`
	Lat      *float64 `form:"lat"`
	Lon      *float64 `form:"lon"`
	RadiusKm *float64 `form:"radius_km"`
}

type InteractionRequest struct {
	UserID    int64  `json:"user_id" binding:"required"`
	ListingID int64  `json:"listing_id" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
}

func NewHandler(db *database.Database, engine *recommend.Engine, queue *ingest.InteractionQueue, cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:     db,
		engine: engine,
		queue:  queue,
		config: cfg,
		logger: logger,
	}
}

// SearchListings handles filtered and geo-narrowed listing search.
func (h *Handler) SearchListings(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.WithError(err).Error("Failed to parse search query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search parameters"})
		return
	}

	if query.Category != "" && !models.ValidCategory(models.Category(query.Category)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown listing category"})
		return
	}

	filters := database.SearchFilters{
		City:     query.City,
		Category: models.Category(query.Category),
		MinPrice: query.MinPrice * 100,
		MaxPrice: query.MaxPrice * 100,
	}

	listings, err := h.db.SearchListings(filters)
	if err != nil {
		h.logger.WithError(err).Error("Failed to search listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search listings"})
		return
	}

	if query.North != nil && query.South != nil && query.East != nil && query.West != nil {
		listings = geo.FilterByBounds(listings, *query.North, *query.South, *query.East, *query.West)
	} else if query.Lat != nil && query.Lon != nil && query.RadiusKm != nil {
		listings = geo.FilterByRadius(listings, *query.Lat, *query.Lon, *query.RadiusKm)
	}

	if listings == nil {
		listings = []models.Listing{}
	}
	c.JSON(http.StatusOK, listings)
}

// GetListing returns a single listing by ID.
func (h *Handler) GetListing(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	listing, err := h.db.GetListing(listingID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing"})
		return
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// GetSimilarListings returns listings similar to the referenced one. An
// unknown reference yields an empty list, not an error.
func (h *Handler) GetSimilarListings(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return
	}

	limit := h.parseLimit(c, recommend.DefaultSimilarLimit)

	listings, err := h.engine.SimilarListings(listingID, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get similar listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get similar listings"})
		return
	}

	if listings == nil {
		listings = []models.Listing{}
	}
	c.JSON(http.StatusOK, listings)
}

// GetRecommendations returns personalized recommendations for a user.
func (h *Handler) GetRecommendations(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	limit := h.parseLimit(c, recommend.DefaultRecommendLimit)

	listings, err := h.engine.Recommend(userID, limit)
	if err != nil {
		if errors.Is(err, recommend.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to get recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recommendations"})
		return
	}

	if listings == nil {
		listings = []models.Listing{}
	}
	c.JSON(http.StatusOK, listings)
}

// CreateInteraction enqueues an interaction event for persistence.
func (h *Handler) CreateInteraction(c *gin.Context) {
	var req InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse interaction request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	kind := models.InteractionKind(req.Kind)
	if !models.ValidInteractionKind(kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown interaction kind"})
		return
	}

	event := &models.InteractionEvent{
		UserID:    req.UserID,
		ListingID: req.ListingID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.queue.Push([]*models.InteractionEvent{event}); err != nil {
		h.logger.WithError(err).Error("Failed to enqueue interaction")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Interaction ingestion is unavailable"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// GetCities returns the supported city registry.
func (h *Handler) GetCities(c *gin.Context) {
	c.JSON(http.StatusOK, config.SupportedCities)
}

// BackfillCoordinates fills missing listing coordinates from the city
// registry.
func (h *Handler) BackfillCoordinates(c *gin.Context) {
	updated, err := h.db.BackfillCoordinates(config.CityCenter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to backfill coordinates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to backfill coordinates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "Coordinates backfill completed",
		"updated": updated,
	})
}

// parseLimit reads the limit query parameter, falling back to def and
// clamping to the configured maximum.
func (h *Handler) parseLimit(c *gin.Context, def int) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if err != nil || limit <= 0 {
		limit = def
	}
	if max := h.config.Recommendation.MaxLimit; max > 0 && limit > max {
		limit = max
	}
	return limit
}
