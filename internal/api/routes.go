package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"roomatch/server/config"
	"roomatch/server/internal/database"
	"roomatch/server/internal/ingest"
	"roomatch/server/internal/recommend"
)

func SetupRoutes(router *gin.Engine, db *database.Database, queue *ingest.InteractionQueue, cfg *config.Config, logger *logrus.Logger) {
	engine := recommend.NewEngine(db, logger)
	handler := NewHandler(db, engine, queue, cfg, logger)

	api := router.Group("/api")
	{
		api.GET("/listings", handler.SearchListings)
		api.GET("/listings/:id", handler.GetListing)
		api.GET("/listings/:id/similar", handler.GetSimilarListings)
		api.GET("/recommendations", handler.GetRecommendations)
		api.POST("/interactions", handler.CreateInteraction)
		api.GET("/cities", handler.GetCities)
		api.POST("/admin/backfill-coordinates", handler.BackfillCoordinates)
	}
}
