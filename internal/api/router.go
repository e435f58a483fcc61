package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"timeclock-backend/config"
	"timeclock-backend/internal/clockin"
	"timeclock-backend/internal/directory"
	"timeclock-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(svc *clockin.Service, dir directory.Directory, db *gorm.DB, webpushOptions *webpush.Options, serverCfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(svc, dir, db, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(serverCfg.RateLimitPerSec), 5)

	cacheTTL := time.Duration(serverCfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// The ingestion path is never cached.
		api.POST("/clock-in", handler.PostClockIn)

		api.GET("/workers", caching, handler.GetWorkers)
		api.GET("/workers/:worker_id/history", handler.GetWorkerHistory)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
