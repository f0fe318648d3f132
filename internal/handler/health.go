package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var startedAt = time.Now()

// Health reports liveness of the pricing service and its two backing stores.
// Postgres holds sessions and the category registry; Redis carries the report
// queue and the exchange-rate cache. Either one being down means pricing runs
// cannot complete, so the endpoint degrades to 503.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		checks := gin.H{
			"postgres": pingPostgres(ctx, db),
			"redis":    pingRedis(ctx, rdb),
		}

		status := http.StatusOK
		for _, v := range checks {
			if v != "up" {
				status = http.StatusServiceUnavailable
			}
		}

		c.JSON(status, gin.H{
			"service":        "fenntech-pricing",
			"ok":             status == http.StatusOK,
			"uptime_seconds": int64(time.Since(startedAt).Seconds()),
			"checks":         checks,
		})
	}
}

func pingPostgres(ctx context.Context, db *gorm.DB) string {
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return "down"
	}
	return "up"
}

func pingRedis(ctx context.Context, rdb *redis.Client) string {
	if rdb.Ping(ctx).Err() != nil {
		return "down"
	}
	return "up"
}
