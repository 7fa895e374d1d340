package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RequireDB pings the store with a short deadline before the handler runs
// and answers 503 when it is unreachable, so handlers never hang on a dead
// connection pool.
func RequireDB(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			err = sqlDB.PingContext(ctx)
			cancel()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database unavailable"})
			c.Abort()
			return
		}

		c.Next()
	}
}
