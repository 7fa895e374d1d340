package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StatusController struct {
	DB *gorm.DB
}

func NewStatusController(db *gorm.DB) *StatusController {
	return &StatusController{DB: db}
}

// GetStatus reports API liveness and store connectivity.
func (sc *StatusController) GetStatus(c *gin.Context) {
	database := "connected"

	sqlDB, err := sc.DB.DB()
	if err != nil {
		database = "disconnected"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			database = "disconnected"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
