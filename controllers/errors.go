package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/market-meet/api-go/utils"
)

// respondStoreError translates a store failure into the right transport
// status without leaking driver details to the client.
func respondStoreError(c *gin.Context, err error) {
	log.Printf("store error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	if utils.IsStoreUnavailable(err) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database unavailable"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
