package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/market-meet/api-go/models"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GetUser returns a public profile by id.
func (uc *UserController) GetUser(c *gin.Context) {
	userID := c.Param("userId")

	var user models.User
	if err := uc.DB.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id_user":    user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"birth_date": user.BirthDate,
			"bio":        user.Bio,
			"avatar":     user.Avatar,
		},
	})
}
