package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/market-meet/api-go/config"
	"github.com/market-meet/api-go/utils"
)

// UploadController hands out presigned PUT URLs for product photos so the
// client uploads straight to R2 and the API only ever stores the public URL.
type UploadController struct {
	DB       *gorm.DB
	R2Client *s3.Client
	R2Config *config.R2Config
}

type PresignRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type PresignResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

const maxPhotoSize = 10 * 1024 * 1024 // 10MB

func NewUploadController(db *gorm.DB) *UploadController {
	r2Config := config.GetR2Config()
	return &UploadController{
		DB:       db,
		R2Client: config.NewR2Client(r2Config),
		R2Config: r2Config,
	}
}

// GetPresignedURL godoc
// @Summary Get a presigned upload URL for a product photo
// @Tags uploads
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /uploads/presign [post]
func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !isValidPhotoType(req.ContentType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type for product photo"})
		return
	}
	if req.FileSize > maxPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds limit"})
		return
	}

	key := uc.generateFileKey(user.UserID, req.FileName)

	uploadURL, err := uc.createPresignedURL(c, key, req.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": PresignResponse{
			UploadURL: uploadURL,
			FileURL:   fmt.Sprintf("%s/%s", uc.R2Config.PublicURL, key),
			Key:       key,
			ExpiresIn: 3600,
		},
	})
}

func isValidPhotoType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	}
	return false
}

func (uc *UploadController) generateFileKey(userID uint, fileName string) string {
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("products/%d/%d_%s%s", userID, time.Now().Unix(), uuid.New().String(), ext)
}

func (uc *UploadController) createPresignedURL(c *gin.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(uc.R2Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}

	presigner := s3.NewPresignClient(uc.R2Client)
	req, err := presigner.PresignPutObject(c.Request.Context(), input, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
