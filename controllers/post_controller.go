package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/market-meet/api-go/models"
	"github.com/market-meet/api-go/realtime"
	"github.com/market-meet/api-go/utils"
)

type PostController struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewPostController(db *gorm.DB, hub *realtime.Hub) *PostController {
	return &PostController{DB: db, Hub: hub}
}

func validRating(rating *int) bool {
	return rating == nil || (*rating >= 1 && *rating <= 5)
}

// CreatePost godoc
// @Summary Create a review post
// @Description Creates a post and broadcasts it to connected viewers
// @Tags posts
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /posts/create [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Rating       *int   `json:"rating"`
		Caption      string `json:"caption"`
		Category     string `json:"category"`
		ProductPhoto string `json:"product_photo"`
		ProductURL   string `json:"product_url"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	caption := strings.TrimSpace(input.Caption)
	if caption == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Caption is required"})
		return
	}
	if !validRating(input.Rating) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}

	db := pc.DB.WithContext(c.Request.Context())

	post := models.Post{
		UserID:       user.UserID,
		Rating:       input.Rating,
		Caption:      caption,
		Category:     strings.TrimSpace(input.Category),
		ProductPhoto: strings.TrimSpace(input.ProductPhoto),
		ProductURL:   strings.TrimSpace(input.ProductURL),
	}

	if err := db.Create(&post).Error; err != nil {
		respondStoreError(c, err)
		return
	}

	aggregate, err := fetchPostAggregate(db, user.UserID, post.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	pc.Hub.BroadcastTimeline(realtime.TimelineUpdate{
		Type:     "new-post",
		Post:     aggregate,
		PostID:   post.ID,
		UserID:   user.UserID,
		Category: post.Category,
	})
	if post.Category != "" {
		pc.Hub.BroadcastToCategory(post.Category, realtime.Event{
			Event: "post:new",
			Data:  gin.H{"post": aggregate, "category": post.Category},
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Post created successfully",
		"postId":  post.ID,
		"post":    aggregate,
	})
}

// GetTimeline returns the unfiltered timeline for the caller, newest first.
func (pc *PostController) GetTimeline(c *gin.Context) {
	pc.listPosts(c, PostFilter{})
}

// GetUserPosts returns one user's posts.
func (pc *PostController) GetUserPosts(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	pc.listPosts(c, PostFilter{UserID: uint(userID)})
}

// GetCategoryPosts returns posts in one category.
func (pc *PostController) GetCategoryPosts(c *gin.Context) {
	pc.listPosts(c, PostFilter{Category: c.Param("category")})
}

// GetRatingPosts returns posts with one exact rating.
func (pc *PostController) GetRatingPosts(c *gin.Context) {
	rating, err := strconv.Atoi(c.Param("rating"))
	if err != nil || rating < 1 || rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}
	pc.listPosts(c, PostFilter{Rating: rating})
}

// listPosts is the single parameterized reader behind every listing
// endpoint.
func (pc *PostController) listPosts(c *gin.Context, filter PostFilter) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	page, limit, offset := utils.ParsePagination(c)

	posts, err := fetchPostAggregates(pc.DB.WithContext(c.Request.Context()), user.UserID, filter, limit, offset)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"posts":      posts,
		"pagination": Pagination{Page: page, Limit: limit, Offset: offset},
	})
}

// UpdatePost edits a post. Owner-only; only the provided fields change.
func (pc *PostController) UpdatePost(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Rating       *int    `json:"rating"`
		Caption      *string `json:"caption"`
		Category     *string `json:"category"`
		ProductPhoto *string `json:"product_photo"`
		ProductURL   *string `json:"product_url"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !validRating(input.Rating) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
		return
	}
	if input.Caption != nil && strings.TrimSpace(*input.Caption) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Caption cannot be empty"})
		return
	}

	db := pc.DB.WithContext(c.Request.Context())

	post, ok := pc.loadOwnedPost(c, db, user.UserID)
	if !ok {
		return
	}

	updates := map[string]interface{}{}
	if input.Rating != nil {
		updates["rating"] = *input.Rating
	}
	if input.Caption != nil {
		updates["caption"] = strings.TrimSpace(*input.Caption)
	}
	if input.Category != nil {
		updates["category"] = strings.TrimSpace(*input.Category)
	}
	if input.ProductPhoto != nil {
		updates["product_photo"] = strings.TrimSpace(*input.ProductPhoto)
	}
	if input.ProductURL != nil {
		updates["product_url"] = strings.TrimSpace(*input.ProductURL)
	}

	if len(updates) > 0 {
		if err := db.Model(post).Updates(updates).Error; err != nil {
			respondStoreError(c, err)
			return
		}
	}

	aggregate, err := fetchPostAggregate(db, user.UserID, post.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	pc.Hub.BroadcastTimeline(realtime.TimelineUpdate{
		Type:   "post-updated",
		Post:   aggregate,
		PostID: post.ID,
		UserID: user.UserID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post updated successfully",
		"post":    aggregate,
	})
}

// DeletePost removes a post and its dependent likes and comments in one
// transaction. Owner-only.
func (pc *PostController) DeletePost(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	db := pc.DB.WithContext(c.Request.Context())

	post, ok := pc.loadOwnedPost(c, db, user.UserID)
	if !ok {
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	pc.Hub.BroadcastTimeline(realtime.TimelineUpdate{
		Type:   "post-deleted",
		Post:   nil,
		PostID: post.ID,
		UserID: user.UserID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post deleted successfully",
		"postId":  post.ID,
	})
}

// loadOwnedPost resolves :postId and enforces ownership, distinguishing
// 404 (no such post) from 403 (someone else's post).
func (pc *PostController) loadOwnedPost(c *gin.Context, db *gorm.DB, callerID uint) (*models.Post, bool) {
	postID, err := strconv.ParseUint(c.Param("postId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return nil, false
	}

	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return nil, false
		}
		respondStoreError(c, err)
		return nil, false
	}

	if post.UserID != callerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to modify this post"})
		return nil, false
	}

	return &post, true
}

// GetCategories lists the distinct non-empty categories in use.
func (pc *PostController) GetCategories(c *gin.Context) {
	var categories []string
	err := pc.DB.WithContext(c.Request.Context()).
		Model(&models.Post{}).
		Distinct("category").
		Where("category IS NOT NULL AND category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
}

// GetPostStats returns the live counters for one post.
func (pc *PostController) GetPostStats(c *gin.Context) {
	postID := c.Param("postId")
	db := pc.DB.WithContext(c.Request.Context())

	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		respondStoreError(c, err)
		return
	}

	var likesCount, commentsCount int64
	if err := db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likesCount).Error; err != nil {
		respondStoreError(c, err)
		return
	}
	if err := db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentsCount).Error; err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"likes_count":    likesCount,
			"comments_count": commentsCount,
		},
	})
}
