package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/market-meet/api-go/models"
	"github.com/market-meet/api-go/realtime"
	"github.com/market-meet/api-go/utils"
)

type CommentController struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewCommentController(db *gorm.DB, hub *realtime.Hub) *CommentController {
	return &CommentController{DB: db, Hub: hub}
}

// CreateComment godoc
// @Summary Add a comment to a post
// @Tags comments
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Success 201 {object} map[string]interface{}
// @Router /posts/{postId}/comments [post]
func (cc *CommentController) CreateComment(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	postID, err := strconv.ParseUint(c.Param("postId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	// comment_text may be empty, the field itself just has to be a string
	var input struct {
		CommentText string `json:"comment_text"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := cc.DB.WithContext(c.Request.Context())

	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		respondStoreError(c, err)
		return
	}

	comment := models.Comment{
		PostID:      post.ID,
		UserID:      user.UserID,
		CommentText: input.CommentText,
	}
	if err := db.Create(&comment).Error; err != nil {
		respondStoreError(c, err)
		return
	}

	aggregate, err := fetchPostAggregate(db, user.UserID, post.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	cc.Hub.BroadcastTimeline(realtime.TimelineUpdate{
		Type:      "comment-added",
		Post:      aggregate,
		PostID:    post.ID,
		UserID:    user.UserID,
		CommentID: comment.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"message":   "Comment added successfully",
		"commentId": comment.ID,
		"post":      aggregate,
	})
}

// GetComments lists a post's comments oldest first, with author usernames.
func (cc *CommentController) GetComments(c *gin.Context) {
	postID := c.Param("postId")

	var comments []struct {
		IDComment   uint      `json:"id_comment" gorm:"column:id_comment"`
		IDPost      uint      `json:"id_post" gorm:"column:id_post"`
		IDUser      uint      `json:"id_user" gorm:"column:id_user"`
		Username    string    `json:"username" gorm:"column:username"`
		CommentText string    `json:"comment_text" gorm:"column:comment_text"`
		CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	}

	err := cc.DB.WithContext(c.Request.Context()).
		Model(&models.Comment{}).
		Select(`comments.id AS id_comment,
			comments.post_id AS id_post,
			comments.user_id AS id_user,
			users.username AS username,
			comments.comment_text AS comment_text,
			comments.created_at AS created_at`).
		Joins("LEFT JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC, comments.id ASC").
		Scan(&comments).Error
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "comments": comments})
}

// DeleteComment godoc
// @Summary Delete own comment
// @Tags comments
// @Produce json
// @Param postId path string true "Post ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} map[string]interface{}
// @Router /posts/{postId}/comments/{commentId} [delete]
func (cc *CommentController) DeleteComment(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	db := cc.DB.WithContext(c.Request.Context())

	var comment models.Comment
	err := db.Where("id = ? AND post_id = ?", c.Param("commentId"), c.Param("postId")).
		First(&comment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		respondStoreError(c, err)
		return
	}

	if comment.UserID != user.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		return
	}

	if err := db.Delete(&comment).Error; err != nil {
		respondStoreError(c, err)
		return
	}

	cc.Hub.BroadcastTimeline(realtime.TimelineUpdate{
		Type:      "comment-removed",
		PostID:    comment.PostID,
		UserID:    user.UserID,
		CommentID: comment.ID,
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Comment deleted successfully"})
}
