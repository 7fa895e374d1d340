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

type InteractionController struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

func NewInteractionController(db *gorm.DB, hub *realtime.Hub) *InteractionController {
	return &InteractionController{DB: db, Hub: hub}
}

// LikePost godoc
// @Summary Toggle like status for a post
// @Description Flips the (post, caller) like state and returns the updated aggregate
// @Tags interactions
// @Accept json
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} map[string]interface{}
// @Router /posts/{postId}/like [post]
func (ic *InteractionController) LikePost(c *gin.Context) {
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

	db := ic.DB.WithContext(c.Request.Context())

	// A toggle against a nonexistent post fails, it does not no-op.
	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		respondStoreError(c, err)
		return
	}

	action, err := toggleLike(db, post.ID, user.UserID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	aggregate, err := fetchPostAggregate(db, user.UserID, post.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	updateType := "like-added"
	message := "Post liked"
	if action == "unliked" {
		updateType = "like-removed"
		message = "Like removed"
	}

	ic.Hub.BroadcastTimeline(realtime.TimelineUpdate{
		Type:   updateType,
		Post:   aggregate,
		PostID: post.ID,
		Action: action,
		UserID: user.UserID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"action":  action,
		"post":    aggregate,
	})
}

// toggleLike flips the (post, user) pair in one transaction: delete the row
// if it exists, otherwise insert it. The unique index on (post_id, user_id)
// turns a racing double-insert into a conflict; one retry then takes the
// delete branch, so two concurrent toggles still land on a consistent
// state and never leave a duplicate row.
func toggleLike(db *gorm.DB, postID, userID uint) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		var action string
		err := db.Transaction(func(tx *gorm.DB) error {
			result := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				action = "unliked"
				return nil
			}
			if err := tx.Create(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
				return err
			}
			action = "liked"
			return nil
		})
		if err == nil {
			return action, nil
		}
		lastErr = err
		if !utils.IsDuplicateKey(err) {
			break
		}
	}
	return "", lastErr
}

// GetLikeStatus reports whether one user likes one post. Kept public: the
// viewer is named by the id_user query parameter rather than a token.
func (ic *InteractionController) GetLikeStatus(c *gin.Context) {
	postID := c.Param("postId")
	viewerID := c.Query("id_user")
	if viewerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_user query parameter is required"})
		return
	}

	var count int64
	err := ic.DB.WithContext(c.Request.Context()).
		Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, viewerID).
		Count(&count).Error
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "isLiked": count > 0})
}

// GetPostLikes lists the accounts that like a post, most recent first.
func (ic *InteractionController) GetPostLikes(c *gin.Context) {
	postID := c.Param("postId")

	var likes []struct {
		IDUser    uint      `json:"id_user" gorm:"column:id_user"`
		Username  string    `json:"username" gorm:"column:username"`
		CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	}

	err := ic.DB.WithContext(c.Request.Context()).
		Model(&models.Like{}).
		Select("users.id AS id_user, users.username AS username, likes.created_at AS created_at").
		Joins("LEFT JOIN users ON users.id = likes.user_id").
		Where("likes.post_id = ?", postID).
		Order("likes.created_at DESC").
		Scan(&likes).Error
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "likes": likes})
}

// FollowUser godoc
// @Summary Follow or unfollow a user
// @Description Toggles the follow relationship from the caller to the target
// @Tags interactions
// @Accept json
// @Produce json
// @Param userId path string true "User ID to follow"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userId}/follow [post]
func (ic *InteractionController) FollowUser(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	db := ic.DB.WithContext(c.Request.Context())

	var targetUser models.User
	if err := db.First(&targetUser, c.Param("userId")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		respondStoreError(c, err)
		return
	}

	if user.UserID == targetUser.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	// Same atomic delete-else-insert shape as the like toggle, guarded by
	// the unique pair index.
	var following bool
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("follower_user_id = ? AND following_user_id = ?", user.UserID, targetUser.ID).
			Delete(&models.Follow{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			following = false
			return nil
		}
		if err := tx.Create(&models.Follow{
			FollowerUserID:  user.UserID,
			FollowingUserID: targetUser.ID,
		}).Error; err != nil {
			return err
		}
		following = true
		return nil
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	message := "Successfully unfollowed user"
	if following {
		message = "Successfully followed user"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"following": following,
		"message":   message,
	})
}

// GetUserFollowers godoc
// @Summary Get user's followers
// @Tags interactions
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userId}/followers [get]
func (ic *InteractionController) GetUserFollowers(c *gin.Context) {
	ic.listFollows(c, "follower")
}

// GetUserFollowing godoc
// @Summary Get users that a user is following
// @Tags interactions
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} map[string]interface{}
// @Router /users/{userId}/following [get]
func (ic *InteractionController) GetUserFollowing(c *gin.Context) {
	ic.listFollows(c, "following")
}

func (ic *InteractionController) listFollows(c *gin.Context, direction string) {
	userID := c.Param("userId")
	page, limit, offset := utils.ParsePagination(c)

	db := ic.DB.WithContext(c.Request.Context())

	// followers: who follows userID; following: whom userID follows.
	joinColumn, whereColumn := "follows.follower_user_id", "follows.following_user_id"
	if direction == "following" {
		joinColumn, whereColumn = "follows.following_user_id", "follows.follower_user_id"
	}

	var total int64
	if err := db.Model(&models.Follow{}).Where(whereColumn+" = ?", userID).Count(&total).Error; err != nil {
		respondStoreError(c, err)
		return
	}

	var accounts []struct {
		IDUser    uint      `json:"id_user" gorm:"column:id_user"`
		Username  string    `json:"username" gorm:"column:username"`
		CreatedAt time.Time `json:"followedAt" gorm:"column:created_at"`
	}

	err := db.Model(&models.Follow{}).
		Select("users.id AS id_user, users.username AS username, follows.created_at AS created_at").
		Joins("JOIN users ON users.id = " + joinColumn).
		Where(whereColumn+" = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&accounts).Error
	if err != nil {
		respondStoreError(c, err)
		return
	}

	key := "followers"
	if direction == "following" {
		key = "following"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		key:       accounts,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"totalItems": total,
			"totalPages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}
