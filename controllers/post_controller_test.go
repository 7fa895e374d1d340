package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/market-meet/api-go/models"
)

func TestCreatePostValidation(t *testing.T) {
	r, _ := setupRouter(t)
	token, _ := createUser(t, r, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/posts/create", token, gin.H{"caption": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/posts/create", token, gin.H{"caption": "great phone", "rating": 6})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/posts/create", token, gin.H{"caption": "great phone", "rating": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Rating is optional.
	w = doJSON(t, r, http.MethodPost, "/api/posts/create", token, gin.H{"caption": "great phone"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	post := decodeBody(t, w)["post"].(map[string]interface{})
	assert.Nil(t, post["rating"])
	assert.Equal(t, "great phone", post["caption"])
}

// End-to-end flow: alice posts, bob likes it, both see consistent counters
// and viewer-relative isLiked flags on the timeline.
func TestTimelineReflectsLikes(t *testing.T) {
	r, _ := setupRouter(t)
	aliceToken, aliceID := createUser(t, r, "alice")
	bobToken, _ := createUser(t, r, "bob")

	postID := createPost(t, r, aliceToken, gin.H{
		"caption":  "solid blender",
		"rating":   4,
		"category": "kitchen",
	})

	w := doJSON(t, r, http.MethodPost, requestPath("/api/posts/%d/like", postID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "liked", decodeBody(t, w)["action"])

	w = doJSON(t, r, http.MethodGet, "/api/posts/timeline", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decodeBody(t, w)["posts"].([]interface{})
	require.Len(t, posts, 1)

	entry := posts[0].(map[string]interface{})
	assert.Equal(t, float64(postID), entry["id_post"])
	assert.Equal(t, float64(aliceID), entry["id_user"])
	assert.Equal(t, "alice", entry["username"])
	assert.Equal(t, float64(1), entry["likes_count"])
	assert.Equal(t, float64(0), entry["comments_count"])
	assert.Equal(t, true, entry["isLiked"])

	// alice has not liked her own post.
	w = doJSON(t, r, http.MethodGet, "/api/posts/timeline", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	entry = decodeBody(t, w)["posts"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(1), entry["likes_count"])
	assert.Equal(t, false, entry["isLiked"])
}

func TestTimelineFilters(t *testing.T) {
	r, _ := setupRouter(t)
	aliceToken, aliceID := createUser(t, r, "alice")
	bobToken, _ := createUser(t, r, "bob")

	createPost(t, r, aliceToken, gin.H{"caption": "good blender", "rating": 4, "category": "kitchen"})
	createPost(t, r, aliceToken, gin.H{"caption": "bad toaster", "rating": 1, "category": "kitchen"})
	createPost(t, r, bobToken, gin.H{"caption": "nice headphones", "rating": 4, "category": "audio"})

	w := doJSON(t, r, http.MethodGet, requestPath("/api/posts/user/%d", aliceID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["posts"].([]interface{}), 2)

	w = doJSON(t, r, http.MethodGet, "/api/posts/category/kitchen", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["posts"].([]interface{}), 2)

	w = doJSON(t, r, http.MethodGet, "/api/posts/rating/4", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["posts"].([]interface{}), 2)

	w = doJSON(t, r, http.MethodGet, "/api/posts/rating/9", bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/posts/category/garden", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["posts"])
}

// Posts created in the same instant must not shuffle between pages: the
// reader breaks created_at ties on post id.
func TestTimelinePaginationStableOnEqualTimestamps(t *testing.T) {
	r, db := setupRouter(t)
	token, userID := createUser(t, r, "alice")

	sameInstant := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		post := models.Post{UserID: userID, Caption: "same moment", CreatedAt: sameInstant}
		require.NoError(t, db.Create(&post).Error)
	}

	var seen []float64
	for page := 1; page <= 3; page++ {
		w := doJSON(t, r, http.MethodGet, requestPath("/api/posts/timeline?page=%d&limit=2", page), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		for _, p := range decodeBody(t, w)["posts"].([]interface{}) {
			seen = append(seen, p.(map[string]interface{})["id_post"].(float64))
		}
	}

	require.Len(t, seen, 5)
	unique := map[float64]bool{}
	for _, id := range seen {
		assert.False(t, unique[id], "post %v appeared on two pages", id)
		unique[id] = true
	}
}

func TestUpdatePostOwnership(t *testing.T) {
	r, _ := setupRouter(t)
	aliceToken, _ := createUser(t, r, "alice")
	bobToken, _ := createUser(t, r, "bob")

	postID := createPost(t, r, aliceToken, gin.H{"caption": "original", "rating": 3})

	w := doJSON(t, r, http.MethodPut, requestPath("/api/posts/%d", postID), bobToken, gin.H{"caption": "hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/posts/999999", aliceToken, gin.H{"caption": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, requestPath("/api/posts/%d", postID), aliceToken, gin.H{"caption": "edited", "rating": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	post := decodeBody(t, w)["post"].(map[string]interface{})
	assert.Equal(t, "edited", post["caption"])
	assert.Equal(t, float64(5), post["rating"])
}

func TestDeletePostCascades(t *testing.T) {
	r, db := setupRouter(t)
	aliceToken, _ := createUser(t, r, "alice")
	bobToken, _ := createUser(t, r, "bob")

	postID := createPost(t, r, aliceToken, gin.H{"caption": "short-lived"})

	w := doJSON(t, r, http.MethodPost, requestPath("/api/posts/%d/like", postID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodPost, requestPath("/api/posts/%d/comments", postID), bobToken, gin.H{"comment_text": "nice"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodDelete, requestPath("/api/posts/%d", postID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodDelete, requestPath("/api/posts/%d", postID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var likes, comments, posts int64
	db.Model(&models.Like{}).Where("post_id = ?", postID).Count(&likes)
	db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&comments)
	db.Model(&models.Post{}).Where("id = ?", postID).Count(&posts)
	assert.Zero(t, likes)
	assert.Zero(t, comments)
	assert.Zero(t, posts)
}

func TestGetCategories(t *testing.T) {
	r, _ := setupRouter(t)
	token, _ := createUser(t, r, "alice")

	createPost(t, r, token, gin.H{"caption": "a", "category": "kitchen"})
	createPost(t, r, token, gin.H{"caption": "b", "category": "audio"})
	createPost(t, r, token, gin.H{"caption": "c", "category": "kitchen"})
	createPost(t, r, token, gin.H{"caption": "d"})

	w := doJSON(t, r, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	raw := decodeBody(t, w)["categories"].([]interface{})
	categories := make([]string, len(raw))
	for i, c := range raw {
		categories[i] = c.(string)
	}
	assert.Equal(t, []string{"audio", "kitchen"}, categories)
}

func TestGetPostStats(t *testing.T) {
	r, _ := setupRouter(t)
	aliceToken, _ := createUser(t, r, "alice")
	bobToken, _ := createUser(t, r, "bob")

	postID := createPost(t, r, aliceToken, gin.H{"caption": "stats target"})

	doJSON(t, r, http.MethodPost, requestPath("/api/posts/%d/like", postID), bobToken, nil)
	doJSON(t, r, http.MethodPost, requestPath("/api/posts/%d/comments", postID), bobToken, gin.H{"comment_text": "one"})
	doJSON(t, r, http.MethodPost, requestPath("/api/posts/%d/comments", postID), aliceToken, gin.H{"comment_text": "two"})

	w := doJSON(t, r, http.MethodGet, requestPath("/api/posts/%d/stats", postID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody(t, w)["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["likes_count"])
	assert.Equal(t, float64(2), stats["comments_count"])

	w = doJSON(t, r, http.MethodGet, "/api/posts/999999/stats", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
