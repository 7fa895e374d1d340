package controllers

import (
	"gorm.io/gorm"

	"github.com/market-meet/api-go/models"
)

// PostFilter narrows the aggregate reader to one slice of the timeline.
// The zero value selects the unfiltered timeline.
type PostFilter struct {
	PostID   uint
	UserID   uint
	Category string
	Rating   int
}

const aggregateSelect = `
	posts.id AS id_post,
	posts.rating AS rating,
	posts.caption AS caption,
	posts.category AS category,
	posts.product_photo AS product_photo,
	posts.product_url AS product_url,
	posts.created_at AS created_at,
	users.id AS id_user,
	users.username AS username,
	(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count,
	(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count,
	EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS is_liked`

// fetchPostAggregates returns one page of post aggregates for the given
// filter, newest first with the post id as an explicit tie-break so pages
// stay stable across requests. Counters come from correlated subqueries:
// joining likes and comments directly would multiply rows and distort the
// counts. A viewerID of 0 matches no likes, so isLiked is false on
// unauthenticated reads.
func fetchPostAggregates(db *gorm.DB, viewerID uint, filter PostFilter, limit, offset int) ([]PostAggregate, error) {
	q := db.Model(&models.Post{}).
		Select(aggregateSelect, viewerID).
		Joins("LEFT JOIN users ON users.id = posts.user_id")

	if filter.PostID != 0 {
		q = q.Where("posts.id = ?", filter.PostID)
	}
	if filter.UserID != 0 {
		q = q.Where("posts.user_id = ?", filter.UserID)
	}
	if filter.Category != "" {
		q = q.Where("posts.category = ?", filter.Category)
	}
	if filter.Rating != 0 {
		q = q.Where("posts.rating = ?", filter.Rating)
	}

	q = q.Order("posts.created_at DESC, posts.id ASC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var aggregates []PostAggregate
	if err := q.Scan(&aggregates).Error; err != nil {
		return nil, err
	}
	if aggregates == nil {
		aggregates = []PostAggregate{}
	}
	return aggregates, nil
}

// fetchPostAggregate loads the aggregate for a single post, or nil when the
// post no longer exists.
func fetchPostAggregate(db *gorm.DB, viewerID, postID uint) (*PostAggregate, error) {
	aggregates, err := fetchPostAggregates(db, viewerID, PostFilter{PostID: postID}, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(aggregates) == 0 {
		return nil, nil
	}
	return &aggregates[0], nil
}
