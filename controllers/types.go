package controllers

import "time"

// PostAggregate is the denormalized view of a post returned by every
// listing endpoint: base fields, author username, live counters, and the
// viewer-relative isLiked flag. Recomputed on each read, never cached.
type PostAggregate struct {
	IDPost        uint      `json:"id_post" gorm:"column:id_post"`
	Rating        *int      `json:"rating" gorm:"column:rating"`
	Caption       string    `json:"caption" gorm:"column:caption"`
	Category      string    `json:"category" gorm:"column:category"`
	ProductPhoto  string    `json:"product_photo" gorm:"column:product_photo"`
	ProductURL    string    `json:"product_url" gorm:"column:product_url"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
	IDUser        uint      `json:"id_user" gorm:"column:id_user"`
	Username      string    `json:"username" gorm:"column:username"`
	LikesCount    int64     `json:"likes_count" gorm:"column:likes_count"`
	CommentsCount int64     `json:"comments_count" gorm:"column:comments_count"`
	IsLiked       bool      `json:"isLiked" gorm:"column:is_liked"`
}

type Pagination struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
