package models

import (
	"time"
)

// Like records that one account likes one post. The composite unique index
// is load-bearing: the toggle in the interaction controller relies on it to
// keep at most one row per (post, user) pair under concurrent requests.
type Like struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id_like"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"id_post"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"id_user"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}
