package models

import (
	"time"
)

// Comment is append-only: rows are inserted and deleted, never updated.
type Comment struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id_comment"`
	PostID      uint      `gorm:"not null;index" json:"id_post"`
	UserID      uint      `gorm:"not null" json:"id_user"`
	CommentText string    `gorm:"type:text" json:"comment_text"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}
