package models

import (
	"time"
)

// Post is a product review. Rating is optional; Caption is the only
// required field.
type Post struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id_post"`
	UserID       uint      `gorm:"not null;index" json:"id_user"`
	User         User      `json:"-" gorm:"foreignKey:UserID"`
	Rating       *int      `gorm:"check:rating between 1 and 5" json:"rating"`
	Caption      string    `gorm:"not null;type:text" json:"caption"`
	Category     string    `gorm:"type:varchar(100);index" json:"category"`
	ProductPhoto string    `json:"product_photo"`
	ProductURL   string    `json:"product_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Comments []Comment `json:"-" gorm:"foreignKey:PostID"`
	Likes    []Like    `json:"-" gorm:"foreignKey:PostID"`
}
