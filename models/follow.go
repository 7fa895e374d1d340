package models

import (
	"time"
)

// Follow is a directed relationship, unique per ordered pair. Self-follows
// are rejected in the controller.
type Follow struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowerUserID  uint      `gorm:"not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FollowingUserID uint      `gorm:"not null;uniqueIndex:idx_follows_pair" json:"following_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`

	FollowerUser  User `gorm:"foreignKey:FollowerUserID" json:"-"`
	FollowingUser User `gorm:"foreignKey:FollowingUserID" json:"-"`
}
