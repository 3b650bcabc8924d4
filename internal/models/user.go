package models

import (
	"fmt"
	"time"
)

// DefaultStatus is assigned to freshly created users.
const DefaultStatus = "Just joined!"

// User представляє користувача в системі.
// Username is unique; the avatar is a URL and the current mood mirrors the latest MoodLog.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Avatar        string    `gorm:"size:500" json:"avatar"`
	Status        string    `gorm:"size:100" json:"status"`
	CurrentMoodID *string   `gorm:"size:20;index" json:"currentMoodId"`
	LastActive    time.Time `gorm:"index" json:"lastActive"`
	CreatedAt     time.Time `json:"createdAt"`
}

// DefaultAvatar returns the generated avatar URL used when a user provides none.
func DefaultAvatar(username string) string {
	return fmt.Sprintf("https://i.pravatar.cc/150?u=%s", username)
}

// PublicInfo is the display data other users may see next to a user's activity.
type PublicInfo struct {
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// MatchedUser is one row of the mood match list.
type MatchedUser struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Status string `json:"status"`
	MoodID string `json:"moodId"`
}
