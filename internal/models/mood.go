package models

import (
	"strings"
	"time"
)

// Mood describes one of the fixed moods. Mood ids double as chat room ids.
type Mood struct {
	ID    string `json:"id"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// Moods is the full, ordered set of supported moods.
var Moods = []Mood{
	{ID: "happy", Emoji: "😊", Label: "Vibing"},
	{ID: "chill", Emoji: "😌", Label: "Chill"},
	{ID: "energetic", Emoji: "⚡", Label: "Hyped"},
	{ID: "sad", Emoji: "😔", Label: "Low"},
	{ID: "romantic", Emoji: "🥰", Label: "Love"},
}

// FindMood looks a mood up by id, ignoring case.
func FindMood(id string) (Mood, bool) {
	id = strings.ToLower(id)
	for _, m := range Moods {
		if m.ID == id {
			return m, true
		}
	}
	return Mood{}, false
}

// MoodLog records every mood a user has picked.
type MoodLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	MoodID    string    `gorm:"size:20;not null" json:"moodId"`
	CreatedAt time.Time `json:"createdAt"`
}

// JournalEntry is a private note. Date and Time are client-supplied labels.
type JournalEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Date      string    `gorm:"size:50" json:"date"`
	Time      string    `gorm:"size:50" json:"time"`
	CreatedAt time.Time `json:"createdAt"`
}
