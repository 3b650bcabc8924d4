package config

import "time"

const (
	// Text limits
	MaxMessageLength     = 500
	MaxDisplayNameLength = 30
	MaxJournalLength     = 2000
	MaxStatusLength      = 100
	MaxAvatarLength      = 500
	MinUsernameLength    = 3
	MaxUsernameLength    = 30

	// Listing caps
	HeartListLimit      = 20
	PendingRequestLimit = 20
	MatchListLimit      = 20
	MatchActivityWindow = time.Hour

	// Realtime transport
	WSWriteWait      = 10 * time.Second
	WSPongWait       = 60 * time.Second
	WSPingPeriod     = (WSPongWait * 9) / 10
	WSMaxMessageSize = 8192
	WSSendBuffer     = 256

	DefaultDisplayName = "Anonymous"
)
