// Package validation holds the input rules shared by the realtime and REST surfaces.
// Every validator returns the sanitized value or a common.Validation error whose
// message is shown to the caller as is.
package validation

import (
	"fmt"
	"moodmingle/backend/internal/common"
	"moodmingle/backend/internal/config"
	"moodmingle/backend/internal/models"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	msgMoodRequired     = "Mood ID is required and must be a string"
	msgMoodInvalid      = "Invalid mood ID"
	msgUserIDInvalid    = "Invalid user ID"
	msgRequestIDInvalid = "Invalid request ID"
	msgTextRequired     = "Message text is required and must be a string"
	msgTextTooLong      = "Message text cannot exceed 500 characters"
	msgUsernameRequired = "Username is required and must be a string"
	msgUsernameLength   = "Username must be between 3 and 30 characters"
	msgUsernameChars    = "Username can only contain letters, numbers, underscores, and hyphens"
	msgJournalRequired  = "Journal text is required and must be a string"
	msgJournalTooLong   = "Journal text cannot exceed 2000 characters"
	msgStatusInvalid    = "Status must be a string with max 100 characters"
	msgAvatarInvalid    = "Avatar must be a string with max 500 characters"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MoodID accepts one of the five moods in any case, ignoring surrounding whitespace, and returns it lowercased.
func MoodID(v any) (string, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", common.Validation(msgMoodRequired)
	}
	mood, found := models.FindMood(strings.TrimSpace(s))
	if !found {
		return "", common.Validation(msgMoodInvalid)
	}
	return mood.ID, nil
}

// UserID coerces v to a positive integer the way a lenient integer parse would:
// leading digits of a string count, fractional numbers are truncated.
func UserID(v any) (uint, error) {
	return positiveID(v, msgUserIDInvalid)
}

// RequestID applies the UserID coercion to a chat request id.
func RequestID(v any) (uint, error) {
	return positiveID(v, msgRequestIDInvalid)
}

func positiveID(v any, msg string) (uint, error) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case uint:
		s = strconv.FormatUint(uint64(t), 10)
	case fmt.Stringer:
		s = t.String()
	default:
		return 0, common.Validation(msg)
	}

	n, ok := leadingInt(s)
	if !ok || n <= 0 {
		return 0, common.Validation(msg)
	}
	return uint(n), nil
}

// leadingInt parses optional whitespace, an optional sign and the digits that follow.
func leadingInt(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MessageText trims v and enforces a non-empty text of at most 500 characters.
func MessageText(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", common.Validation(msgTextRequired)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", common.Validation(msgTextRequired)
	}
	if utf8.RuneCountInString(s) > config.MaxMessageLength {
		return "", common.Validation(msgTextTooLong)
	}
	return s, nil
}

// DisplayName never fails: it trims, truncates to 30 characters and falls back to "Anonymous".
func DisplayName(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return config.DefaultDisplayName
	case string:
		s = t
	case bool:
		if !t {
			return config.DefaultDisplayName
		}
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprint(t)
	}

	s = truncate(strings.TrimSpace(s), config.MaxDisplayNameLength)
	if s == "" {
		return config.DefaultDisplayName
	}
	return s
}

// TimeLabel passes a client supplied time label through as an opaque string.
func TimeLabel(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return truncate(t, 50)
	default:
		return truncate(fmt.Sprint(t), 50)
	}
}

// Username enforces 3 to 30 characters of letters, digits, underscores and hyphens.
func Username(v any) (string, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", common.Validation(msgUsernameRequired)
	}
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n < config.MinUsernameLength || n > config.MaxUsernameLength {
		return "", common.Validation(msgUsernameLength)
	}
	if !usernamePattern.MatchString(s) {
		return "", common.Validation(msgUsernameChars)
	}
	return s, nil
}

// JournalText enforces a non-empty entry of at most 2000 characters.
func JournalText(v any) (string, error) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", common.Validation(msgJournalRequired)
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > config.MaxJournalLength {
		return "", common.Validation(msgJournalTooLong)
	}
	return s, nil
}

func Status(v any) (string, error) {
	s, ok := v.(string)
	if !ok || utf8.RuneCountInString(s) > config.MaxStatusLength {
		return "", common.Validation(msgStatusInvalid)
	}
	return s, nil
}

func Avatar(v any) (string, error) {
	s, ok := v.(string)
	if !ok || utf8.RuneCountInString(s) > config.MaxAvatarLength {
		return "", common.Validation(msgAvatarInvalid)
	}
	return s, nil
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
