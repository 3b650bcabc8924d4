package validation_test

import (
	"moodmingle/backend/internal/common"
	"moodmingle/backend/internal/validation"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidation(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, common.KindValidation, common.KindOf(err))
	assert.Equal(t, msg, common.PublicMessage(err, ""))
}

func TestMoodID(t *testing.T) {
	for _, mood := range []string{"happy", "chill", "energetic", "sad", "romantic"} {
		got, err := validation.MoodID(mood)
		assert.NoError(t, err)
		assert.Equal(t, mood, got)
	}

	got, err := validation.MoodID("ChiLL")
	assert.NoError(t, err)
	assert.Equal(t, "chill", got, "mood ids are case-insensitive and lowercased")

	got, err = validation.MoodID(" Happy ")
	assert.NoError(t, err)
	assert.Equal(t, "happy", got, "surrounding whitespace is ignored like on join")

	_, err = validation.MoodID("angry")
	assertValidation(t, err, "Invalid mood ID")

	_, err = validation.MoodID(nil)
	assertValidation(t, err, "Mood ID is required and must be a string")

	_, err = validation.MoodID(float64(3))
	assertValidation(t, err, "Mood ID is required and must be a string")
}

func TestUserID(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  uint
		ok    bool
	}{
		{"json number", float64(12), 12, true},
		{"numeric string", "7", 7, true},
		{"leading digits", "42abc", 42, true},
		{"fraction truncates", 3.9, 3, true},
		{"padded string", "  5", 5, true},
		{"zero", float64(0), 0, false},
		{"negative", "-4", 0, false},
		{"letters", "abc", 0, false},
		{"empty", "", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validation.UserID(tt.input)
			if !tt.ok {
				assertValidation(t, err, "Invalid user ID")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessageText(t *testing.T) {
	got, err := validation.MessageText("  hello  ")
	assert.NoError(t, err)
	assert.Equal(t, "hello", got)

	exact := strings.Repeat("a", 500)
	got, err = validation.MessageText(exact)
	assert.NoError(t, err, "exactly 500 characters is allowed")
	assert.Len(t, got, 500)

	_, err = validation.MessageText(strings.Repeat("a", 501))
	assertValidation(t, err, "Message text cannot exceed 500 characters")

	got, err = validation.MessageText("  " + exact + "  ")
	assert.NoError(t, err, "length is measured after trimming")
	assert.Len(t, got, 500)

	_, err = validation.MessageText(strings.Repeat("é", 500))
	assert.NoError(t, err, "length counts characters, not bytes")

	_, err = validation.MessageText("   ")
	assertValidation(t, err, "Message text is required and must be a string")

	_, err = validation.MessageText(float64(5))
	assertValidation(t, err, "Message text is required and must be a string")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Anonymous", validation.DisplayName(nil))
	assert.Equal(t, "Anonymous", validation.DisplayName(""))
	assert.Equal(t, "Anonymous", validation.DisplayName("   "))
	assert.Equal(t, "Anonymous", validation.DisplayName(false))
	assert.Equal(t, "bob", validation.DisplayName(" bob "))
	assert.Equal(t, strings.Repeat("x", 30), validation.DisplayName(strings.Repeat("x", 45)))
	assert.Equal(t, "12", validation.DisplayName(float64(12)))
}

func TestUsername(t *testing.T) {
	got, err := validation.Username("mood_fan-99")
	assert.NoError(t, err)
	assert.Equal(t, "mood_fan-99", got)

	_, err = validation.Username("ab")
	assertValidation(t, err, "Username must be between 3 and 30 characters")

	_, err = validation.Username(strings.Repeat("a", 31))
	assertValidation(t, err, "Username must be between 3 and 30 characters")

	_, err = validation.Username("bad name!")
	assertValidation(t, err, "Username can only contain letters, numbers, underscores, and hyphens")

	_, err = validation.Username(nil)
	assertValidation(t, err, "Username is required and must be a string")
}

func TestJournalText(t *testing.T) {
	_, err := validation.JournalText(strings.Repeat("j", 2000))
	assert.NoError(t, err)

	_, err = validation.JournalText(strings.Repeat("j", 2001))
	assertValidation(t, err, "Journal text cannot exceed 2000 characters")

	_, err = validation.JournalText("")
	assertValidation(t, err, "Journal text is required and must be a string")
}

func TestStatusAndAvatar(t *testing.T) {
	_, err := validation.Status(strings.Repeat("s", 100))
	assert.NoError(t, err)

	_, err = validation.Status(strings.Repeat("s", 101))
	assertValidation(t, err, "Status must be a string with max 100 characters")

	_, err = validation.Avatar(float64(1))
	assertValidation(t, err, "Avatar must be a string with max 500 characters")
}

func TestRequestID(t *testing.T) {
	id, err := validation.RequestID(float64(3))
	assert.NoError(t, err)
	assert.Equal(t, uint(3), id)

	_, err = validation.RequestID("x")
	assertValidation(t, err, "Invalid request ID")
}
