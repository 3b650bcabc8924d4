package common_test

import (
	"errors"
	"fmt"
	"moodmingle/backend/internal/common"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, common.KindValidation, common.KindOf(common.Validation("bad")))
	assert.Equal(t, common.KindNotFound, common.KindOf(fmt.Errorf("wrapped: %w", common.NotFound("gone"))))
	assert.Equal(t, common.KindInternal, common.KindOf(errors.New("boom")))
}

func TestNotFoundMatchesSentinel(t *testing.T) {
	assert.ErrorIs(t, common.NotFound("Chat request not found"), common.ErrNotFound)
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Invalid user ID", common.PublicMessage(common.Validation("Invalid user ID"), "generic"))
	assert.Equal(t, "generic", common.PublicMessage(common.Internal("db down", errors.New("dial")), "generic"))
	assert.Equal(t, "generic", common.PublicMessage(errors.New("raw"), "generic"))
}

func TestErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", common.Validation("Invalid mood ID"), http.StatusBadRequest, `{"error":"Invalid mood ID"}`},
		{"not found", common.NotFound("User not found"), http.StatusNotFound, `{"error":"User not found"}`},
		{"internal is generic", errors.New("pq: connection refused"), http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			common.ErrorResponse(c, zerolog.Nop(), tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
