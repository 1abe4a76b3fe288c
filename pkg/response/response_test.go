package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/booking_api/pkg/errors"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{code: errors.ErrCodeNotFound, want: http.StatusNotFound},
		{code: errors.ErrCodeInsufficientBalance, want: http.StatusConflict},
		{code: errors.ErrCodeAlreadyCheckedIn, want: http.StatusConflict},
		{code: errors.ErrCodeConfigurationMissing, want: http.StatusServiceUnavailable},
		{code: errors.ErrCodeValidation, want: http.StatusBadRequest},
		{code: errors.ErrCodeUnauthorized, want: http.StatusUnauthorized},
		{code: errors.ErrCodeForbidden, want: http.StatusForbidden},
		{code: errors.ErrCodeRateLimitExceeded, want: http.StatusTooManyRequests},
		{code: errors.ErrCodePersistenceFailure, want: http.StatusInternalServerError},
		{code: "", want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.code); got != tt.want {
			t.Errorf("HTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "Client error keeps its message",
			err:         errors.New(errors.ErrCodeInsufficientBalance, "insufficient points: have 3, need 5"),
			wantStatus:  http.StatusConflict,
			wantCode:    errors.ErrCodeInsufficientBalance,
			wantMessage: "insufficient points: have 3, need 5",
		},
		{
			name:        "Persistence failure is hidden",
			err:         errors.Wrap(fmt.Errorf("pq: deadlock detected"), errors.ErrCodePersistenceFailure, "failed to update balance"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    errors.ErrCodePersistenceFailure,
			wantMessage: "internal server error",
		},
		{
			name:        "Plain error",
			err:         fmt.Errorf("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    errors.ErrCodeInternalError,
			wantMessage: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var body Body
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body.Status != StatusError || body.Code != tt.wantCode || body.Message != tt.wantMessage {
				t.Errorf("body = %+v", body)
			}
			if !c.IsAborted() {
				t.Error("Error() did not abort the chain")
			}
		})
	}
}
