package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"rabet/internal/domain"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doDomainError(t *testing.T, err error) (int, errorEnvelope) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondDomainError(c, err)
	var env errorEnvelope
	if jerr := json.Unmarshal(w.Body.Bytes(), &env); jerr != nil {
		t.Fatalf("bad envelope %q: %v", w.Body.String(), jerr)
	}
	return w.Code, env
}

func TestRespondDomainErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"insufficient balance", domain.ErrInsufficientBalance, http.StatusBadRequest, "bad_request"},
		{"already unlocked", domain.ErrAlreadyUnlocked, http.StatusBadRequest, "bad_request"},
		{"not published", domain.ErrRequestNotPublished, http.StatusBadRequest, "bad_request"},
		{"already refunded", domain.ErrAlreadyRefunded, http.StatusBadRequest, "bad_request"},
		{"zero amount", domain.ErrZeroAmount, http.StatusBadRequest, "bad_request"},
		{"request not found", domain.ErrRequestNotFound, http.StatusNotFound, "not_found"},
		{"wallet not found", domain.ErrWalletNotFound, http.StatusNotFound, "not_found"},
		{"unlock not found", domain.ErrUnlockNotFound, http.StatusNotFound, "not_found"},
		{"provider not approved", domain.ErrProviderNotApproved, http.StatusForbidden, "forbidden"},
		{"wallet integrity", domain.ErrWalletIntegrity, http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, env := doDomainError(t, tc.err)
			if status != tc.wantStatus {
				t.Errorf("status: got %d, want %d", status, tc.wantStatus)
			}
			if env.Error.Code != tc.wantCode {
				t.Errorf("code: got %s, want %s", env.Error.Code, tc.wantCode)
			}
			if env.Error.Message == "" {
				t.Error("message must not be empty")
			}
		})
	}
}

// Unknown errors map to 500 and must not leak their message.
func TestRespondDomainErrorUnknownDoesNotLeak(t *testing.T) {
	status, env := doDomainError(t, errors.New("sql: connection refused to db-internal:3306"))
	if status != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", status)
	}
	if env.Error.Message != "internal error" {
		t.Errorf("leaked message: %q", env.Error.Message)
	}
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 20},
		{"page=3&limit=50", 3, 50},
		{"page=0&limit=0", 1, 20},
		{"page=-2&limit=500", 1, 20},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		page, limit := parsePagination(c)
		if page != tc.wantPage || limit != tc.wantLimit {
			t.Errorf("query %q: got (%d, %d), want (%d, %d)", tc.query, page, limit, tc.wantPage, tc.wantLimit)
		}
	}
}
