package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/pixelpages/internal/service"
)

func TestParseOptionalDate(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}

	got, ok := parseOptionalDate(" 2025-03-01 ", loc)
	if !ok || got == nil {
		t.Fatalf("expected date to parse")
	}
	if got.Location() != loc || got.Day() != 1 || got.Hour() != 0 {
		t.Fatalf("expected local midnight, got %v", got)
	}

	if got, ok := parseOptionalDate("", loc); !ok || got != nil {
		t.Fatalf("expected blank date to be optional, got %v ok=%v", got, ok)
	}
	if _, ok := parseOptionalDate("03/01/2025", loc); ok {
		t.Fatal("expected invalid format to fail")
	}
}

func TestParseOptionalUint(t *testing.T) {
	if v, ok := parseOptionalUint("42"); !ok || v == nil || *v != 42 {
		t.Fatalf("unexpected parse result: %v ok=%v", v, ok)
	}
	if v, ok := parseOptionalUint(""); !ok || v != nil {
		t.Fatalf("expected nil for blank, got %v", v)
	}
	if _, ok := parseOptionalUint("-1"); ok {
		t.Fatal("expected negative value to fail")
	}
}

func TestServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		handle func(*gin.Context, error)
		err    error
		status int
	}{
		{name: "note missing", handle: handleNoteError, err: service.ErrNoteNotFound, status: http.StatusNotFound},
		{name: "note empty", handle: handleNoteError, err: service.ErrNoteEmpty, status: http.StatusBadRequest},
		{name: "folder exists", handle: handleFolderError, err: fmt.Errorf("create: %w", service.ErrFolderExists), status: http.StatusConflict},
		{name: "task priority", handle: handleTaskError, err: service.ErrTaskInvalidPriority, status: http.StatusBadRequest},
		{name: "focus duration", handle: handleFocusError, err: fmt.Errorf("%w: 0 minutes", service.ErrFocusInvalidDuration), status: http.StatusBadRequest},
		{name: "unexpected", handle: handleTaskError, err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)
			tt.handle(c, tt.err)

			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rr.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Fatalf("expected error body, got %q", rr.Body.String())
			}
		})
	}
}

func TestAuthRequiredSetsActor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.GET("/login", func(c *gin.Context) {
		if saveSession(c, "alice") {
			c.Status(http.StatusNoContent)
		}
	})
	r.GET("/whoami", AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, currentActor(c))
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/login", nil))
	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "alice" {
		t.Fatalf("expected actor alice, got %d %q", rr.Code, rr.Body.String())
	}
}
