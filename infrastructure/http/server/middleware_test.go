package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"skillsync/auth"
	"testing"
)

func newLoggedRouter(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	router := gin.New()
	router.Use(RequestLogger(log))
	router.GET("/private", func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), "alice"))
		c.Status(http.StatusOK)
	})
	router.GET("/public", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/broken", func(c *gin.Context) {
		writeError(c, log, fmt.Errorf("badger: disk full"))
	})
	return router
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestRequestLogger_Carries_Authenticated_Caller(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	router := newLoggedRouter(&buf)

	// When an authenticated request is served
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/private", nil))

	// Then the access line names the caller
	entry := lastLine(t, &buf)
	req.Equal("HTTP request", entry["msg"])
	req.Equal("alice", entry["user_id"])
	req.Equal(float64(http.StatusOK), entry["status"])

	// And anonymous requests carry no caller
	buf.Reset()
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/public", nil))
	req.NotContains(lastLine(t, &buf), "user_id")
}

func TestWriteError_Hides_Internal_Errors(t *testing.T) {
	req := require.New(t)
	var buf bytes.Buffer
	router := newLoggedRouter(&buf)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broken", nil))

	req.Equal(http.StatusInternalServerError, w.Code)
	req.JSONEq(`{"message":"internal server error"}`, w.Body.String())
	req.Contains(buf.String(), "disk full")
}
