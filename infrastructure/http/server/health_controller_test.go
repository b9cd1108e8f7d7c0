package server_test

import (
	"context"
	"fmt"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"skillsync/errors"
	"skillsync/infrastructure/http/server"
	"testing"
)

type healthBody struct {
	Status string `json:"status"`
	Stats  struct {
		OnlineUsers     int   `json:"online_users"`
		OpenConnections int64 `json:"open_connections"`
		Workers         map[string]struct {
			Restarts  uint64 `json:"restarts"`
			Panics    uint64 `json:"panics"`
			LastError string `json:"last_error"`
		} `json:"workers"`
	} `json:"stats"`
}

func TestHealth(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, server.GatewayConfig{})
	sink := &recordingSink{id: "s1"}
	f.gateway.Connect(context.Background(), "alice", sink)
	f.monitoring.RecordWorkerRestart("MessageIndexer", fmt.Errorf("%w: boom", errors.ErrWorkerPanic), true)

	w := f.do(t, http.MethodGet, "/api/health", "", nil)

	req.Equal(http.StatusOK, w.Code)
	body := decode[healthBody](t, w)
	req.Equal("ok", body.Status)
	req.Equal(1, body.Stats.OnlineUsers)
	req.Equal(int64(1), body.Stats.OpenConnections)
	// And supervised worker restarts are visible
	indexer := body.Stats.Workers["MessageIndexer"]
	req.Equal(uint64(1), indexer.Restarts)
	req.Equal(uint64(1), indexer.Panics)
	req.Equal("worker panic: boom", indexer.LastError)
}

func TestCors_Preflight(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, server.GatewayConfig{})

	r := httptest.NewRequest(http.MethodOptions, "/api/chat/messages", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)

	req.Equal(http.StatusNoContent, w.Code)
	req.Equal("http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodOptions, "/api/chat/messages", nil)
	r.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, r)

	req.Empty(w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknown_Route(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, server.GatewayConfig{})

	w := f.do(t, http.MethodGet, "/api/nothing", "", nil)

	req.Equal(http.StatusNotFound, w.Code)
}
