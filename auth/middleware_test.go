package auth

import (
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"skillsync/domain"
	cerrors "skillsync/errors"
	"testing"
	"time"
)

type fakeUsers map[string]error

func (f fakeUsers) GetUserByID(id string) (domain.User, error) {
	if err, ok := f[id]; ok {
		return domain.User{}, err
	}
	return domain.User{}, fmt.Errorf("%w: %s", cerrors.ErrUserNotFound, id)
}

func newProtectedRouter(manager *TokenManager, users UserLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/private", RequireAuth(manager, users, logs.GetLoggerFromLevel(slog.LevelDebug)), func(c *gin.Context) {
		fromCtx, _ := UserIDFromContext(c.Request.Context())
		c.String(http.StatusOK, UserID(c)+"|"+fromCtx)
	})
	return router
}

func TestRequireAuth(t *testing.T) {
	manager := NewTokenManager(testSecret, "skillsync", time.Hour)
	users := fakeUsers{"alice": nil, "broken": fmt.Errorf("disk on fire")}
	router := newProtectedRouter(manager, users)

	token := func(userID string) string {
		signed, err := manager.Generate(userID, nil)
		require.NoError(t, err)
		return signed
	}

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{name: "Valid token", header: "Bearer " + token("alice"), status: http.StatusOK, body: "alice|alice"},
		{name: "Missing header", header: "", status: http.StatusUnauthorized},
		{name: "Wrong scheme", header: "Basic " + token("alice"), status: http.StatusUnauthorized},
		{name: "Invalid token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "Deleted user", header: "Bearer " + token("ghost"), status: http.StatusUnauthorized},
		{name: "Store failure", header: "Bearer " + token("broken"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			r := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, r)

			req.Equal(tt.status, w.Code)
			if tt.body != "" {
				req.Equal(tt.body, w.Body.String())
			}
		})
	}
}
