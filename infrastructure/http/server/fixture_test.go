package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"github.com/gin-gonic/gin"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"log/slog"
	"net/http/httptest"
	"skillsync/auth"
	"skillsync/domain"
	"skillsync/infrastructure/http/server"
	"skillsync/mocks"
	"skillsync/observability"
	"skillsync/runtime"
	"testing"
	"time"
)

type apiFixture struct {
	router        *gin.Engine
	tokens        *auth.TokenManager
	conversations *mocks.MockIConversationService
	accounts      *mocks.MockIAuthService
	tasks         *mocks.MockITaskService
	rewards       *mocks.MockIRewardsService
	profiles      *mocks.MockIProfileService
	finder        *mocks.MockConversationFinder
	gateway       *runtime.Gateway
	monitoring    *observability.MonitoringManager
}

func newAPIFixture(t *testing.T, gatewayConfig server.GatewayConfig) apiFixture {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	users := mocks.NewMockIUserRepository(ctrl)
	users.EXPECT().GetUserByID(gomock.Any()).
		DoAndReturn(func(id string) (domain.User, error) { return domain.User{ID: id}, nil }).
		AnyTimes()

	f := apiFixture{
		tokens:        auth.NewTokenManager("test-secret", "skillsync", time.Hour),
		conversations: mocks.NewMockIConversationService(ctrl),
		accounts:      mocks.NewMockIAuthService(ctrl),
		tasks:         mocks.NewMockITaskService(ctrl),
		rewards:       mocks.NewMockIRewardsService(ctrl),
		profiles:      mocks.NewMockIProfileService(ctrl),
		finder:        mocks.NewMockConversationFinder(ctrl),
		monitoring:    observability.NewMonitoringManager(log),
	}
	f.gateway = runtime.NewGateway(log, runtime.NewRegistry(), f.finder, f.monitoring, time.Second)
	if gatewayConfig.BufferSize == 0 {
		gatewayConfig.BufferSize = 16
	}
	f.router = server.NewRouter(log, f.tokens, users, []string{"http://localhost:3000"}, server.Controllers{
		Auth:    server.NewAuthController(log, f.accounts),
		Tasks:   server.NewTaskController(log, f.tasks),
		Rewards: server.NewRewardsController(log, f.rewards),
		Profile: server.NewProfileController(log, f.profiles),
		Chat:    server.NewChatController(log, f.conversations),
		Health:  server.NewHealthController(f.monitoring, f.gateway),
		Gateway: server.NewGatewayController(ctx, log, f.tokens, f.gateway, gatewayConfig),
	})
	return f
}

func (f apiFixture) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := f.tokens.Generate(userID, []string{"user"})
	require.NoError(t, err)
	return token
}

// do sends a request as userID, an empty userID sends no token.
func (f apiFixture) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}
	r := httptest.NewRequest(method, path, bytes.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")
	if userID != "" {
		r.Header.Set("Authorization", "Bearer "+f.token(t, userID))
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[map[string]string](t, w)["message"]
}

