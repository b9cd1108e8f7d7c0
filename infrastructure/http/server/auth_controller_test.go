package server_test

import (
	"fmt"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"net/http"
	"skillsync/auth"
	"skillsync/errors"
	"skillsync/infrastructure/http/server"
	"skillsync/services"
	"testing"
)

func TestAuth_Signup(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, server.GatewayConfig{})
	session := services.Session{Token: "jwt", User: services.UserProfile{ID: "u1", Name: "Alice", Email: "alice@example.com"}}

	f.accounts.EXPECT().Register(gomock.Any(), auth.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "secret1"}).
		Return(session, nil)

	w := f.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	})

	req.Equal(http.StatusCreated, w.Code)
	req.Equal(session, decode[services.Session](t, w))
}

func TestAuth_Signup_Conflict(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, server.GatewayConfig{})
	f.accounts.EXPECT().Register(gomock.Any(), gomock.Any()).
		Return(services.Session{}, fmt.Errorf("%w: alice@example.com", errors.ErrUserAlreadyExists))

	w := f.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret1",
	})

	req.Equal(http.StatusConflict, w.Code)
}

func TestAuth_Login_Invalid_Credentials(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, server.GatewayConfig{})
	f.accounts.EXPECT().Login(gomock.Any(), auth.LoginRequest{Email: "alice@example.com", Password: "wrong"}).
		Return(services.Session{}, errors.ErrInvalidCredentials)

	w := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "alice@example.com", "password": "wrong"})

	req.Equal(http.StatusUnauthorized, w.Code)
	req.Equal(errors.ErrInvalidCredentials.Error(), messageOf(t, w))
}

func TestAuth_CurrentUser(t *testing.T) {
	req := require.New(t)
	f := newAPIFixture(t, server.GatewayConfig{})
	profile := services.UserProfile{ID: "alice", Name: "Alice"}
	f.accounts.EXPECT().CurrentUser(gomock.Any(), "alice").Return(profile, nil)

	w := f.do(t, http.MethodGet, "/api/auth/user", "alice", nil)
	req.Equal(http.StatusOK, w.Code)
	req.Equal(profile, decode[services.UserProfile](t, w))

	w = f.do(t, http.MethodGet, "/api/auth/user", "", nil)
	req.Equal(http.StatusUnauthorized, w.Code)
}
