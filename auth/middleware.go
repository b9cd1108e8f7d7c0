package auth

import (
	"context"
	"errors"
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
	"skillsync/domain"
	cerrors "skillsync/errors"
	"strings"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	ginUserID            = "user_id"
)

// UserLookup is the part of the user store the middleware needs.
type UserLookup interface {
	GetUserByID(id string) (domain.User, error)
}

// BearerToken returns the token of the Authorization header, or the "token"
// query parameter when the header is absent.
func BearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return r.URL.Query().Get("token")
}

// IdentifyRequest resolves the caller of r. No token yields an empty identity,
// an invalid token yields errors.ErrUnauthorized.
func (m *TokenManager) IdentifyRequest(r *http.Request) (string, error) {
	token := BearerToken(r)
	if token == "" {
		return "", nil
	}
	claims, err := m.Validate(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// RequireAuth rejects requests without a valid token or whose user no longer exists.
// The user id is stored in both the gin and the request context.
func RequireAuth(tokens *TokenManager, users UserLookup, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.Request)
		if token == "" {
			abortUnauthorized(c)
			return
		}
		claims, err := tokens.Validate(token)
		if err != nil {
			log.Debug("Token rejected", "path", c.FullPath(), "error", err)
			abortUnauthorized(c)
			return
		}
		if _, err := users.GetUserByID(claims.UserID); err != nil {
			if errors.Is(err, cerrors.ErrUserNotFound) {
				abortUnauthorized(c)
				return
			}
			log.Error("Cannot load authenticated user", "user_id", claims.UserID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}

		c.Set(ginUserID, claims.UserID)
		c.Request = c.Request.WithContext(WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// UserID returns the authenticated user set by RequireAuth.
func UserID(c *gin.Context) string {
	return c.GetString(ginUserID)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": cerrors.ErrUnauthorized.Error()})
}
