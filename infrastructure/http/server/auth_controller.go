package server

import (
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
	"skillsync/auth"
	"skillsync/services"
)

type AuthController struct {
	log     *slog.Logger
	service services.IAuthService
}

func NewAuthController(log *slog.Logger, service services.IAuthService) *AuthController {
	return &AuthController{log: log, service: service}
}

// Signup creates an account and returns a session, 201 on success.
func (ctl *AuthController) Signup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req auth.RegisterRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, ctl.log, err)
			return
		}
		session, err := ctl.service.Register(c.Request.Context(), req)
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusCreated, session)
	}
}

func (ctl *AuthController) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req auth.LoginRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, ctl.log, err)
			return
		}
		session, err := ctl.service.Login(c.Request.Context(), req)
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func (ctl *AuthController) CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := ctl.service.CurrentUser(c.Request.Context(), auth.UserID(c))
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}
