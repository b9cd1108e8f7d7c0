package server

import (
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
	"skillsync/auth"
	"skillsync/services"
)

type ProfileController struct {
	log     *slog.Logger
	service services.IProfileService
}

func NewProfileController(log *slog.Logger, service services.IProfileService) *ProfileController {
	return &ProfileController{log: log, service: service}
}

func (ctl *ProfileController) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := ctl.service.GetProfile(c.Request.Context(), auth.UserID(c))
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func (ctl *ProfileController) Update() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.UpdateProfileRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, ctl.log, err)
			return
		}
		profile, err := ctl.service.UpdateProfile(c.Request.Context(), auth.UserID(c), req)
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}
