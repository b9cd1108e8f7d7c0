package server

import (
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
	"skillsync/auth"
	"skillsync/services"
)

type RewardsController struct {
	log     *slog.Logger
	service services.IRewardsService
}

func NewRewardsController(log *slog.Logger, service services.IRewardsService) *RewardsController {
	return &RewardsController{log: log, service: service}
}

func (ctl *RewardsController) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		rewards, err := ctl.service.GetRewards(c.Request.Context(), auth.UserID(c))
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, rewards)
	}
}

func (ctl *RewardsController) Leaderboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		board, err := ctl.service.Leaderboard(c.Request.Context())
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, board)
	}
}

func (ctl *RewardsController) Redeem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.RedeemRequest
		if err := bindJSON(c, &req); err != nil {
			writeError(c, ctl.log, err)
			return
		}
		redeemed, err := ctl.service.Redeem(c.Request.Context(), auth.UserID(c), req)
		if err != nil {
			writeError(c, ctl.log, err)
			return
		}
		c.JSON(http.StatusOK, redeemed)
	}
}
