package server

import (
	"github.com/gin-gonic/gin"
	"net/http"
	"skillsync/observability"
	"time"
)

// OnlineCounter reports how many identified users are connected.
type OnlineCounter interface {
	OnlineCount() int
}

type HealthController struct {
	monitoring *observability.MonitoringManager
	online     OnlineCounter
	startedAt  time.Time
}

func NewHealthController(monitoring *observability.MonitoringManager, online OnlineCounter) *HealthController {
	return &HealthController{monitoring: monitoring, online: online, startedAt: time.Now()}
}

type healthResponse struct {
	Status string                        `json:"status"`
	Uptime string                        `json:"uptime"`
	Stats  observability.MonitoringStats `json:"stats"`
}

func (ctl *HealthController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, healthResponse{
			Status: "ok",
			Uptime: time.Since(ctl.startedAt).Truncate(time.Second).String(),
			Stats:  ctl.monitoring.GetLatest(ctl.online.OnlineCount()),
		})
	}
}
