package server

import (
	"context"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"log/slog"
	"net/http"
	"skillsync/auth"
	"skillsync/errors"
	"skillsync/runtime"
	"skillsync/sink"
	"time"
)

const identityQueryParam = "userId"

// GatewayConfig tunes the websocket endpoint.
type GatewayConfig struct {
	AllowedOrigins []string
	BufferSize     int
	MaxFrameBytes  int64
	PingPeriod     time.Duration
	PongWait       time.Duration
	// TrustQueryIdentity honours the unverified userId query parameter
	// when no token is supplied.
	TrustQueryIdentity bool
}

// GatewayController upgrades /ws requests and pumps frames into the gateway.
// ctx bounds every connection: once cancelled, sockets are closed with 1001.
type GatewayController struct {
	ctx      context.Context
	log      *slog.Logger
	tokens   *auth.TokenManager
	gateway  *runtime.Gateway
	config   GatewayConfig
	upgrader websocket.Upgrader
}

func NewGatewayController(ctx context.Context, log *slog.Logger, tokens *auth.TokenManager,
	gateway *runtime.Gateway, config GatewayConfig) *GatewayController {
	if config.PingPeriod <= 0 {
		config.PingPeriod = sink.PingPeriod
	}
	if config.PongWait <= config.PingPeriod {
		config.PongWait = config.PingPeriod * 2
	}
	ctl := &GatewayController{
		ctx:     ctx,
		log:     log,
		tokens:  tokens,
		gateway: gateway,
		config:  config,
	}
	ctl.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || originAllowed(config.AllowedOrigins, origin)
		},
	}
	return ctl
}

// Handle resolves the caller before upgrading. A missing token keeps the
// connection anonymous, an invalid one is refused with 401.
func (ctl *GatewayController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := ctl.identify(c.Request)
		if err != nil {
			ctl.log.Debug("Websocket handshake refused", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": errors.ErrUnauthorized.Error()})
			return
		}

		ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response
			ctl.log.Debug("Websocket upgrade failed", "error", err)
			return
		}
		ctl.serve(userID, ws)
	}
}

func (ctl *GatewayController) identify(r *http.Request) (string, error) {
	userID, err := ctl.tokens.IdentifyRequest(r)
	if err != nil {
		return "", err
	}
	if userID == "" && ctl.config.TrustQueryIdentity {
		userID = r.URL.Query().Get(identityQueryParam)
	}
	return userID, nil
}

// serve owns the connection until the peer leaves or the server stops.
func (ctl *GatewayController) serve(userID string, ws *websocket.Conn) {
	conn := sink.NewWebsocketSink(ws, ctl.log, ctl.config.BufferSize, ctl.config.PingPeriod)
	conn.Start()
	ctl.gateway.Connect(ctl.ctx, userID, conn)
	defer func() {
		ctl.gateway.Disconnect(context.WithoutCancel(ctl.ctx), userID, conn)
		conn.Close(websocket.CloseNormalClosure, "session closed")
	}()

	go func() {
		select {
		case <-ctl.ctx.Done():
			conn.Close(websocket.CloseGoingAway, "server shutting down")
		case <-conn.Done():
		}
	}()

	if ctl.config.MaxFrameBytes > 0 {
		ws.SetReadLimit(ctl.config.MaxFrameBytes)
	}
	_ = ws.SetReadDeadline(time.Now().Add(ctl.config.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(ctl.config.PongWait))
	})

	for {
		messageType, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ctl.log.Debug("Websocket closed unexpectedly", "user_id", userID, "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		ctl.gateway.HandleRaw(ctl.ctx, userID, data)
	}
}
