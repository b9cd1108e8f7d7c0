package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"log/slog"
	"skillsync/domain/event"
	"sync"
	"time"
)

const (
	writeWait  = 10 * time.Second
	PingPeriod = 30 * time.Second
	// PongWait must stay above PingPeriod so a healthy peer is never timed out.
	PongWait = 60 * time.Second
)

var (
	ErrSinkClosed   = fmt.Errorf("connection closed")
	ErrSlowConsumer = fmt.Errorf("connection buffer exceeded")
)

// Conn is the part of *websocket.Conn the sink writes to.
type Conn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// WebsocketSink is the handle of one live websocket connection.
// Writes go through a buffered channel drained by a single write loop,
// which also pings the peer so dead sockets get detected.
type WebsocketSink struct {
	id         string
	log        *slog.Logger
	conn       Conn
	send       chan []byte
	done       chan struct{}
	once       sync.Once
	pingPeriod time.Duration
}

func NewWebsocketSink(conn Conn, log *slog.Logger, bufferSize int, pingPeriod time.Duration) *WebsocketSink {
	id := uuid.NewString()
	return &WebsocketSink{
		id:         id,
		log:        log.With("connection_id", id),
		conn:       conn,
		send:       make(chan []byte, bufferSize),
		done:       make(chan struct{}),
		pingPeriod: pingPeriod,
	}
}

func (s *WebsocketSink) ID() string { return s.id }

// Start launches the write loop. It must be called exactly once.
func (s *WebsocketSink) Start() {
	go s.writeLoop()
}

// Send enqueues frame for delivery. When the buffer stays full until ctx
// expires the peer is considered too slow and the connection is closed.
func (s *WebsocketSink) Send(ctx context.Context, frame event.Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	// A closed sink must win over free buffer space
	select {
	case <-s.done:
		return ErrSinkClosed
	default:
	}
	select {
	case s.send <- payload:
		return nil
	default:
	}

	select {
	case <-s.done:
		return ErrSinkClosed
	case s.send <- payload:
		return nil
	case <-ctx.Done():
		s.log.Warn("Send buffer full, closing connection", "event", frame.Event)
		s.Close(websocket.ClosePolicyViolation, "send buffer full")
		return ErrSlowConsumer
	}
}

// Close terminates the connection and stops the write loop. Safe to call many times.
func (s *WebsocketSink) Close(code int, reason string) {
	s.once.Do(func() {
		close(s.done)
		deadline := time.Now().Add(writeWait)
		_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
		_ = s.conn.Close()
	})
}

// Done is closed once the sink is closed.
func (s *WebsocketSink) Done() <-chan struct{} {
	return s.done
}

func (s *WebsocketSink) writeLoop() {
	ticker := time.NewTicker(s.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case payload := <-s.send:
			if err := s.write(websocket.TextMessage, payload); err != nil {
				s.log.Debug("Write failed", "error", err)
				s.Close(websocket.CloseInternalServerErr, "write failed")
				return
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				s.log.Debug("Ping failed", "error", err)
				s.Close(websocket.CloseInternalServerErr, "ping failed")
				return
			}
		}
	}
}

func (s *WebsocketSink) write(messageType int, payload []byte) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(messageType, payload)
}
