package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Sarwan-Projects/SlotSwapper/config"
)

const maxInboundMessage = 512

// WSConn a websocket-backed Conn with a bounded outbound queue.
// Clients never need to send anything; inbound frames are read and discarded
// so control frames (pong, close) are processed.
type WSConn struct {
	userID string
	ws     *websocket.Conn
	send   chan []byte
	done   chan struct{}
	once   sync.Once

	writeTimeout time.Duration
	pingInterval time.Duration
	logger       *zap.Logger
}

// NewWSConn wraps ws for userID
func NewWSConn(userID string, ws *websocket.Conn, cfg *config.NotifyConfig, logger *zap.Logger) *WSConn {
	return &WSConn{
		userID:       userID,
		ws:           ws,
		send:         make(chan []byte, cfg.SendBuffer),
		done:         make(chan struct{}),
		writeTimeout: cfg.WriteTimeout,
		pingInterval: cfg.PingInterval,
		logger:       logger,
	}
}

func (c *WSConn) UserID() string { return c.userID }

// Send queues ev; a full queue drops it with ErrSendBufferFull
func (c *WSConn) Send(ev Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}

	select {
	case c.send <- b:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close is idempotent
func (c *WSConn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		if c.ws != nil {
			err = c.ws.Close()
		}
	})
	return err
}

// Run pumps the connection until either side closes it. It blocks.
func (c *WSConn) Run() {
	go c.writePump()
	c.readPump()
	_ = c.Close()
}

func (c *WSConn) readPump() {
	pongWait := c.pingInterval + c.pingInterval/2

	c.ws.SetReadLimit(maxInboundMessage)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read ended", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}
	}
}

func (c *WSConn) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("websocket write failed", zap.String("user_id", c.userID), zap.Error(err))
				_ = c.Close()
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(c.writeTimeout)
			if err := c.ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				_ = c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
