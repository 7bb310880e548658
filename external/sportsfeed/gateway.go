package sportsfeed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/riskibarqy/prediction-league/internal/listener"
)

const (
	defaultHandshakeTimeout = 15 * time.Second
	gatewayWriteWait        = 10 * time.Second
)

type GatewayConfig struct {
	URL              string
	Token            string
	HandshakeTimeout time.Duration
}

// Gateway dials the feed's websocket event stream.
type Gateway struct {
	cfg GatewayConfig
}

func NewGateway(cfg GatewayConfig) *Gateway {
	cfg.URL = strings.TrimSpace(cfg.URL)
	cfg.Token = strings.TrimSpace(cfg.Token)
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	return &Gateway{cfg: cfg}
}

func (g *Gateway) Dial(ctx context.Context) (listener.Conn, error) {
	if g.cfg.URL == "" {
		return nil, fmt.Errorf("gateway url is empty")
	}

	dialer := websocket.Dialer{HandshakeTimeout: g.cfg.HandshakeTimeout}
	header := http.Header{}
	if g.cfg.Token != "" {
		header.Set("Authorization", "Bearer "+g.cfg.Token)
	}

	conn, resp, err := dialer.DialContext(ctx, g.cfg.URL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial gateway status=%d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial gateway: %w", err)
	}
	return &gatewayConn{conn: conn}, nil
}

type gatewayConn struct {
	conn *websocket.Conn
}

func (c *gatewayConn) ReadMessage() ([]byte, error) {
	_, payload, err := c.conn.ReadMessage()
	return payload, err
}

func (c *gatewayConn) WriteJSON(v any) error {
	payload, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode gateway message: %w", err)
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(gatewayWriteWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *gatewayConn) Close() error {
	return c.conn.Close()
}
