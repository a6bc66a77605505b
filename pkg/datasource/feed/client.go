package feed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const closeGracePeriod = time.Second

type Option func(*Client)

// WithReadTimeout bounds the wait for each message. Zero disables the deadline.
func WithReadTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.readTimeout = d
	}
}

// Client consumes a websocket sample feed. Text frames carry a decimal number, binary
// frames a protobuf DoubleValue. A normal closure from the peer ends the stream.
type Client struct {
	logger      *zap.Logger
	conn        *websocket.Conn
	url         string
	readTimeout time.Duration
	msg         int

	ctx  context.Context
	stop func() bool
}

// Dial connects to url. ctx bounds the whole life of the client: once it is done, a pending
// Next returns the context error.
func Dial(ctx context.Context, logger *zap.Logger, url string, opts ...Option) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("unable to dial feed %q: %w", url, err)
	}

	c := &Client{
		logger: logger,
		conn:   conn,
		url:    url,
		ctx:    ctx,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Expiring the read deadline wakes a blocked ReadMessage.
	c.stop = context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	c.logger.Debug("feed connected", zap.String("url", url))
	return c, nil
}

func (c *Client) Next() (float64, error) {
	for {
		if c.readTimeout > 0 {
			if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
				return 0, fmt.Errorf("unable to set read deadline: %w", err)
			}
		}
		// Checked after the deadline is set so a cancellation cannot be overridden by it.
		if err := c.ctx.Err(); err != nil {
			return 0, c.abandoned(err)
		}

		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if ctxErr := c.ctx.Err(); ctxErr != nil {
				return 0, c.abandoned(ctxErr)
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return 0, eof(c.msg)
			}
			return 0, fmt.Errorf("unable to read message %d: %w", c.msg+1, err)
		}
		c.msg++

		switch messageType {
		case websocket.BinaryMessage:
			return decode(c.msg, message)
		case websocket.TextMessage:
			field := strings.TrimSpace(string(message))
			if field == "" {
				c.logger.Warn("empty frame dropped", zap.Int("message", c.msg))
				continue
			}
			x, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return 0, malformed(c.msg, field, err)
			}
			return x, nil
		}
	}
}

func (c *Client) abandoned(err error) error {
	return fmt.Errorf("feed read abandoned after %d messages: %w", c.msg, err)
}

func (c *Client) Close() error {
	c.stop()

	deadline := time.Now().Add(closeGracePeriod)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)

	c.logger.Debug("feed closed", zap.String("url", c.url), zap.Int("messages", c.msg))
	return c.conn.Close()
}
