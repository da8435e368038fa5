// Package gateway maintains the chat-platform connection and event loop.
//
// The client dials the platform's websocket gateway, reads JSON message
// events, forwards bot commands to the handler, and writes reply events.
// Connection loss triggers a reconnect with capped backoff; a handler
// failure (a randomness fault) is fatal and stops the loop.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mirrenhall/chronicler/internal/bot"
)

const (
	// commandPrefix marks chat messages addressed to the bot.
	commandPrefix = "!"

	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second
	// pongWait is how long to wait for the peer's next pong.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound frames.
	maxMessageSize = 4096

	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Event is a gateway frame, inbound or outbound.
type Event struct {
	Type       string      `json:"type"`
	ChannelID  string      `json:"channel_id,omitempty"`
	Author     string      `json:"author,omitempty"`
	Content    string      `json:"content,omitempty"`
	Attachment *Attachment `json:"attachment,omitempty"`
}

// Attachment references a file sent with a reply, served from the bot's
// HTTP API.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Handler resolves a command message into a reply.
type Handler interface {
	Handle(ctx context.Context, author, content string) (bot.Reply, error)
}

// Client is a chat-gateway connection.
type Client struct {
	url       string
	token     string
	publicURL string
	handler   Handler
	log       zerolog.Logger
	dialer    *websocket.Dialer

	mu   sync.Mutex // guards writes; gorilla allows one concurrent writer
	conn *websocket.Conn
}

// New creates a gateway client. publicURL, when set, is the externally
// reachable base of the bot's HTTP API and is used to link attachments.
func New(url, token, publicURL string, handler Handler, log zerolog.Logger) *Client {
	return &Client{
		url:       url,
		token:     token,
		publicURL: strings.TrimRight(publicURL, "/"),
		handler:   handler,
		log:       log.With().Str("component", "gateway").Logger(),
		dialer:    websocket.DefaultDialer,
	}
}

// Run connects to the gateway and processes events until the context is
// cancelled or the handler fails fatally. Dial and read errors are retried
// with backoff.
func (c *Client) Run(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	backoff := initialBackoff
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("gateway dial failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff *= 2; backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		backoff = initialBackoff
		c.log.Info().Str("url", c.url).Msg("gateway connected")
		err = c.serve(ctx, conn)
		conn.Close()
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn().Msg("gateway connection lost, reconnecting")
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	conn, _, err := c.dialer.DialContext(ctx, c.url, header)
	if err != nil {
		return nil, fmt.Errorf("dial gateway: %w", err)
	}
	return conn, nil
}

// serve reads events from one connection. It returns nil when the
// connection drops (the caller reconnects) and an error only on fatal
// handler failures.
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) error {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return nil
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go c.keepAlive(ctx, conn, done)

	for {
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() == nil {
				c.log.Debug().Err(err).Msg("gateway read failed")
			}
			return nil
		}
		if event.Type != "message" || !strings.HasPrefix(event.Content, commandPrefix) {
			continue
		}

		reply, err := c.handler.Handle(ctx, event.Author, event.Content)
		if err != nil {
			// Randomness faults are not recoverable; stop the loop.
			return fmt.Errorf("handle %q: %w", event.Content, err)
		}
		if reply.Text == "" && reply.Attachment == nil {
			continue
		}
		if err := c.send(replyEvent(event.ChannelID, reply, c.publicURL)); err != nil {
			c.log.Warn().Err(err).Msg("gateway write failed")
			return nil
		}
	}
}

// keepAlive pings the peer until the connection or context ends.
func (c *Client) keepAlive(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			// Nudges the blocked read loop to exit.
			conn.Close()
			return
		case <-ticker.C:
			c.mu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()
			if err != nil {
				conn.Close()
				return
			}
		}
	}
}

func (c *Client) send(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(event)
}

// replyEvent builds the outbound frame for a bot reply.
func replyEvent(channelID string, reply bot.Reply, publicURL string) Event {
	event := Event{
		Type:      "reply",
		ChannelID: channelID,
		Content:   reply.Text,
	}
	if reply.Attachment != nil && publicURL != "" {
		event.Attachment = &Attachment{
			Name: reply.Attachment.Name,
			URL:  publicURL + "/v1/merits/" + reply.Attachment.Stub,
		}
	}
	return event
}

// ErrMissingURL indicates the client was built without a gateway URL.
var ErrMissingURL = errors.New("gateway url not configured")

// Validate reports whether the client has enough configuration to run.
func (c *Client) Validate() error {
	if c.url == "" {
		return ErrMissingURL
	}
	return nil
}
