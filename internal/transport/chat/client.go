package chat

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wordguess/internal/metrics"
)

const (
	dialTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	maxLineBytes = 64 * 1024
)

var (
	// ErrAuthFailed is returned when the server rejects the credentials.
	ErrAuthFailed = errors.New("chat login authentication failed")
	// ErrNotConnected is returned by Say while no session is active.
	ErrNotConnected = errors.New("chat not connected")
	// ErrConnectionClosed is returned when the server closes the connection.
	ErrConnectionClosed = errors.New("chat connection closed")
	// errReconnectRequested signals a server RECONNECT notice.
	errReconnectRequested = errors.New("server requested reconnect")
)

// Handler receives chat messages. Each call runs in its own goroutine.
type Handler interface {
	HandlePrivmsg(ctx context.Context, msg Privmsg)
}

// Config holds the chat connection settings.
type Config struct {
	Addr           string
	Plaintext      bool
	Username       string
	OAuthToken     string
	Channels       []string
	ReconnectDelay time.Duration
}

// Client is a Twitch IRC client. It is safe to call Say concurrently.
type Client struct {
	cfg    Config
	logger *zap.Logger

	mu   sync.Mutex // guards conn and w
	conn net.Conn
	w    *bufio.Writer

	connected atomic.Bool
	handlers  sync.WaitGroup
}

// NewClient creates a chat client. Channel names are lowercased and may be
// given with or without '#'.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	channels := make([]string, 0, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		if ch = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ch)), "#"); ch != "" {
			channels = append(channels, ch)
		}
	}
	cfg.Channels = channels
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	return &Client{cfg: cfg, logger: logger}
}

// Connected reports whether the server has accepted the login.
func (c *Client) Connected() bool { return c.connected.Load() }

// Run keeps a session open until ctx is cancelled, reconnecting after
// ReconnectDelay whenever the connection drops. Rejected credentials end Run
// with ErrAuthFailed.
func (c *Client) Run(ctx context.Context, h Handler) error {
	for {
		err := c.session(ctx, h)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrAuthFailed) {
			return err
		}

		c.logger.Warn("Chat connection lost, reconnecting",
			zap.Error(err),
			zap.Duration("delay", c.cfg.ReconnectDelay),
		)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

func (c *Client) session(ctx context.Context, h Handler) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.Addr, err)
	}
	c.logger.Info("Connected to chat server", zap.String("addr", c.cfg.Addr), zap.Bool("tls", !c.cfg.Plaintext))
	return c.Serve(ctx, conn, h)
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	nd := &net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}
	if c.cfg.Plaintext {
		return nd.DialContext(ctx, "tcp", c.cfg.Addr)
	}
	host, _, err := net.SplitHostPort(c.cfg.Addr)
	if err != nil {
		return nil, err
	}
	td := &tls.Dialer{
		NetDialer: nd,
		Config:    &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12},
	}
	return td.DialContext(ctx, "tcp", c.cfg.Addr)
}

// Serve registers on conn and processes server lines until the connection
// drops or ctx is cancelled. conn is closed on return. Handlers started by
// Serve have finished when it returns.
func (c *Client) Serve(ctx context.Context, conn net.Conn, h Handler) error {
	c.attach(conn)
	defer c.handlers.Wait()
	defer c.detach(conn)

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := c.register(); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	for sc.Scan() {
		msg, err := ParseLine(sc.Text())
		if err != nil {
			continue
		}
		if err := c.dispatch(ctx, msg, h); err != nil {
			return err
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	return ErrConnectionClosed
}

func (c *Client) dispatch(ctx context.Context, msg Message, h Handler) error {
	switch msg.Command {
	case "PING":
		return c.writeLine("PONG :" + msg.Trailing())
	case "001":
		c.connected.Store(true)
		c.logger.Info("Chat login accepted", zap.String("username", c.cfg.Username))
	case "JOIN":
		if strings.EqualFold(msg.Nick(), c.cfg.Username) && len(msg.Params) > 0 {
			c.logger.Info("Joined channel", zap.String("channel", msg.Params[0]))
		}
	case "NOTICE":
		if strings.Contains(msg.Trailing(), "Login authentication failed") ||
			strings.Contains(msg.Trailing(), "Improperly formatted auth") {
			return ErrAuthFailed
		}
		c.logger.Debug("Chat notice", zap.String("text", msg.Trailing()))
	case "RECONNECT":
		return errReconnectRequested
	case "PRIVMSG":
		pm, ok := msg.Privmsg()
		if !ok || h == nil {
			return nil
		}
		metrics.ChatMessagesTotal.WithLabelValues("in").Inc()
		c.handlers.Add(1)
		go func() {
			defer c.handlers.Done()
			h.HandlePrivmsg(ctx, pm)
		}()
	}
	return nil
}

func (c *Client) register() error {
	token := c.cfg.OAuthToken
	if !strings.HasPrefix(token, "oauth:") {
		token = "oauth:" + token
	}
	lines := []string{
		"CAP REQ :twitch.tv/tags twitch.tv/commands",
		"PASS " + token,
		"NICK " + strings.ToLower(c.cfg.Username),
	}
	for _, ch := range c.cfg.Channels {
		lines = append(lines, "JOIN #"+ch)
	}
	for _, l := range lines {
		if err := c.writeLine(l); err != nil {
			return err
		}
	}
	return nil
}

// Say posts text to channel. Line breaks in text are replaced by spaces.
func (c *Client) Say(ctx context.Context, channel, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	channel = strings.TrimPrefix(strings.ToLower(channel), "#")
	text = strings.NewReplacer("\r", " ", "\n", " ").Replace(text)
	if err := c.writeLine("PRIVMSG #" + channel + " :" + text); err != nil {
		return err
	}
	metrics.ChatMessagesTotal.WithLabelValues("out").Inc()
	return nil
}

func (c *Client) writeLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := c.w.WriteString(line + "\r\n"); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (c *Client) attach(conn net.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.w = bufio.NewWriter(conn)
	c.mu.Unlock()
}

func (c *Client) detach(conn net.Conn) {
	c.connected.Store(false)
	_ = conn.Close()
	c.mu.Lock()
	if c.conn == conn {
		c.conn, c.w = nil, nil
	}
	c.mu.Unlock()
}
