package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/klondike/internal/klondike"
	"github.com/lox/klondike/internal/protocol"
	"github.com/lox/klondike/internal/session"
	"golang.org/x/sync/errgroup"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// ErrClosed is returned for requests made after the connection went away
var ErrClosed = errors.New("client closed")

// Client is a WebSocket client for a klondike server. Requests may be issued
// from any goroutine; replies are matched to requests by request id.
type Client struct {
	serverURL string
	logger    *log.Logger
	clock     quartz.Clock
	dialer    *websocket.Dialer

	conn   *websocket.Conn
	send   chan *protocol.Message
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
	seq    atomic.Uint64

	mu        sync.Mutex
	pending   map[string]chan *protocol.Message
	watches   map[string]*Watch
	closeOnce sync.Once
	closeErr  error
}

// Option configures a Client
type Option func(*Client)

// WithClock sets the clock used for timestamps and keepalive pings
func WithClock(clock quartz.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// NewClient creates a client for serverURL. Both http(s) and ws(s) URLs are
// accepted; the /ws path is added.
func NewClient(serverURL string, logger *log.Logger, opts ...Option) *Client {
	c := &Client{
		serverURL: serverURL,
		logger:    logger.WithPrefix("client"),
		clock:     quartz.NewReal(),
		dialer:    websocket.DefaultDialer,
		send:      make(chan *protocol.Message, sendBuffer),
		pending:   make(map[string]chan *protocol.Message),
		watches:   make(map[string]*Watch),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// websocketURL converts a server URL into the endpoint to dial
func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server URL %q: unsupported scheme", serverURL)
	}
	u.Path = "/ws"
	return u.String(), nil
}

// Connect establishes the WebSocket connection and starts the pumps
func (c *Client) Connect(ctx context.Context) error {
	endpoint, err := websocketURL(c.serverURL)
	if err != nil {
		return err
	}

	c.logger.Info("Connecting to server", "url", endpoint)
	conn, _, err := c.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.conn = conn
	c.ctx, c.cancel = context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(c.ctx)
	g.Go(func() error { return c.readPump(gctx) })
	g.Go(func() error { return c.writePump(gctx) })
	c.group = g

	// Either pump failing tears the whole connection down
	go func() {
		err := g.Wait()
		c.shutdown(err)
	}()

	c.logger.Info("Connected to server")
	return nil
}

// Close disconnects from the server. Pending requests fail with ErrClosed
// and open watches end.
func (c *Client) Close() error {
	if c.cancel == nil {
		return nil
	}
	c.cancel()
	_ = c.group.Wait()
	c.shutdown(nil)
	return nil
}

// Done is closed when the connection is gone
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// shutdown releases everything waiting on the connection
func (c *Client) shutdown(cause error) {
	c.closeOnce.Do(func() {
		c.cancel()
		_ = c.conn.Close()

		c.mu.Lock()
		if cause != nil && !errors.Is(cause, context.Canceled) {
			c.closeErr = fmt.Errorf("%w: %v", ErrClosed, cause)
		} else {
			c.closeErr = ErrClosed
		}
		pending := c.pending
		c.pending = make(map[string]chan *protocol.Message)
		watches := c.watches
		c.watches = make(map[string]*Watch)
		c.mu.Unlock()

		for _, ch := range pending {
			close(ch)
		}
		for _, w := range watches {
			w.finish(EndDisconnected)
		}
		c.logger.Info("Disconnected from server")
	})
}

func (c *Client) err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closeErr != nil {
		return c.closeErr
	}
	return ErrClosed
}

func (c *Client) readPump(ctx context.Context) error {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return err
		}

		msg, err := protocol.Unmarshal(data)
		if err != nil {
			c.logger.Warn("Dropping malformed message", "error", err)
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) writePump(ctx context.Context) error {
	ticker := c.clock.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			data, err := protocol.Marshal(msg)
			if err != nil {
				return fmt.Errorf("encode %s: %w", msg.Type, err)
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return fmt.Errorf("write: %w", err)
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return fmt.Errorf("ping: %w", err)
			}

		case <-ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return ctx.Err()
		}
	}
}

// dispatch routes a message to the request waiting for it or to a watch
func (c *Client) dispatch(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

	if msg.RequestID != "" {
		c.mu.Lock()
		ch, ok := c.pending[msg.RequestID]
		delete(c.pending, msg.RequestID)
		c.mu.Unlock()
		if ok {
			ch <- msg
			return
		}
	}

	switch msg.Type {
	case protocol.TypeNotification:
		var n protocol.Notification
		if err := json.Unmarshal(msg.Data, &n); err != nil {
			c.logger.Warn("Dropping malformed notification", "error", err)
			return
		}
		c.deliver(n)

	case protocol.TypeWatchEnded:
		var ended protocol.WatchEnded
		if err := json.Unmarshal(msg.Data, &ended); err != nil {
			c.logger.Warn("Dropping malformed watch_ended", "error", err)
			return
		}
		if w := c.removeWatch(ended.GameID); w != nil {
			w.finish(ended.Reason)
		}

	case protocol.TypeError:
		var data protocol.ErrorData
		_ = json.Unmarshal(msg.Data, &data)
		c.logger.Warn("Server reported an error", "code", data.Code, "message", data.Message)

	default:
		c.logger.Debug("No handler for message type", "type", msg.Type)
	}
}

func (c *Client) deliver(n protocol.Notification) {
	c.mu.Lock()
	w := c.watches[n.GameID]
	c.mu.Unlock()
	if w == nil {
		return
	}

	snap, err := n.State.ToCore()
	if err != nil {
		c.logger.Warn("Dropping notification with bad state", "game", n.GameID, "error", err)
		return
	}
	out := session.Notification{Snapshot: snap}
	if n.Action != nil {
		action, err := n.Action.ToCore()
		if err != nil {
			c.logger.Warn("Dropping notification with bad action", "game", n.GameID, "error", err)
			return
		}
		out.Action = &action
	}

	if !w.offer(out) {
		c.logger.Warn("Watch fell behind, dropping it", "game", n.GameID)
		c.detachWatch(w)
		w.finish(protocol.EndDropped)
		go func() { _ = c.unwatch(context.Background(), n.GameID) }()
	}
}

// detachWatch unregisters w if it is still the watch for its game
func (c *Client) detachWatch(w *Watch) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.watches[w.gameID] != w {
		return false
	}
	delete(c.watches, w.gameID)
	return true
}

func (c *Client) removeWatch(gameID string) *Watch {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := c.watches[gameID]
	delete(c.watches, gameID)
	return w
}

// request sends a message and waits for its reply. Error replies are
// returned as *protocol.RemoteError; other replies are decoded into out.
func (c *Client) request(ctx context.Context, t protocol.MessageType, data any, want protocol.MessageType, out any) error {
	if c.ctx == nil {
		return ErrClosed
	}

	id := strconv.FormatUint(c.seq.Add(1), 10)
	msg, err := protocol.NewMessage(t, id, data, c.clock.Now())
	if err != nil {
		return err
	}

	reply := make(chan *protocol.Message, 1)
	c.mu.Lock()
	if c.closeErr != nil {
		c.mu.Unlock()
		return c.closeErr
	}
	c.pending[id] = reply
	c.mu.Unlock()

	forget := func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}

	select {
	case c.send <- msg:
	case <-ctx.Done():
		forget()
		return ctx.Err()
	case <-c.ctx.Done():
		forget()
		return c.err()
	}

	select {
	case resp, ok := <-reply:
		if !ok {
			return c.err()
		}
		return decodeReply(resp, want, out)
	case <-ctx.Done():
		forget()
		return ctx.Err()
	}
}

func decodeReply(resp *protocol.Message, want protocol.MessageType, out any) error {
	if resp.Type == protocol.TypeError {
		var data protocol.ErrorData
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			return fmt.Errorf("decode error reply: %w", err)
		}
		return data.Err()
	}
	if resp.Type != want {
		return fmt.Errorf("unexpected reply %s, want %s", resp.Type, want)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decode %s: %w", resp.Type, err)
	}
	return nil
}

// CreateGame starts a new game on the server
func (c *Client) CreateGame(ctx context.Context) (string, klondike.Snapshot, error) {
	var created protocol.GameCreated
	if err := c.request(ctx, protocol.TypeCreateGame, nil, protocol.TypeGameCreated, &created); err != nil {
		return "", klondike.Snapshot{}, err
	}
	snap, err := created.State.ToCore()
	if err != nil {
		return "", klondike.Snapshot{}, err
	}
	return created.GameID, snap, nil
}

// Act applies an action to a game. A rejected move returns the Failed
// outcome together with an error matching klondike.ErrInvalidMove.
func (c *Client) Act(ctx context.Context, gameID string, a klondike.Action) (session.Result, error) {
	action := protocol.ActionFromCore(a)
	var result protocol.ActResult
	err := c.request(ctx, protocol.TypeAct, protocol.ActRequest{GameID: gameID, Action: &action}, protocol.TypeActResult, &result)
	if err != nil {
		var remote *protocol.RemoteError
		if errors.As(err, &remote) && remote.Code == protocol.CodeInvalidMove {
			return session.Result{Outcome: klondike.FailedOutcome(remote.Reason)}, err
		}
		return session.Result{}, err
	}

	snap, err := result.State.ToCore()
	if err != nil {
		return session.Result{}, err
	}
	outcome := klondike.Outcome{Status: klondike.OnGoing}
	if result.Victory {
		outcome.Status = klondike.Victory
	}
	return session.Result{Outcome: outcome, Snapshot: snap}, nil
}

// DestroyGame removes a game from the server
func (c *Client) DestroyGame(ctx context.Context, gameID string) error {
	return c.request(ctx, protocol.TypeDestroyGame, protocol.GameRef{GameID: gameID}, protocol.TypeGameDestroyed, nil)
}

// Watch subscribes to a game. The first notification carries the current
// state.
func (c *Client) Watch(ctx context.Context, gameID string, buffer int) (*Watch, error) {
	if buffer < 1 {
		buffer = session.DefaultWatchBuffer
	}
	w := newWatch(c, gameID, buffer)

	// Register before asking so no notification can arrive unclaimed
	c.mu.Lock()
	if _, exists := c.watches[gameID]; exists {
		c.mu.Unlock()
		return nil, fmt.Errorf("already watching game %s", gameID)
	}
	c.watches[gameID] = w
	c.mu.Unlock()

	if err := c.request(ctx, protocol.TypeWatch, protocol.GameRef{GameID: gameID}, protocol.TypeWatchStarted, nil); err != nil {
		if c.detachWatch(w) {
			w.finish(EndDisconnected)
		}
		return nil, err
	}
	return w, nil
}

func (c *Client) unwatch(ctx context.Context, gameID string) error {
	return c.request(ctx, protocol.TypeUnwatch, protocol.GameRef{GameID: gameID}, protocol.TypeWatchEnded, nil)
}
