package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/klondike/internal/protocol"
	"github.com/lox/klondike/internal/session"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	// Outbound messages queued per connection
	sendBuffer = 256
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("connection send buffer full")
	errAlreadyWatching  = fmt.Errorf("%w: already watching this game", protocol.ErrInvalidArgument)
	errNotWatching      = fmt.Errorf("not watching this game: %w", session.ErrNotFound)
)

// watch forwards one subscription to the client
type watch struct {
	sub  *session.Subscription
	done chan struct{}
}

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	server    *Server
	send      chan *protocol.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu      sync.Mutex
	watches map[string]*watch
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:    conn,
		server:  server,
		send:    make(chan *protocol.Message, sendBuffer),
		logger:  server.logger.WithPrefix("conn"),
		ctx:     ctx,
		cancel:  cancel,
		watches: make(map[string]*watch),
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed once the connection has been closed
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection and detaches all of its watches
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()

		c.mu.Lock()
		watches := make([]*watch, 0, len(c.watches))
		for _, w := range c.watches {
			watches = append(watches, w)
		}
		clear(c.watches)
		c.mu.Unlock()

		for _, w := range watches {
			w.sub.Cancel()
		}
	})
	return err
}

// SendMessage queues a message for the client without blocking. A client
// that cannot keep up is disconnected.
func (c *Connection) SendMessage(msg *protocol.Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrSendBufferFull
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		msg, err := protocol.Unmarshal(data)
		if err != nil {
			c.sendError("", err)
			continue
		}
		c.handleMessage(msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := c.server.clock.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case msg := <-c.send:
			data, err := protocol.Marshal(msg)
			if err != nil {
				c.logger.Error("Failed to encode message", "type", msg.Type, "error", err)
				continue
			}

			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// reply queues a message of type t answering requestID
func (c *Connection) reply(t protocol.MessageType, requestID string, data any) {
	msg, err := protocol.NewMessage(t, requestID, data, c.server.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create message", "type", t, "error", err)
		return
	}
	_ = c.SendMessage(msg) // Ignore send errors; a full buffer closes the connection
}

// sendError reports err to the client
func (c *Connection) sendError(requestID string, err error) {
	data := protocol.NewErrorData(err)
	if data.Code == protocol.CodeInternal {
		c.logger.Error("Request failed", "request", requestID, "error", err)
	} else {
		c.logger.Debug("Request rejected", "request", requestID, "code", data.Code, "error", err)
	}
	c.reply(protocol.TypeError, requestID, data)
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *protocol.Message) {
	c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

	var err error
	switch msg.Type {
	case protocol.TypeCreateGame:
		err = c.handleCreateGame(msg)
	case protocol.TypeAct:
		err = c.handleAct(msg)
	case protocol.TypeDestroyGame:
		err = c.handleDestroyGame(msg)
	case protocol.TypeWatch:
		err = c.handleWatch(msg)
	case protocol.TypeUnwatch:
		err = c.handleUnwatch(msg)
	default:
		c.countMessage("unknown")
		c.sendError(msg.RequestID, fmt.Errorf("%w: type unknown message type %q", protocol.ErrInvalidArgument, msg.Type))
		return
	}

	c.countMessage(msg.Type.String())
	if err != nil {
		c.sendError(msg.RequestID, err)
	}
}

func (c *Connection) countMessage(label string) {
	if m := c.server.metrics; m != nil {
		m.MessagesReceived.WithLabelValues(label).Inc()
	}
}

func (c *Connection) handleCreateGame(msg *protocol.Message) error {
	id, snap, err := c.server.registry.Create()
	if err != nil {
		return err
	}

	c.reply(protocol.TypeGameCreated, msg.RequestID, protocol.GameCreated{
		GameID: id,
		State:  protocol.SnapshotFromCore(snap),
	})
	return nil
}

func (c *Connection) handleAct(msg *protocol.Message) error {
	var req protocol.ActRequest
	if err := msg.Decode(&req); err != nil {
		return err
	}
	action, err := req.Action.ToCore()
	if err != nil {
		return err
	}

	res, err := c.server.registry.Act(req.GameID, action)
	if err != nil {
		return err
	}

	c.reply(protocol.TypeActResult, msg.RequestID, protocol.ActResult{
		GameID:  req.GameID,
		Victory: res.Outcome.Victory(),
		State:   protocol.SnapshotFromCore(res.Snapshot),
	})
	return nil
}

func (c *Connection) handleDestroyGame(msg *protocol.Message) error {
	var ref protocol.GameRef
	if err := msg.Decode(&ref); err != nil {
		return err
	}
	if err := c.server.registry.Destroy(ref.GameID); err != nil {
		return err
	}

	c.reply(protocol.TypeGameDestroyed, msg.RequestID, ref)
	return nil
}

func (c *Connection) handleWatch(msg *protocol.Message) error {
	var ref protocol.GameRef
	if err := msg.Decode(&ref); err != nil {
		return err
	}

	c.mu.Lock()
	_, exists := c.watches[ref.GameID]
	c.mu.Unlock()
	if exists {
		return errAlreadyWatching
	}

	sub, err := c.server.registry.Watch(ref.GameID)
	if err != nil {
		return err
	}
	w := &watch{sub: sub, done: make(chan struct{})}

	c.mu.Lock()
	c.watches[ref.GameID] = w
	c.mu.Unlock()

	// Queue the reply before the forwarder can queue the first notification
	c.reply(protocol.TypeWatchStarted, msg.RequestID, ref)
	go c.forward(ref.GameID, w)
	return nil
}

func (c *Connection) handleUnwatch(msg *protocol.Message) error {
	var ref protocol.GameRef
	if err := msg.Decode(&ref); err != nil {
		return err
	}

	c.mu.Lock()
	w, ok := c.watches[ref.GameID]
	delete(c.watches, ref.GameID)
	c.mu.Unlock()
	if !ok {
		return errNotWatching
	}

	w.sub.Cancel()
	<-w.done

	c.reply(protocol.TypeWatchEnded, msg.RequestID, protocol.WatchEnded{
		GameID: ref.GameID,
		Reason: protocol.EndUnwatched,
	})
	return nil
}

// forward relays notifications until the subscription closes. Streams that
// end without an unwatch request get a watch_ended message.
func (c *Connection) forward(gameID string, w *watch) {
	defer close(w.done)

	reason := protocol.EndUnwatched
	for n := range w.sub.C() {
		if n.End {
			reason = protocol.EndDestroyed
			continue
		}

		data := protocol.Notification{
			GameID: gameID,
			State:  protocol.SnapshotFromCore(n.Snapshot),
		}
		if n.Action != nil {
			action := protocol.ActionFromCore(*n.Action)
			data.Action = &action
		}
		c.reply(protocol.TypeNotification, "", data)
	}
	if w.sub.Dropped() {
		reason = protocol.EndDropped
	}

	c.mu.Lock()
	if c.watches[gameID] == w {
		delete(c.watches, gameID)
	}
	c.mu.Unlock()

	if reason != protocol.EndUnwatched {
		c.logger.Debug("Watch ended", "game", gameID, "reason", reason)
		c.reply(protocol.TypeWatchEnded, "", protocol.WatchEnded{GameID: gameID, Reason: reason})
	}
}
