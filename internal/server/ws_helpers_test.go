package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lox/klondike/internal/protocol"
	"github.com/lox/klondike/internal/randutil"
	"github.com/lox/klondike/internal/session"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(opts ...session.Option) *session.Registry {
	base := []session.Option{
		session.WithLogger(testLogger()),
		session.WithSource(randutil.New(42)),
	}
	return session.New(append(base, opts...)...)
}

// startTestServer serves a fresh registry over httptest and returns the
// websocket URL.
func startTestServer(t *testing.T, opts ...session.Option) (*Server, string) {
	t.Helper()

	srv := NewServer(newTestRegistry(opts...), testLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
		ts.Close()
	})
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

type testClient struct {
	t    *testing.T
	conn *websocket.Conn
	seq  int
}

func dialTestClient(t *testing.T, url string) *testClient {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &testClient{t: t, conn: conn}
}

// send writes a request and returns its request id
func (c *testClient) send(typ protocol.MessageType, data any) string {
	c.t.Helper()

	c.seq++
	id := fmt.Sprintf("req-%d", c.seq)
	msg, err := protocol.NewMessage(typ, id, data, time.Now())
	require.NoError(c.t, err)
	b, err := protocol.Marshal(msg)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, b))
	return id
}

func (c *testClient) sendRaw(raw string) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, []byte(raw)))
}

func (c *testClient) read() *protocol.Message {
	c.t.Helper()

	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, b, err := c.conn.ReadMessage()
	require.NoError(c.t, err)
	msg, err := protocol.Unmarshal(b)
	require.NoError(c.t, err)
	return msg
}

// expect reads the next message and decodes it into v after checking its type
func (c *testClient) expect(typ protocol.MessageType, v any) *protocol.Message {
	c.t.Helper()

	msg := c.read()
	require.Equal(c.t, typ, msg.Type, "payload: %s", string(msg.Data))
	if v != nil {
		require.NoError(c.t, json.Unmarshal(msg.Data, v))
	}
	return msg
}

func (c *testClient) expectError(code string) protocol.ErrorData {
	c.t.Helper()

	var data protocol.ErrorData
	c.expect(protocol.TypeError, &data)
	require.Equal(c.t, code, data.Code, data.Message)
	return data
}

func (c *testClient) createGame() (string, protocol.Snapshot) {
	c.t.Helper()

	id := c.send(protocol.TypeCreateGame, nil)
	var created protocol.GameCreated
	msg := c.expect(protocol.TypeGameCreated, &created)
	require.Equal(c.t, id, msg.RequestID)
	return created.GameID, created.State
}

func (c *testClient) act(gameID string, action protocol.Action) string {
	c.t.Helper()
	return c.send(protocol.TypeAct, protocol.ActRequest{GameID: gameID, Action: &action})
}
