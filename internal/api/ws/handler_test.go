package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/domain/surface"
)

type envelope struct {
	Type    string         `json:"type"`
	Message string         `json:"message"`
	State   *surface.State `json:"state"`
}

func dial(t *testing.T, hub *surface.Hub) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/ws/browser", NewHandler(hub, nil).HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/browser"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var env envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func TestStreamsState(t *testing.T) {
	hub := surface.NewHub()
	hub.Publish(surface.State{URL: "https://first.test", Zoom: 1})

	conn := dial(t, hub)

	assert.Equal(t, "system", read(t, conn).Type)

	env := read(t, conn)
	require.Equal(t, "state", env.Type)
	assert.Equal(t, "https://first.test", env.State.URL)

	hub.Publish(surface.State{URL: "https://second.test", Zoom: 1.5})
	env = read(t, conn)
	require.Equal(t, "state", env.Type)
	assert.Equal(t, "https://second.test", env.State.URL)
	assert.Equal(t, 1.5, env.State.Zoom)
}

func TestPingAndUnknown(t *testing.T) {
	hub := surface.NewHub()
	conn := dial(t, hub)

	assert.Equal(t, "system", read(t, conn).Type)

	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	assert.Equal(t, "pong", read(t, conn).Type)

	require.NoError(t, conn.WriteJSON(Message{Type: "navigate"}))
	env := read(t, conn)
	assert.Equal(t, "error", env.Type)
	assert.Equal(t, "unknown message type", env.Message)
}

func TestUnsubscribesOnClose(t *testing.T) {
	hub := surface.NewHub()
	conn := dial(t, hub)
	read(t, conn)
	assert.Equal(t, 1, hub.Subscribers())

	conn.Close()
	assert.Eventually(t, func() bool { return hub.Subscribers() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestReadLoopStopsWhenDone(t *testing.T) {
	h := NewHandler(surface.NewHub(), nil)
	out := make(chan Message)
	done := make(chan struct{})
	close(done)
	returned := make(chan struct{})

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		h.readLoop(conn, out, done)
		close(returned)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// out is never drained while readLoop runs
	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("readLoop blocked on an undrained channel")
	}
	_, ok := <-out
	assert.False(t, ok)
}
