package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastReachesOnlySubscribedProject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ws := NewWSHandler()
	router := gin.New()
	router.GET("/ws/projects/:id", ws.HandleWS)

	srv := httptest.NewServer(router)
	defer srv.Close()

	dial := func(projectID string) *websocket.Conn {
		t.Helper()
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/projects/" + projectID
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		return conn
	}

	watcherA := dial("p1")
	defer watcherA.Close()
	watcherB := dial("p2")
	defer watcherB.Close()

	// Give the hub a beat to register both sessions.
	time.Sleep(100 * time.Millisecond)

	ws.BroadcastUpdate("p1", "project_updated", "alice@x.com")

	require.NoError(t, watcherA.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := watcherA.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"project_updated","user":"alice@x.com"}`, string(msg))

	// The p2 watcher gets nothing; its read times out.
	require.NoError(t, watcherB.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err = watcherB.ReadMessage()
	assert.Error(t, err)
}
