package notifyhub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyoez/ganymede-go/tool"
	"github.com/moyoez/ganymede-go/types"
)

func TestBroadcastReachesClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := New()
	router := gin.New()
	router.GET("/ws", HandleNotifyWS(hub))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(&types.Notification{Type: types.NotifyTypeConfReset, Title: "reset"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got types.Notification
	require.NoError(t, tool.Unmarshal(data, &got))
	assert.Equal(t, types.NotifyTypeConfReset, got.Type)
	assert.Equal(t, "reset", got.Title)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastNilIsIgnored(t *testing.T) {
	hub := New()
	hub.Broadcast(nil)
	assert.Zero(t, hub.Len())
}
