package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zhouzirui/po-simulator/backend/internal/model/persona"
	"github.com/zhouzirui/po-simulator/backend/internal/service/events"
	scoreService "github.com/zhouzirui/po-simulator/backend/internal/service/score"
)

type frame struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

func startServer(t *testing.T, allowed []string) (*httptest.Server, *events.Hub, *scoreService.Store) {
	t.Helper()
	hub := events.NewHub()
	store := scoreService.NewStore(0)

	r := chi.NewRouter()
	NewWebSocketHandler(hub, store, allowed, nil).RegisterWebSocketRoutes(r)
	return httptest.NewServer(r), hub, store
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestWebSocketStreamsEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, hub, store := startServer(t, nil)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)

	var initial frame
	require.NoError(t, conn.ReadJSON(&initial))
	assert.Equal(t, events.TypeScore, initial.Type)
	assert.Contains(t, initial.Data, "members")

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	store.UpdateOutcome(12)
	hub.Publish(events.TypeScore, store.Snapshot())
	hub.Publish(events.TypeMessage, map[string]string{"senderId": string(persona.Dev), "content": "Deploy läuft"})

	var scoreFrame, msgFrame frame
	require.NoError(t, conn.ReadJSON(&scoreFrame))
	require.NoError(t, conn.ReadJSON(&msgFrame))
	assert.EqualValues(t, 12, scoreFrame.Data["outcome"])
	assert.Equal(t, events.TypeMessage, msgFrame.Type)
	assert.Equal(t, "Deploy läuft", msgFrame.Data["content"])

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestWebSocketHubCloseDisconnects(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv, hub, _ := startServer(t, nil)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	var initial frame
	require.NoError(t, conn.ReadJSON(&initial))
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	srv, hub, _ := startServer(t, []string{"http://localhost:5173"})
	defer srv.Close()

	header := http.Header{}
	header.Set("Origin", "http://evil.example")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, hub.Len())
}
