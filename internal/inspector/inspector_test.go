package inspector

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/hexaengine/hexa/internal/core/events/bus"
	"github.com/hexaengine/hexa/internal/core/observability/log"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestInspectorStreamsBusEvents(t *testing.T) {
	eventBus := bus.New()
	insp := New("127.0.0.1:0", eventBus, log.NewNop())
	require.NoError(t, insp.Start(context.Background()))
	require.ErrorIs(t, insp.Start(context.Background()), ErrAlreadyRunning)

	conn := dial(t, "ws://"+insp.Addr()+"/events")
	require.Eventually(t, func() bool { return insp.Clients() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, eventBus.Publish(bus.NewEvent(bus.TypeStageChanged, "game", bus.StageChange{From: "loading", To: "starting"})))

	var frame struct {
		Type   string          `json:"type"`
		Source string          `json:"source"`
		Data   bus.StageChange `json:"data"`
	}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, bus.TypeStageChanged, frame.Type)
	require.Equal(t, "game", frame.Source)
	require.Equal(t, "starting", frame.Data.To)

	require.NoError(t, insp.Stop(context.Background()))
	require.ErrorIs(t, insp.Stop(context.Background()), ErrNotRunning)
	require.Zero(t, insp.Clients())

	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestInspectorHandlerWithoutStart(t *testing.T) {
	eventBus := bus.New()
	insp := New("", eventBus, log.NewNop())
	eventBus.AddObserver(insp)

	srv := httptest.NewServer(insp.Handler())
	defer srv.Close()

	conn := dial(t, "ws"+strings.TrimPrefix(srv.URL, "http")+"/events")
	require.Eventually(t, func() bool { return insp.Clients() == 1 }, time.Second, 5*time.Millisecond)

	// Payloads that cannot be encoded fall back to their printed form.
	require.NoError(t, eventBus.Publish(bus.NewEvent(bus.TypeWorldOpened, "game", func() {})))

	var frame Frame
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, bus.TypeWorldOpened, frame.Type)
	require.IsType(t, "", frame.Data)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return insp.Clients() == 0 }, time.Second, 5*time.Millisecond)
}
