package handlers_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/chikitsamitra/internal/adapters/events"
	"github.com/zatekoja/chikitsamitra/internal/api/handlers"
	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
)

// readEvent returns the next event name on the stream
func readEvent(t *testing.T, reader *bufio.Reader) (string, string) {
	t.Helper()
	var name, data string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && name != "":
			return name, data
		}
	}
}

func openStream(t *testing.T, h *handlers.SSEHandler) (*bufio.Reader, context.CancelFunc) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(h.StreamEvents))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return bufio.NewReader(resp.Body), cancel
}

func TestSSEHandler_ForwardsEvents(t *testing.T) {
	bus := events.NewMemoryEventBus()
	defer bus.Close()
	h := handlers.NewSSEHandler(bus)

	reader, cancel := openStream(t, h)
	defer cancel()

	name, _ := readEvent(t, reader)
	require.Equal(t, "connected", name)
	assert.Equal(t, 1, h.ClientCount())

	event := entities.NewAssistantEvent(entities.AssistantEventBookingsUpdated, "", map[string]string{"reference": "CM-123456"})
	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelAssistant, event))

	name, data := readEvent(t, reader)
	assert.Equal(t, string(entities.AssistantEventBookingsUpdated), name)
	assert.Contains(t, data, "CM-123456")

	cancel()
	assert.Eventually(t, func() bool { return h.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSSEHandler_Heartbeat(t *testing.T) {
	bus := events.NewMemoryEventBus()
	defer bus.Close()
	h := handlers.NewSSEHandler(bus).WithHeartbeat(20 * time.Millisecond)

	reader, cancel := openStream(t, h)
	defer cancel()

	name, _ := readEvent(t, reader)
	require.Equal(t, "connected", name)

	name, data := readEvent(t, reader)
	assert.Equal(t, "heartbeat", name)
	assert.Contains(t, data, "timestamp")
}
