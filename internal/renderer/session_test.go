package renderer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"codeberg.org/avatarlab/morphctl/internal/delivery"
	"codeberg.org/avatarlab/morphctl/internal/errors"
	"codeberg.org/avatarlab/morphctl/internal/renderer"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRenderer struct {
	server   *httptest.Server
	upgrader websocket.Upgrader

	mu     sync.Mutex
	frames []map[string]any
}

func newTestRenderer(t *testing.T) *testRenderer {
	t.Helper()
	r := &testRenderer{}
	r.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := r.upgrader.Upgrade(w, req, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var frame map[string]any
			if err := json.Unmarshal(data, &frame); err != nil {
				continue
			}
			r.mu.Lock()
			r.frames = append(r.frames, frame)
			r.mu.Unlock()
		}
	}))
	t.Cleanup(r.server.Close)
	return r
}

func (r *testRenderer) url() string {
	return "ws" + strings.TrimPrefix(r.server.URL, "http")
}

func (r *testRenderer) received() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]map[string]any{}, r.frames...)
}

func waitForState(t *testing.T, s *renderer.Session, want delivery.State) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if s.State() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("session never reached state %s", want)
}

func TestSessionConnectAndSend(t *testing.T) {
	remote := newTestRenderer(t)

	session, err := renderer.NewSession(remote.url())
	require.NoError(t, err)
	defer session.Close()

	var states []delivery.State
	var mu sync.Mutex
	session.OnStateChange(func(s delivery.State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	session.Connect(context.Background())
	waitForState(t, session, delivery.StateConnected)

	err = session.Send(delivery.Command{
		Kind:    delivery.KindShapeUpdate,
		Payload: map[string]any{"morphId": 201, "value": 62},
		Label:   "Waist Width",
	})
	require.NoError(t, err)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && len(remote.received()) == 0 {
		time.Sleep(10 * time.Millisecond)
	}

	frames := remote.received()
	require.Len(t, frames, 1)
	assert.Equal(t, "shape-update", frames[0]["kind"])

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, states, delivery.StateConnecting)
	assert.Contains(t, states, delivery.StateConnected)
}

func TestSendWhileDisconnected(t *testing.T) {
	session, err := renderer.NewSession("ws://127.0.0.1:1/session")
	require.NoError(t, err)
	defer session.Close()

	err = session.Send(delivery.Command{Kind: delivery.KindHairUpdate, Payload: "bob"})
	require.Error(t, err)
}

func TestSendAfterCloseReportsSessionClosed(t *testing.T) {
	remote := newTestRenderer(t)

	session, err := renderer.NewSession(remote.url())
	require.NoError(t, err)

	session.Connect(context.Background())
	waitForState(t, session, delivery.StateConnected)
	require.NoError(t, session.Close())

	err = session.Send(delivery.Command{Kind: delivery.KindShapeUpdate})
	require.Error(t, err)
	var appErr errors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, renderer.ErrSessionClosed, appErr.Code())
}

func TestNewSessionRejectsEmptyURL(t *testing.T) {
	_, err := renderer.NewSession("")
	require.Error(t, err)
}
