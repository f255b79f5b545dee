package hub

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn blocks reads until closed and records text writes.
type fakeConn struct {
	mu     sync.Mutex
	writes [][]byte
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{})}
}

func (c *fakeConn) SetReadLimit(int64)                {}
func (c *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetPongHandler(func(string) error) {}
func (c *fakeConn) ReadMessage() (int, []byte, error) {
	<-c.closed
	return 0, nil, errors.New("closed")
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if messageType == 1 {
		c.writes = append(c.writes, append([]byte(nil), data...))
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) texts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.writes))
	for i, w := range c.writes {
		out[i] = string(w)
	}
	return out
}

func newTestHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := New("test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	require.Eventually(t, h.IsRunning, time.Second, time.Millisecond)
	return h, cancel
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	h, cancel := newTestHub(t)
	defer cancel()

	conn := newFakeConn()
	go NewClient(h, conn).Run()
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, h.BroadcastJSON(map[string]string{"state": "idle"}))

	assert.Eventually(t, func() bool {
		texts := conn.texts()
		return len(texts) == 1 && texts[0] == `{"state":"idle"}`
	}, time.Second, time.Millisecond)
}

func TestHub_ReplaysLastMessageOnConnect(t *testing.T) {
	h, cancel := newTestHub(t)
	defer cancel()

	h.Broadcast(NewJSONMessage([]byte(`{"n":1}`)))
	require.Eventually(t, func() bool { _, ok := h.Last(); return ok }, time.Second, time.Millisecond)

	conn := newFakeConn()
	go NewClient(h, conn).Run()

	assert.Eventually(t, func() bool {
		texts := conn.texts()
		return len(texts) == 1 && texts[0] == `{"n":1}`
	}, time.Second, time.Millisecond)
}

func TestHub_ClientDisconnect(t *testing.T) {
	h, cancel := newTestHub(t)
	defer cancel()

	conn := newFakeConn()
	done := make(chan struct{})
	go func() {
		NewClient(h, conn).Run()
		close(done)
	}()
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, time.Millisecond)

	conn.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("client Run did not return")
	}
	assert.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, time.Millisecond)
}

func TestHub_StopReleasesClients(t *testing.T) {
	h, cancel := newTestHub(t)

	conn := newFakeConn()
	done := make(chan struct{})
	go func() {
		NewClient(h, conn).Run()
		close(done)
	}()
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("client Run did not return after hub stopped")
	}
	assert.False(t, h.IsRunning())

	late := newFakeConn()
	NewClient(h, late).Run() // returns immediately once the hub is gone
	select {
	case <-late.closed:
	default:
		t.Error("late client connection should be closed")
	}
}
