package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager()
	go m.Run()
	return m
}

func newTestClient(m *Manager, key string, buffer int) *Client {
	return &Client{
		Key:     key,
		Send:    make(chan any, buffer),
		Manager: m,
	}
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond, msg)
}

func TestManager_RegisterAndPublish(t *testing.T) {
	m := newTestManager(t)

	client := newTestClient(m, "supplier:best@catering.test", 4)
	m.register <- client
	waitFor(t, func() bool { return m.IsConnected(client.Key) }, "client never registered")

	m.Publish(client.Key, "ping")

	select {
	case msg := <-client.Send:
		assert.Equal(t, "ping", msg)
	case <-time.After(time.Second):
		t.Fatal("published message never reached the client")
	}
}

func TestManager_PublishToAbsentKeyIsNoop(t *testing.T) {
	m := newTestManager(t)

	// Nothing registered under the key; Publish must neither panic nor block.
	m.Publish("admin:nobody", "ping")
	assert.Zero(t, m.ClientCount())
}

func TestManager_ReconnectReplacesStaleClient(t *testing.T) {
	m := newTestManager(t)
	key := "admin:admin-1"

	stale := newTestClient(m, key, 4)
	m.register <- stale
	waitFor(t, func() bool { return m.IsConnected(key) }, "first client never registered")

	fresh := newTestClient(m, key, 4)
	m.register <- fresh

	// The stale client's channel is closed by the replacement.
	select {
	case _, open := <-stale.Send:
		assert.False(t, open, "stale send channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("stale client was never replaced")
	}

	// The fresh client owns the key now.
	assert.Equal(t, 1, m.ClientCount())
	m.Publish(key, "after-reconnect")
	select {
	case msg := <-fresh.Send:
		assert.Equal(t, "after-reconnect", msg)
	case <-time.After(time.Second):
		t.Fatal("fresh client did not receive the publish")
	}
}

func TestManager_UnregisterClosesChannel(t *testing.T) {
	m := newTestManager(t)
	key := "supplier:best@catering.test"

	client := newTestClient(m, key, 4)
	m.register <- client
	waitFor(t, func() bool { return m.IsConnected(key) }, "client never registered")

	m.unregister <- client

	select {
	case _, open := <-client.Send:
		assert.False(t, open, "send channel should be closed on unregister")
	case <-time.After(time.Second):
		t.Fatal("unregister never closed the channel")
	}
	waitFor(t, func() bool { return !m.IsConnected(key) }, "client never removed")
}

func TestManager_UnregisterStaleClientKeepsReplacement(t *testing.T) {
	m := newTestManager(t)
	key := "admin:admin-1"

	stale := newTestClient(m, key, 4)
	m.register <- stale
	waitFor(t, func() bool { return m.IsConnected(key) }, "first client never registered")

	fresh := newTestClient(m, key, 4)
	m.register <- fresh
	waitFor(t, func() bool {
		m.mu.RLock()
		defer m.mu.RUnlock()
		return m.clients[key] == fresh
	}, "replacement never took the key")

	// A late unregister from the replaced connection must not evict the
	// replacement.
	m.unregister <- stale
	waitFor(t, func() bool { return m.IsConnected(key) }, "replacement was evicted")

	select {
	case _, open := <-fresh.Send:
		assert.True(t, open, "replacement channel must stay open")
	default:
	}
}

func TestManager_FullBufferDisconnectsClient(t *testing.T) {
	m := newTestManager(t)
	key := "supplier:slow@catering.test"

	// Buffer of one and a client that never drains it.
	client := newTestClient(m, key, 1)
	m.register <- client
	waitFor(t, func() bool { return m.IsConnected(key) }, "client never registered")

	m.Publish(key, "first")
	m.Publish(key, "overflow")

	waitFor(t, func() bool { return !m.IsConnected(key) }, "overflowing client was not disconnected")
}
