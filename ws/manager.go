package ws

import (
	"sync"

	"eventsupply_backend/internal/logger"
)

// Manager routes notification change events to connected clients. Clients
// are keyed by actor ("admin:<user id>" or "supplier:<email>"), matching the
// per-actor channel the bell component subscribes on.
type Manager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			// A reconnect for the same actor replaces the stale client.
			if old, ok := m.clients[client.Key]; ok {
				close(old.Send)
			}
			m.clients[client.Key] = client
			m.mu.Unlock()
			logger.Debug("ws client registered", "key", client.Key, "total", m.ClientCount())

		case client := <-m.unregister:
			m.mu.Lock()
			if current, ok := m.clients[client.Key]; ok && current == client {
				close(client.Send)
				delete(m.clients, client.Key)
			}
			m.mu.Unlock()
			logger.Debug("ws client unregistered", "key", client.Key, "total", m.ClientCount())
		}
	}
}

// Publish delivers a message to the client registered under key, if any.
// A full send buffer disconnects the client rather than blocking the caller.
func (m *Manager) Publish(key string, message any) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	client, ok := m.clients[key]
	if !ok {
		return
	}

	// The read lock excludes the Run loop's close; the channel cannot be
	// closed while a send is in flight.
	select {
	case client.Send <- message:
	default:
		logger.Warn("ws client send buffer full, disconnecting", "key", key)
		go func() {
			m.unregister <- client
		}()
	}
}

func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) IsConnected(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.clients[key]
	return exists
}
