package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Conn is the minimal write surface the registry needs from a live
// connection. *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Push is the payload delivered to a connected client.
type Push struct {
	Kind    string `json:"type"`
	Message string `json:"message"`
}

// entry pairs a connection with its write lock. gorilla/websocket supports at
// most one concurrent writer per connection, and pushes run on whatever
// request goroutine triggered them.
type entry struct {
	writeMu sync.Mutex
	conn    Conn
}

// Registry maps a principal ID (customer or vendor) to its live connection.
// Lifecycle is tied to connection open/close: Register on upgrade, Unregister
// on disconnect. A second connection for the same ID replaces the first.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*entry
	logger *zap.Logger
}

// NewRegistry constructs an empty connection registry.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		conns:  make(map[string]*entry),
		logger: logger,
	}
}

// Register attaches a live connection for the principal, closing any previous
// one.
func (r *Registry) Register(id string, c Conn) {
	r.mu.Lock()
	prev := r.conns[id]
	r.conns[id] = &entry{conn: c}
	r.mu.Unlock()

	if prev != nil && prev.conn != c {
		_ = prev.conn.Close()
	}
}

// Unregister detaches the connection, but only if it is still the one
// currently registered. A reconnect must not be evicted by the old
// connection's deferred cleanup.
func (r *Registry) Unregister(id string, c Conn) {
	r.mu.Lock()
	if e, ok := r.conns[id]; ok && e.conn == c {
		delete(r.conns, id)
	}
	r.mu.Unlock()
}

// Lookup returns the live connection for the principal, if any.
func (r *Registry) Lookup(id string) (Conn, bool) {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return e.conn, true
}

// PushIfConnected delivers the payload when the principal has a live
// connection, evicting the connection on write failure. It reports whether a
// delivery attempt was made; offline principals are simply skipped. Writes to
// the same connection are serialized through the entry's write lock.
func (r *Registry) PushIfConnected(id string, payload Push) bool {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	e.writeMu.Lock()
	err := e.conn.WriteJSON(payload)
	e.writeMu.Unlock()

	if err != nil {
		r.logger.Debug("realtime push failed, evicting connection",
			zap.String("addressee", id), zap.Error(err))
		r.Unregister(id, e.conn)
		_ = e.conn.Close()
		return false
	}
	return true
}
