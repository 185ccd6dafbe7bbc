package notify

import (
	"errors"
	"sync"
)

var (
	ErrSendBufferFull = errors.New("notify: send buffer full")
	ErrConnClosed     = errors.New("notify: connection closed")
)

// Conn a live connection belonging to one authenticated user
type Conn interface {
	UserID() string
	// Send queues ev without blocking
	Send(ev Event) error
	Close() error
}

// Registry maps a user to their live connection.
//
// Created once at process start and injected into the Dispatcher and the
// websocket handler. Entries are added on connect and removed on disconnect.
// When a user registers twice the latest registration wins.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]Conn
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Register maps conn.UserID() to conn, superseding any earlier connection
func (r *Registry) Register(conn Conn) {
	r.mu.Lock()
	r.conns[conn.UserID()] = conn
	r.mu.Unlock()
}

// Unregister removes conn only if it is still the registered connection of its
// user. A superseded connection closing later must not evict its successor.
func (r *Registry) Unregister(conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.conns[conn.UserID()]; ok && cur == conn {
		delete(r.conns, conn.UserID())
	}
}

// ConnectionFor returns the live connection of userID, if any
func (r *Registry) ConnectionFor(userID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[userID]
	return conn, ok
}

// Len number of registered users
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// CloseAll closes and forgets every connection; used on shutdown
func (r *Registry) CloseAll() {
	r.mu.Lock()
	conns := r.conns
	r.conns = make(map[string]Conn)
	r.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
}
