package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// conn is the slice of *websocket.Conn the hub needs. Tests substitute fakes
// that capture outbound frames.
type conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// subscriber serializes writes to one connection. Reads stay on the session
// goroutine; writes can come from any hub method, so they take the mutex and
// a fresh deadline each time.
type subscriber struct {
	conn conn
	mu   sync.Mutex
}

func newSubscriber(c conn) *subscriber {
	return &subscriber{conn: c}
}

func (s *subscriber) send(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.Close()
}

// session is one connected guest. All fields except sub are guarded by the
// hub mutex.
type session struct {
	id   string
	name string
	sub  *subscriber

	lastHeartbeat time.Time
	lastRTT       time.Duration

	queueMode string // "" when not queued
	deck      []int  // deck submitted with the last queue/room join
	roomCode  string
	matchID   string
}
