package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Message represents a single chat message
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Clock returns the message time as shown next to the bubble (HH:MM)
func (m Message) Clock() string {
	return m.Timestamp.Format("15:04")
}

// Session represents one chat widget transcript
type Session struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	Messages  []Message `json:"messages"`

	mu sync.Mutex
}

// New starts an empty transcript
func New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		StartTime: time.Now(),
		Messages:  []Message{},
	}
}

// Append records a message and returns it
func (s *Session) Append(role, content string) Message {
	msg := Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	s.mu.Lock()
	s.Messages = append(s.Messages, msg)
	s.mu.Unlock()
	return msg
}

// Snapshot returns a copy of the messages so far
func (s *Session) Snapshot() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}

// Len returns the number of messages
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Messages)
}
