// Package memory provides conversation history storage.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Roles for conversation turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one conversation turn. Turns are append-only and never
// mutated after creation.
type Turn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Store holds the in-memory conversation history. It keeps at most
// maxTurns turns, discarding the oldest when the cap is reached.
type Store struct {
	mu       sync.RWMutex
	turns    []Turn
	maxTurns int
}

// NewStore creates a history store capped at maxTurns.
func NewStore(maxTurns int) *Store {
	if maxTurns <= 0 {
		maxTurns = 100
	}
	return &Store{maxTurns: maxTurns}
}

// Append adds a turn and returns it. Ordering is creation order.
func (s *Store) Append(role, content string) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := Turn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	s.turns = append(s.turns, turn)

	if len(s.turns) > s.maxTurns {
		s.turns = s.turns[len(s.turns)-s.maxTurns:]
	}
	return turn
}

// Recent returns the most recent n turns in creation order. The
// returned slice is a copy; appends after the call are not visible
// through it.
func (s *Store) Recent(n int) []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.turns) {
		n = len(s.turns)
	}
	out := make([]Turn, n)
	copy(out, s.turns[len(s.turns)-n:])
	return out
}

// Len returns the number of stored turns.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}
