package presence

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

type memoryKey struct {
	ticketID snowflake.ID
	fieldID  string
	userID   snowflake.ID
}

// MemoryStore keeps indicators in process. Suitable for single-node
// runs and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[memoryKey]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[memoryKey]time.Time)}
}

func (s *MemoryStore) Touch(ctx context.Context, indicator Indicator) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{indicator.TicketID, indicator.FieldID, indicator.UserID}
	s.entries[key] = indicator.LastActivity
	s.pruneLocked(time.Now().UTC())
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, ticketID snowflake.ID, fieldID string, userID snowflake.ID) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, memoryKey{ticketID, fieldID, userID})
	return nil
}

func (s *MemoryStore) Active(ctx context.Context, ticketID snowflake.ID, fieldID string, window time.Duration) ([]Indicator, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	s.pruneLocked(now)

	var out []Indicator
	for key, last := range s.entries {
		if key.ticketID != ticketID || key.fieldID != fieldID {
			continue
		}
		if now.Sub(last) > window {
			continue
		}
		out = append(out, Indicator{
			TicketID:     key.ticketID,
			FieldID:      key.fieldID,
			UserID:       key.userID,
			LastActivity: last,
		})
	}
	return out, nil
}

// pruneLocked drops entries stale beyond twice the window so the map
// does not grow with abandoned sessions.
func (s *MemoryStore) pruneLocked(now time.Time) {
	for key, last := range s.entries {
		if now.Sub(last) > 2*Staleness {
			delete(s.entries, key)
		}
	}
}
