// Package presence tracks ephemeral typing indicators. Indicators live
// in a TTL store, never in the relational schema.
package presence

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Staleness is the window after which an indicator no longer counts as
// active. Clients re-poll every couple of seconds while a field is
// focused.
const Staleness = 5 * time.Second

// Indicator marks one user actively editing one ticket field.
type Indicator struct {
	TicketID     snowflake.ID
	FieldID      string
	UserID       snowflake.ID
	LastActivity time.Time
}

// Store is a time-windowed key-value store for indicators.
type Store interface {
	Touch(ctx context.Context, indicator Indicator) error
	Remove(ctx context.Context, ticketID snowflake.ID, fieldID string, userID snowflake.ID) error
	Active(ctx context.Context, ticketID snowflake.ID, fieldID string, window time.Duration) ([]Indicator, error)
}
