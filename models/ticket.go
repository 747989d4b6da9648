package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tickethub/utils"
)

// Ticket is issued at purchase time and lives inside its owner's User
// document; it is never persisted on its own. The event ID is a back
// reference resolved through the store, and the price is captured at
// issuance so later event price changes do not touch sold tickets.
type Ticket struct {
	ID      string          `json:"id"`
	EventID string          `json:"event_id"`
	Price   decimal.Decimal `json:"price"`
	Active  bool            `json:"active"`
}

// NewTicket issues an active ticket for the event, deriving the ID from the
// event date and a random token.
func NewTicket(event *Event) Ticket {
	return Ticket{
		ID:      utils.DateKey(event.Date) + "-" + uuid.NewString(),
		EventID: event.ID,
		Price:   event.Price,
		Active:  true,
	}
}

// Equal compares tickets by event ID, ticket ID and status.
func (t Ticket) Equal(other Ticket) bool {
	return t.EventID == other.EventID && t.ID == other.ID && t.Active == other.Active
}
