package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tickethub/internal/status"
	"tickethub/utils"
)

// Event is a standalone top-level entity addressed by its derived identifier
// "yyMMdd-<name>". The ID doubles as the storage filename and carries the
// date prefix used by upcoming-event listings, so it is computed once at
// creation and never changes.
type Event struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Date        time.Time         `json:"date"`
	Remaining   int               `json:"remaining"`
	Price       decimal.Decimal   `json:"price"`
	Reviews     map[string]string `json:"reviews"` // reviewer login -> review text
}

// NewEvent builds an event with a zero unit price. The date is truncated to
// the day before it is stored or embedded in the ID.
func NewEvent(name, description string, date time.Time, remaining int) (*Event, error) {
	return NewPricedEvent(name, description, date, remaining, decimal.Zero)
}

func NewPricedEvent(name, description string, date time.Time, remaining int, price decimal.Decimal) (*Event, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("event date is required: %w", status.ErrInvalidArgument)
	}
	if remaining < 0 {
		return nil, fmt.Errorf("ticket count %d is negative: %w", remaining, status.ErrInvalidArgument)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("price %s is negative: %w", price, status.ErrInvalidArgument)
	}

	day := utils.TruncateToDay(date)
	return &Event{
		ID:          utils.DateKey(day) + "-" + name,
		Name:        name,
		Description: description,
		Date:        day,
		Remaining:   remaining,
		Price:       price,
		Reviews:     map[string]string{},
	}, nil
}

// Equal compares events by their derived identifier.
func (e *Event) Equal(other *Event) bool {
	if other == nil {
		return false
	}
	return e.ID == other.ID
}

// IsUpcoming reports whether the event has not yet occurred at the given
// reference time.
func (e *Event) IsUpcoming(now time.Time) bool {
	return !e.Date.Before(utils.TruncateToDay(now))
}

// AddReview records a review keyed by the reviewer's login, replacing any
// earlier text from the same reviewer.
func (e *Event) AddReview(login, text string) {
	if e.Reviews == nil {
		e.Reviews = map[string]string{}
	}
	e.Reviews[login] = text
}
