package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"tickethub/config"
	"tickethub/internal/status"
	"tickethub/models"
	"tickethub/monitoring"
	"tickethub/storage"
	"tickethub/utils"
)

// TicketingService exposes the business operations over the record store.
// Operations that read, mutate and rewrite a document take a named lock on
// the entity identifier, so two purchases racing on one event cannot lose a
// decrement. The store itself stays lock-free.
type TicketingService struct {
	store      *storage.Store
	locks      *utils.KeyedMutex
	bcryptCost int
}

func NewTicketingService(store *storage.Store, cfg *config.Config) *TicketingService {
	return &TicketingService{
		store:      store,
		locks:      utils.NewKeyedMutex(),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new account. The raw tax ID is sanitized and must hold
// exactly 11 digits; a second registration under the same normalized ID
// fails with status.ErrAlreadyExists.
func (s *TicketingService) Register(ctx context.Context, username, password, fullName, rawCPF, email string, isAdmin bool) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if username == "" || password == "" || fullName == "" || email == "" {
		monitoring.TrackOperation("register", "invalid")
		return nil, fmt.Errorf("all registration fields are required: %w", status.ErrInvalidArgument)
	}

	cpf := utils.SanitizeID(rawCPF)
	if !utils.ValidCPF(cpf) {
		monitoring.TrackOperation("register", "invalid")
		return nil, fmt.Errorf("tax id %q is not 11 digits: %w", rawCPF, status.ErrInvalidArgument)
	}

	unlock := s.locks.Lock("user:" + cpf)
	defer unlock()

	existing, err := s.store.LoadUser(cpf)
	if err != nil {
		monitoring.TrackOperation("register", "error")
		return nil, err
	}
	if existing != nil {
		monitoring.TrackOperation("register", "exists")
		return nil, fmt.Errorf("tax id %s: %w", cpf, status.ErrAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		monitoring.TrackOperation("register", "error")
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := models.NewUser(username, string(hash), fullName, cpf, email, isAdmin)
	if err := s.store.SaveUser(user); err != nil {
		monitoring.TrackOperation("register", "error")
		return nil, err
	}

	slog.Info("user registered", "cpf", cpf, "admin", isAdmin)
	monitoring.TrackOperation("register", "ok")
	return user, nil
}

// Authenticate verifies credentials. An absent user or a wrong password is a
// plain false, not an error; only storage failures surface as errors.
func (s *TicketingService) Authenticate(ctx context.Context, rawCPF, password string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	user, err := s.store.LoadUser(rawCPF)
	if err != nil {
		monitoring.TrackOperation("authenticate", "error")
		return false, err
	}
	if user == nil {
		monitoring.TrackOperation("authenticate", "rejected")
		return false, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		monitoring.TrackOperation("authenticate", "rejected")
		return false, nil
	}

	monitoring.TrackOperation("authenticate", "ok")
	return true, nil
}

// CreateEvent registers an event with a zero unit price.
func (s *TicketingService) CreateEvent(ctx context.Context, actor *models.User, name, description string, date time.Time, remaining int) (*models.Event, error) {
	return s.CreatePricedEvent(ctx, actor, name, description, date, remaining, decimal.Zero)
}

// CreatePricedEvent registers an event. Only administrators may create
// events. The name is embedded verbatim in the derived ID, which is also the
// storage filename, so path separators are rejected.
func (s *TicketingService) CreatePricedEvent(ctx context.Context, actor *models.User, name, description string, date time.Time, remaining int, price decimal.Decimal) (*models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if actor == nil || !actor.IsAdmin {
		monitoring.TrackOperation("create_event", "denied")
		return nil, fmt.Errorf("only administrators may create events: %w", status.ErrPermissionDenied)
	}
	if name == "" || strings.ContainsAny(name, "/\\\x00") {
		monitoring.TrackOperation("create_event", "invalid")
		return nil, fmt.Errorf("event name %q is not usable as an identifier: %w", name, status.ErrInvalidArgument)
	}

	event, err := models.NewPricedEvent(name, description, date, remaining, price)
	if err != nil {
		monitoring.TrackOperation("create_event", "invalid")
		return nil, err
	}

	if err := s.store.SaveEvent(event); err != nil {
		monitoring.TrackOperation("create_event", "error")
		return nil, err
	}

	slog.Info("event created", "event_id", event.ID, "remaining", remaining)
	monitoring.TrackOperation("create_event", "ok")
	return event, nil
}

// Purchase issues a ticket and its receipt, decrements the event inventory
// and appends both to the buyer. It touches two documents; the event is
// persisted first so a crash between the writes loses inventory instead of
// granting an unpaid ticket.
func (s *TicketingService) Purchase(ctx context.Context, user *models.User, eventID, payment string, at time.Time) (models.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return models.Ticket{}, err
	}
	unlockEvent := s.locks.Lock("event:" + eventID)
	defer unlockEvent()
	unlockUser := s.locks.Lock("user:" + user.CPF)
	defer unlockUser()

	event, err := s.store.LoadEvent(eventID)
	if err != nil {
		monitoring.TrackOperation("purchase", "error")
		return models.Ticket{}, err
	}
	if event == nil {
		monitoring.TrackOperation("purchase", "not_found")
		return models.Ticket{}, fmt.Errorf("event %s: %w", eventID, status.ErrNotFound)
	}
	if event.Remaining <= 0 {
		monitoring.TrackOperation("purchase", "sold_out")
		return models.Ticket{}, fmt.Errorf("event %s: %w", eventID, status.ErrSoldOut)
	}

	ticket := models.NewTicket(event)
	receipt := models.NewReceipt(user, ticket, payment, eventID, at)

	event.Remaining--
	user.AddTicket(ticket)
	user.AddReceipt(receipt)

	if err := s.store.SaveEvent(event); err != nil {
		monitoring.TrackOperation("purchase", "error")
		return models.Ticket{}, err
	}
	if err := s.store.SaveUser(user); err != nil {
		monitoring.TrackOperation("purchase", "error")
		return models.Ticket{}, err
	}

	slog.Info("ticket purchased", "event_id", eventID, "ticket_id", ticket.ID, "cpf", user.CPF)
	monitoring.TrackOperation("purchase", "ok")
	monitoring.TrackPurchaseAmount(ticket.Price)
	return ticket, nil
}

// Cancel detaches a ticket from its owner, marks it cancelled and returns
// the seat to the event inventory. A cancellation is accepted only when the
// event date is strictly before the supplied timestamp, i.e. the event has
// already occurred; this mirrors the established business rule even though
// most ticketing systems invert it. A rejected cancellation mutates nothing
// and returns false.
func (s *TicketingService) Cancel(ctx context.Context, user *models.User, ticket *models.Ticket, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	unlockEvent := s.locks.Lock("event:" + ticket.EventID)
	defer unlockEvent()
	unlockUser := s.locks.Lock("user:" + user.CPF)
	defer unlockUser()

	event, err := s.store.LoadEvent(ticket.EventID)
	if err != nil {
		monitoring.TrackOperation("cancel", "error")
		return false, err
	}
	if event == nil {
		monitoring.TrackOperation("cancel", "not_found")
		return false, fmt.Errorf("event %s: %w", ticket.EventID, status.ErrNotFound)
	}

	if !event.Date.Before(at) {
		monitoring.TrackOperation("cancel", "rejected")
		return false, nil
	}
	if !user.RemoveTicket(ticket.ID) {
		// already cancelled, or never owned
		monitoring.TrackOperation("cancel", "rejected")
		return false, nil
	}

	ticket.Active = false
	event.Remaining++

	if err := s.store.SaveEvent(event); err != nil {
		monitoring.TrackOperation("cancel", "error")
		return false, err
	}
	if err := s.store.SaveUser(user); err != nil {
		monitoring.TrackOperation("cancel", "error")
		return false, err
	}

	slog.Info("ticket cancelled", "event_id", ticket.EventID, "ticket_id", ticket.ID, "cpf", user.CPF)
	monitoring.TrackOperation("cancel", "ok")
	return true, nil
}

// SubmitReview records the user's review on the event, overwriting any prior
// text from the same login. Only users holding a ticket for the event,
// cancelled or not, may review it.
func (s *TicketingService) SubmitReview(ctx context.Context, user *models.User, eventID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !user.HasTicketFor(eventID) {
		monitoring.TrackOperation("review", "denied")
		return fmt.Errorf("user %s holds no ticket for event %s: %w", user.CPF, eventID, status.ErrPermissionDenied)
	}

	unlock := s.locks.Lock("event:" + eventID)
	defer unlock()

	event, err := s.store.LoadEvent(eventID)
	if err != nil {
		monitoring.TrackOperation("review", "error")
		return err
	}
	if event == nil {
		monitoring.TrackOperation("review", "not_found")
		return fmt.Errorf("event %s: %w", eventID, status.ErrNotFound)
	}

	event.AddReview(user.Username, text)
	if err := s.store.SaveEvent(event); err != nil {
		monitoring.TrackOperation("review", "error")
		return err
	}

	monitoring.TrackOperation("review", "ok")
	return nil
}

// UpdateProfile overwrites the account's mutable fields and persists it. The
// tax ID never changes, so no uniqueness re-check is needed.
func (s *TicketingService) UpdateProfile(ctx context.Context, user *models.User, username, password, fullName, email string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if username == "" || password == "" || fullName == "" || email == "" {
		monitoring.TrackOperation("update_profile", "invalid")
		return fmt.Errorf("all profile fields are required: %w", status.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		monitoring.TrackOperation("update_profile", "error")
		return fmt.Errorf("hashing password: %w", err)
	}

	unlock := s.locks.Lock("user:" + user.CPF)
	defer unlock()

	user.UpdateProfile(username, string(hash), fullName, email)
	if err := s.store.SaveUser(user); err != nil {
		monitoring.TrackOperation("update_profile", "error")
		return err
	}

	monitoring.TrackOperation("update_profile", "ok")
	return nil
}

// LookupUser loads an account by raw tax ID, mapping absence to
// status.ErrNotFound for callers that expect the account to exist.
func (s *TicketingService) LookupUser(ctx context.Context, rawCPF string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	user, err := s.store.LoadUser(rawCPF)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", utils.SanitizeID(rawCPF), status.ErrNotFound)
	}
	return user, nil
}

func (s *TicketingService) LookupEvent(ctx context.Context, eventID string) (*models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	event, err := s.store.LoadEvent(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", eventID, status.ErrNotFound)
	}
	return event, nil
}

// UpcomingEvents collects the identifiers of events dated strictly after
// today. The scan is re-run on every call; nothing is cached.
func (s *TicketingService) UpcomingEvents(ctx context.Context) []string {
	if ctx.Err() != nil {
		return nil
	}
	ids := []string{}
	for id := range s.store.UpcomingEventIDs() {
		ids = append(ids, id)
	}
	monitoring.TrackUpcomingEvents(len(ids))
	return ids
}

// TicketsOf projects the user's embedded ticket collection.
func (s *TicketingService) TicketsOf(user *models.User) []models.Ticket {
	return user.Tickets
}

// ReceiptsOf projects the user's embedded receipt collection.
func (s *TicketingService) ReceiptsOf(user *models.User) []models.Receipt {
	return user.Receipts
}
