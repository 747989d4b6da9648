package models

// User is an account in the ticketing system. The CPF (the 11-digit national
// tax ID) is the natural key: equality, storage addressing and duplicate
// detection all go through it. Tickets and receipts are owned by the user and
// serialized inside its document.
type User struct {
	Username string    `json:"username"`
	Password string    `json:"password"` // bcrypt hash, never the raw secret
	FullName string    `json:"full_name"`
	CPF      string    `json:"cpf"`
	Email    string    `json:"email"`
	IsAdmin  bool      `json:"is_admin"`
	Tickets  []Ticket  `json:"tickets"`
	Receipts []Receipt `json:"receipts"`
}

func NewUser(username, passwordHash, fullName, cpf, email string, isAdmin bool) *User {
	return &User{
		Username: username,
		Password: passwordHash,
		FullName: fullName,
		CPF:      cpf,
		Email:    email,
		IsAdmin:  isAdmin,
		Tickets:  []Ticket{},
		Receipts: []Receipt{},
	}
}

// Equal compares users by their natural key.
func (u *User) Equal(other *User) bool {
	if other == nil {
		return false
	}
	return u.CPF == other.CPF
}

func (u *User) AddTicket(t Ticket) {
	u.Tickets = append(u.Tickets, t)
}

func (u *User) AddReceipt(r Receipt) {
	u.Receipts = append(u.Receipts, r)
}

// HasTicketFor reports whether the user ever bought a ticket for the event,
// cancelled or not. Review permission checks use this.
func (u *User) HasTicketFor(eventID string) bool {
	for i := range u.Tickets {
		if u.Tickets[i].EventID == eventID {
			return true
		}
	}
	return false
}

// ActiveTickets returns the tickets that have not been cancelled.
func (u *User) ActiveTickets() []Ticket {
	active := make([]Ticket, 0, len(u.Tickets))
	for i := range u.Tickets {
		if u.Tickets[i].Active {
			active = append(active, u.Tickets[i])
		}
	}
	return active
}

// RemoveTicket detaches the ticket with the given ID from the user's list and
// reports whether it was present.
func (u *User) RemoveTicket(ticketID string) bool {
	for i := range u.Tickets {
		if u.Tickets[i].ID == ticketID {
			u.Tickets = append(u.Tickets[:i], u.Tickets[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateProfile overwrites the mutable account fields. The CPF is the natural
// key and never changes through this path.
func (u *User) UpdateProfile(username, passwordHash, fullName, email string) {
	u.Username = username
	u.Password = passwordHash
	u.FullName = fullName
	u.Email = email
}
