package models

import "time"

// Receipt records a single purchase. It embeds the ticket by value, is owned
// by the buying user and is never mutated after creation.
type Receipt struct {
	BuyerName  string    `json:"buyer_name"`
	BuyerCPF   string    `json:"buyer_cpf"`
	BuyerEmail string    `json:"buyer_email"`
	Ticket     Ticket    `json:"ticket"`
	Payment    string    `json:"payment"`
	EventID    string    `json:"event_id"`
	IssuedAt   time.Time `json:"issued_at"`
}

func NewReceipt(buyer *User, ticket Ticket, payment, eventID string, at time.Time) Receipt {
	return Receipt{
		BuyerName:  buyer.FullName,
		BuyerCPF:   buyer.CPF,
		BuyerEmail: buyer.Email,
		Ticket:     ticket,
		Payment:    payment,
		EventID:    eventID,
		IssuedAt:   at,
	}
}
