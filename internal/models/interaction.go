package models

import "time"

// Interaction is one follow-up touchpoint with a customer.
type Interaction struct {
	ID         uint64 `json:"id"`
	UserID     uint64 `json:"user_id"`
	CustomerID uint64 `json:"customer_id"`

	Type       string     `json:"type"` // call, email, meeting, note
	Content    string     `json:"content"`
	Outcome    string     `json:"outcome,omitempty"` // positive, neutral, negative
	NextAction string     `json:"next_action,omitempty"`
	NextDate   *time.Time `json:"next_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
