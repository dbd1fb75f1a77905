package models

import "time"

// Deal is a sales revenue record tied to a customer.
type Deal struct {
	ID               uint64     `json:"id"`
	RecordNo         string     `json:"record_no"`
	UserID           uint64     `json:"user_id"`
	CustomerID       uint64     `json:"customer_id"`
	DealType         string     `json:"deal_type"` // sale, renewal, upsell
	ProductOrService string     `json:"product_or_service"`
	Quantity         float64    `json:"quantity"`
	Unit             string     `json:"unit"`
	Amount           float64    `json:"amount"`
	Currency         string     `json:"currency"`
	ContractNo       string     `json:"contract_no,omitempty"`
	SignedAt         *time.Time `json:"signed_at,omitempty"`
	PaymentStatus    string     `json:"payment_status"` // pending, partial, paid
	PaidAmount       float64    `json:"paid_amount"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	IsRepeatPurchase bool       `json:"is_repeat_purchase"`
	DealAt           time.Time  `json:"deal_at"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
