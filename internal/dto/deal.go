package dto

import "time"

// CreateDealRequest creates a revenue record for a customer.
type CreateDealRequest struct {
	CustomerID       uint64     `json:"customer_id" binding:"required"`
	DealType         string     `json:"deal_type"`
	ProductOrService string     `json:"product_or_service" binding:"required"`
	Quantity         float64    `json:"quantity"`
	Unit             string     `json:"unit"`
	Amount           float64    `json:"amount" binding:"required"`
	Currency         string     `json:"currency"`
	ContractNo       string     `json:"contract_no"`
	SignedAt         *time.Time `json:"signed_at"`
	PaymentStatus    string     `json:"payment_status"`
	PaidAmount       float64    `json:"paid_amount"`
	PaidAt           *time.Time `json:"paid_at"`
	IsRepeatPurchase bool       `json:"is_repeat_purchase"`
	DealAt           time.Time  `json:"deal_at" binding:"required"`
	Notes            string     `json:"notes"`
}

// UpdateDealRequest updates a deal; nil fields are left as-is.
type UpdateDealRequest struct {
	DealType         *string    `json:"deal_type"`
	ProductOrService *string    `json:"product_or_service"`
	Quantity         *float64   `json:"quantity"`
	Unit             *string    `json:"unit"`
	Amount           *float64   `json:"amount"`
	Currency         *string    `json:"currency"`
	ContractNo       *string    `json:"contract_no"`
	SignedAt         *time.Time `json:"signed_at"`
	PaymentStatus    *string    `json:"payment_status"`
	PaidAmount       *float64   `json:"paid_amount"`
	PaidAt           *time.Time `json:"paid_at"`
	IsRepeatPurchase *bool      `json:"is_repeat_purchase"`
	DealAt           *time.Time `json:"deal_at"`
	Notes            *string    `json:"notes"`
}

// DealQuery filters the deal list.
type DealQuery struct {
	Page          int    `form:"page,default=1"`
	PerPage       int    `form:"per_page,default=10"`
	CustomerID    uint64 `form:"customer_id"`
	DealType      string `form:"deal_type"`
	PaymentStatus string `form:"payment_status"`
}

func (q *DealQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 100 {
		q.PerPage = 10
	}
}
