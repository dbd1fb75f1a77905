package dto

import "time"

// CreateInteractionRequest logs one follow-up touchpoint.
type CreateInteractionRequest struct {
	CustomerID uint64     `json:"customer_id" binding:"required"`
	Type       string     `json:"type" binding:"required"` // call, email, meeting, note
	Content    string     `json:"content"`
	Outcome    string     `json:"outcome"` // positive, neutral, negative
	NextAction string     `json:"next_action"`
	NextDate   *time.Time `json:"next_date"`
}

// InteractionQuery filters the interaction list.
type InteractionQuery struct {
	Page       int    `form:"page,default=1"`
	PerPage    int    `form:"per_page,default=10"`
	CustomerID uint64 `form:"customer_id"`
	Type       string `form:"type"`
}

func (q *InteractionQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 100 {
		q.PerPage = 10
	}
}
