package models

import "time"

// KnowledgeItem is one entry in the per-user sales knowledge base.
type KnowledgeItem struct {
	ID     uint64 `json:"id"`
	UserID uint64 `json:"user_id"`

	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Type        string   `json:"type"` // sales_script, product_info, faq, best_practice, objection_handling
	Tags        []string `json:"tags,omitempty"`
	Description string   `json:"description,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
