package models

import "time"

// Customer is a customer record owned by a single user.
type Customer struct {
	ID     uint64 `json:"id"`
	UserID uint64 `json:"user_id"`

	// Basic information
	Name     string `json:"name"`
	Company  string `json:"company"`
	Position string `json:"position,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
	WechatID string `json:"wechat_id,omitempty"`
	Industry string `json:"industry,omitempty"`

	// Sales information
	Budget        string `json:"budget,omitempty"`
	IntentLevel   string `json:"intent_level"` // High, Medium, Low
	Stage         string `json:"stage"`        // Leads, Qualified, Proposal, Negotiation, Closed
	Source        string `json:"source"`       // Manual, Chat, Website, Referral, ...
	FollowUpCount int    `json:"follow_up_count"`

	// Contract information
	ContractValue     string     `json:"contract_value,omitempty"`
	ContractStatus    string     `json:"contract_status"` // Pending, Signed, Active, Expired
	ExpectedCloseDate *time.Time `json:"expected_close_date,omitempty"`
	Probability       int        `json:"probability"` // 0-100
	AnnualRevenue     string     `json:"annual_revenue,omitempty"`

	Notes       string     `json:"notes,omitempty"`
	LastContact *time.Time `json:"last_contact,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Defaults applied on create when the caller leaves them blank.
const (
	DefaultIntentLevel    = "Medium"
	DefaultStage          = "Leads"
	DefaultSource         = "Manual"
	DefaultContractStatus = "Pending"
)
