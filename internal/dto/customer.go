package dto

import "time"

// CreateCustomerRequest carries the fields for a new customer. The
// mandatory policy (name, company, one contact method) is enforced in
// the service layer so manual form saves and chat intake behave the
// same.
type CreateCustomerRequest struct {
	Name              string     `json:"name" binding:"required"`
	Company           string     `json:"company" binding:"required"`
	Position          string     `json:"position"`
	Phone             string     `json:"phone"`
	Email             string     `json:"email" binding:"omitempty,email"`
	WechatID          string     `json:"wechat_id"`
	Industry          string     `json:"industry"`
	Budget            string     `json:"budget"`
	IntentLevel       string     `json:"intent_level"`
	Stage             string     `json:"stage"`
	Source            string     `json:"source"`
	ContractValue     string     `json:"contract_value"`
	ContractStatus    string     `json:"contract_status"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	Probability       int        `json:"probability"`
	AnnualRevenue     string     `json:"annual_revenue"`
	Notes             string     `json:"notes"`
}

// UpdateCustomerRequest updates a customer; nil fields are left as-is.
type UpdateCustomerRequest struct {
	Name              *string    `json:"name"`
	Company           *string    `json:"company"`
	Position          *string    `json:"position"`
	Phone             *string    `json:"phone"`
	Email             *string    `json:"email"`
	WechatID          *string    `json:"wechat_id"`
	Industry          *string    `json:"industry"`
	Budget            *string    `json:"budget"`
	IntentLevel       *string    `json:"intent_level"`
	Stage             *string    `json:"stage"`
	Source            *string    `json:"source"`
	ContractValue     *string    `json:"contract_value"`
	ContractStatus    *string    `json:"contract_status"`
	ExpectedCloseDate *time.Time `json:"expected_close_date"`
	Probability       *int       `json:"probability"`
	AnnualRevenue     *string    `json:"annual_revenue"`
	Notes             *string    `json:"notes"`
	LastContact       *time.Time `json:"last_contact"`
}

// CustomerQuery holds list filters and pagination.
type CustomerQuery struct {
	Page        int    `form:"page,default=1"`
	PerPage     int    `form:"per_page,default=10"`
	Search      string `form:"search"`
	Stage       string `form:"stage"`
	IntentLevel string `form:"intent_level"`
	Source      string `form:"source"`
	Industry    string `form:"industry"`
	SortBy      string `form:"sort_by,default=created_at"`
	SortOrder   string `form:"sort_order,default=desc"`
}

// Normalize clamps pagination to sane bounds.
func (q *CustomerQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 || q.PerPage > 100 {
		q.PerPage = 10
	}
}
