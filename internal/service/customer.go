package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/superxia01/crm/intake"
	"github.com/superxia01/crm/internal/dto"
	"github.com/superxia01/crm/internal/models"
)

// CustomerStore is the persistence surface CustomerService needs.
type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	FindByID(ctx context.Context, id, userID uint64) (*models.Customer, error)
	List(ctx context.Context, userID uint64, q *dto.CustomerQuery) ([]*models.Customer, int64, error)
	ListArchived(ctx context.Context, userID uint64, q *dto.CustomerQuery) ([]*models.Customer, int64, error)
	Update(ctx context.Context, c *models.Customer) error
	Archive(ctx context.Context, id, userID uint64) error
	Restore(ctx context.Context, id, userID uint64) error
	IncrementFollowUp(ctx context.Context, id, userID uint64) error
}

type CustomerService struct {
	repo CustomerStore
}

func NewCustomerService(repo CustomerStore) *CustomerService {
	return &CustomerService{repo: repo}
}

// validateMandatory enforces the same policy as the chat intake gate:
// name, company, and at least one contact method.
func validateMandatory(name, company, phone, email, wechatID string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(company) == "" {
		return fmt.Errorf("%w: company is required", ErrValidation)
	}
	if strings.TrimSpace(phone) == "" && strings.TrimSpace(email) == "" && strings.TrimSpace(wechatID) == "" {
		return fmt.Errorf("%w: at least one of phone, email or wechat_id is required", ErrValidation)
	}
	return nil
}

// Create validates and persists a new customer from the manual form.
func (s *CustomerService) Create(ctx context.Context, userID uint64, req *dto.CreateCustomerRequest) (*models.Customer, error) {
	if err := validateMandatory(req.Name, req.Company, req.Phone, req.Email, req.WechatID); err != nil {
		return nil, err
	}
	c := &models.Customer{
		UserID:            userID,
		Name:              req.Name,
		Company:           req.Company,
		Position:          req.Position,
		Phone:             req.Phone,
		Email:             req.Email,
		WechatID:          req.WechatID,
		Industry:          req.Industry,
		Budget:            req.Budget,
		IntentLevel:       req.IntentLevel,
		Stage:             req.Stage,
		Source:            req.Source,
		ContractValue:     req.ContractValue,
		ContractStatus:    req.ContractStatus,
		ExpectedCloseDate: req.ExpectedCloseDate,
		Probability:       req.Probability,
		AnnualRevenue:     req.AnnualRevenue,
		Notes:             req.Notes,
	}
	applyCreateDefaults(c)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func applyCreateDefaults(c *models.Customer) {
	if c.IntentLevel == "" {
		c.IntentLevel = models.DefaultIntentLevel
	}
	if c.Stage == "" {
		c.Stage = models.DefaultStage
	}
	if c.Source == "" {
		c.Source = models.DefaultSource
	}
	if c.ContractStatus == "" {
		c.ContractStatus = models.DefaultContractStatus
	}
}

// CreateFromFields persists a field set collected by the chat intake
// flow. It backs the intake engine's persistence collaborator.
func (s *CustomerService) CreateFromFields(ctx context.Context, userID uint64, fields intake.FieldSet) (uint64, error) {
	if err := validateMandatory(fields["name"], fields["company"], fields["phone"], fields["email"], fields["wechat_id"]); err != nil {
		return 0, err
	}
	c := &models.Customer{
		UserID:      userID,
		Name:        fields["name"],
		Company:     fields["company"],
		Position:    fields["position"],
		Phone:       fields["phone"],
		Email:       fields["email"],
		WechatID:    fields["wechat_id"],
		Industry:    fields["industry"],
		Budget:      fields["budget"],
		IntentLevel: fields["intent_level"],
		Notes:       fields["notes"],
		Source:      "Chat",
	}
	applyCreateDefaults(c)
	if err := s.repo.Create(ctx, c); err != nil {
		return 0, err
	}
	return c.ID, nil
}

// UpdateFromFields applies a chat-collected field set to an existing
// customer. It backs the edit-mode intake session.
func (s *CustomerService) UpdateFromFields(ctx context.Context, userID, customerID uint64, fields intake.FieldSet) (uint64, error) {
	c, err := s.repo.FindByID(ctx, customerID, userID)
	if err != nil {
		return 0, err
	}
	assign := map[string]*string{
		"name":         &c.Name,
		"company":      &c.Company,
		"position":     &c.Position,
		"phone":        &c.Phone,
		"email":        &c.Email,
		"wechat_id":    &c.WechatID,
		"industry":     &c.Industry,
		"budget":       &c.Budget,
		"intent_level": &c.IntentLevel,
		"stage":        &c.Stage,
		"source":       &c.Source,
		"notes":        &c.Notes,
	}
	for key, dst := range assign {
		if val, ok := fields[key]; ok {
			*dst = val
		}
	}
	if err := validateMandatory(c.Name, c.Company, c.Phone, c.Email, c.WechatID); err != nil {
		return 0, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return 0, err
	}
	return c.ID, nil
}

// IntakeCreator binds a user (and for edit mode a customer) to the
// intake engine's Creator interface.
func (s *CustomerService) IntakeCreator(userID, customerID uint64) intake.Creator {
	return intake.CreatorFunc(func(ctx context.Context, fields intake.FieldSet) (uint64, error) {
		if customerID != 0 {
			return s.UpdateFromFields(ctx, userID, customerID, fields)
		}
		return s.CreateFromFields(ctx, userID, fields)
	})
}

// Get returns one customer.
func (s *CustomerService) Get(ctx context.Context, id, userID uint64) (*models.Customer, error) {
	return s.repo.FindByID(ctx, id, userID)
}

// List returns a filtered customer page plus pagination metadata.
func (s *CustomerService) List(ctx context.Context, userID uint64, q *dto.CustomerQuery) ([]*models.Customer, dto.Meta, error) {
	q.Normalize()
	customers, total, err := s.repo.List(ctx, userID, q)
	if err != nil {
		return nil, dto.Meta{}, err
	}
	return customers, dto.NewMeta(q.Page, q.PerPage, total), nil
}

// ListArchived returns soft-deleted customers.
func (s *CustomerService) ListArchived(ctx context.Context, userID uint64, q *dto.CustomerQuery) ([]*models.Customer, dto.Meta, error) {
	q.Normalize()
	customers, total, err := s.repo.ListArchived(ctx, userID, q)
	if err != nil {
		return nil, dto.Meta{}, err
	}
	return customers, dto.NewMeta(q.Page, q.PerPage, total), nil
}

// Update applies the non-nil request fields and persists the result.
func (s *CustomerService) Update(ctx context.Context, id, userID uint64, req *dto.UpdateCustomerRequest) (*models.Customer, error) {
	c, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	applyUpdate(c, req)
	if err := validateMandatory(c.Name, c.Company, c.Phone, c.Email, c.WechatID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func applyUpdate(c *models.Customer, req *dto.UpdateCustomerRequest) {
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Company != nil {
		c.Company = *req.Company
	}
	if req.Position != nil {
		c.Position = *req.Position
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.WechatID != nil {
		c.WechatID = *req.WechatID
	}
	if req.Industry != nil {
		c.Industry = *req.Industry
	}
	if req.Budget != nil {
		c.Budget = *req.Budget
	}
	if req.IntentLevel != nil {
		c.IntentLevel = *req.IntentLevel
	}
	if req.Stage != nil {
		c.Stage = *req.Stage
	}
	if req.Source != nil {
		c.Source = *req.Source
	}
	if req.ContractValue != nil {
		c.ContractValue = *req.ContractValue
	}
	if req.ContractStatus != nil {
		c.ContractStatus = *req.ContractStatus
	}
	if req.ExpectedCloseDate != nil {
		c.ExpectedCloseDate = req.ExpectedCloseDate
	}
	if req.Probability != nil {
		c.Probability = *req.Probability
	}
	if req.AnnualRevenue != nil {
		c.AnnualRevenue = *req.AnnualRevenue
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}
	if req.LastContact != nil {
		c.LastContact = req.LastContact
	}
}

// Archive soft-deletes a customer.
func (s *CustomerService) Archive(ctx context.Context, id, userID uint64) error {
	return s.repo.Archive(ctx, id, userID)
}

// Restore brings an archived customer back and returns it.
func (s *CustomerService) Restore(ctx context.Context, id, userID uint64) (*models.Customer, error) {
	if err := s.repo.Restore(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id, userID)
}

// TouchFollowUp records a follow-up against the customer.
func (s *CustomerService) TouchFollowUp(ctx context.Context, id, userID uint64) error {
	return s.repo.IncrementFollowUp(ctx, id, userID)
}

// IntakeFields projects an existing customer onto the chat-editable
// field keys, to seed an edit-mode session.
func (s *CustomerService) IntakeFields(ctx context.Context, id, userID uint64) (intake.FieldSet, error) {
	c, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	fields := intake.FieldSet{}
	for key, val := range map[string]string{
		"name":         c.Name,
		"company":      c.Company,
		"position":     c.Position,
		"phone":        c.Phone,
		"email":        c.Email,
		"wechat_id":    c.WechatID,
		"industry":     c.Industry,
		"budget":       c.Budget,
		"intent_level": c.IntentLevel,
		"stage":        c.Stage,
		"source":       c.Source,
		"notes":        c.Notes,
	} {
		if val != "" {
			fields[key] = val
		}
	}
	return fields, nil
}
