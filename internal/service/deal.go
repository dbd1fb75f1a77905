package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/superxia01/crm/internal/dto"
	"github.com/superxia01/crm/internal/models"
)

// DealStore is the persistence surface DealService needs.
type DealStore interface {
	Create(ctx context.Context, d *models.Deal) error
	FindByID(ctx context.Context, id, userID uint64) (*models.Deal, error)
	List(ctx context.Context, userID uint64, q *dto.DealQuery) ([]*models.Deal, int64, error)
	Update(ctx context.Context, d *models.Deal) error
	Delete(ctx context.Context, id, userID uint64) error
	CountByCustomer(ctx context.Context, customerID, userID uint64) (int64, error)
}

type DealService struct {
	repo      DealStore
	customers *CustomerService
}

func NewDealService(repo DealStore, customers *CustomerService) *DealService {
	return &DealService{repo: repo, customers: customers}
}

// newRecordNo builds a human-scannable unique deal number.
func newRecordNo(at time.Time) string {
	return fmt.Sprintf("D%s-%s", at.Format("20060102"), strings.ToUpper(uuid.New().String()[:8]))
}

// Create records a deal. Repeat purchase is derived from existing
// deals for the same customer, not trusted from the request.
func (s *DealService) Create(ctx context.Context, userID uint64, req *dto.CreateDealRequest) (*models.Deal, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if _, err := s.customers.Get(ctx, req.CustomerID, userID); err != nil {
		return nil, err
	}
	prior, err := s.repo.CountByCustomer(ctx, req.CustomerID, userID)
	if err != nil {
		return nil, err
	}

	d := &models.Deal{
		RecordNo:         newRecordNo(req.DealAt),
		UserID:           userID,
		CustomerID:       req.CustomerID,
		DealType:         req.DealType,
		ProductOrService: req.ProductOrService,
		Quantity:         req.Quantity,
		Unit:             req.Unit,
		Amount:           req.Amount,
		Currency:         req.Currency,
		ContractNo:       req.ContractNo,
		SignedAt:         req.SignedAt,
		PaymentStatus:    req.PaymentStatus,
		PaidAmount:       req.PaidAmount,
		PaidAt:           req.PaidAt,
		IsRepeatPurchase: prior > 0,
		DealAt:           req.DealAt,
		Notes:            req.Notes,
	}
	if d.DealType == "" {
		d.DealType = "sale"
	}
	if d.Quantity == 0 {
		d.Quantity = 1
	}
	if d.Unit == "" {
		d.Unit = "piece"
	}
	if d.Currency == "" {
		d.Currency = "CNY"
	}
	if d.PaymentStatus == "" {
		d.PaymentStatus = "pending"
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get returns one deal.
func (s *DealService) Get(ctx context.Context, id, userID uint64) (*models.Deal, error) {
	return s.repo.FindByID(ctx, id, userID)
}

// List returns a deal page plus pagination metadata.
func (s *DealService) List(ctx context.Context, userID uint64, q *dto.DealQuery) ([]*models.Deal, dto.Meta, error) {
	q.Normalize()
	deals, total, err := s.repo.List(ctx, userID, q)
	if err != nil {
		return nil, dto.Meta{}, err
	}
	return deals, dto.NewMeta(q.Page, q.PerPage, total), nil
}

// Update applies the non-nil request fields and persists the result.
func (s *DealService) Update(ctx context.Context, id, userID uint64, req *dto.UpdateDealRequest) (*models.Deal, error) {
	d, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if req.DealType != nil {
		d.DealType = *req.DealType
	}
	if req.ProductOrService != nil {
		d.ProductOrService = *req.ProductOrService
	}
	if req.Quantity != nil {
		d.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		d.Unit = *req.Unit
	}
	if req.Amount != nil {
		d.Amount = *req.Amount
	}
	if req.Currency != nil {
		d.Currency = *req.Currency
	}
	if req.ContractNo != nil {
		d.ContractNo = *req.ContractNo
	}
	if req.SignedAt != nil {
		d.SignedAt = req.SignedAt
	}
	if req.PaymentStatus != nil {
		d.PaymentStatus = *req.PaymentStatus
	}
	if req.PaidAmount != nil {
		d.PaidAmount = *req.PaidAmount
	}
	if req.PaidAt != nil {
		d.PaidAt = req.PaidAt
	}
	if req.IsRepeatPurchase != nil {
		d.IsRepeatPurchase = *req.IsRepeatPurchase
	}
	if req.DealAt != nil {
		d.DealAt = *req.DealAt
	}
	if req.Notes != nil {
		d.Notes = *req.Notes
	}
	if d.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a deal.
func (s *DealService) Delete(ctx context.Context, id, userID uint64) error {
	return s.repo.Delete(ctx, id, userID)
}
