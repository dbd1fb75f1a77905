package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/superxia01/crm/internal/dto"
	"github.com/superxia01/crm/internal/models"
)

// InteractionStore is the persistence surface InteractionService needs.
type InteractionStore interface {
	Create(ctx context.Context, it *models.Interaction) error
	FindByID(ctx context.Context, id, userID uint64) (*models.Interaction, error)
	List(ctx context.Context, userID uint64, q *dto.InteractionQuery) ([]*models.Interaction, int64, error)
	Delete(ctx context.Context, id, userID uint64) error
}

var interactionTypes = map[string]bool{
	"call": true, "email": true, "meeting": true, "note": true,
}

type InteractionService struct {
	repo      InteractionStore
	customers *CustomerService
}

func NewInteractionService(repo InteractionStore, customers *CustomerService) *InteractionService {
	return &InteractionService{repo: repo, customers: customers}
}

// Create logs a follow-up touchpoint and bumps the customer's
// follow-up counter.
func (s *InteractionService) Create(ctx context.Context, userID uint64, req *dto.CreateInteractionRequest) (*models.Interaction, error) {
	if !interactionTypes[strings.ToLower(req.Type)] {
		return nil, fmt.Errorf("%w: unknown interaction type %q", ErrValidation, req.Type)
	}
	// The customer must exist and belong to the caller.
	if _, err := s.customers.Get(ctx, req.CustomerID, userID); err != nil {
		return nil, err
	}
	it := &models.Interaction{
		UserID:     userID,
		CustomerID: req.CustomerID,
		Type:       strings.ToLower(req.Type),
		Content:    req.Content,
		Outcome:    req.Outcome,
		NextAction: req.NextAction,
		NextDate:   req.NextDate,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	// The interaction is the source of truth; a failed counter bump is
	// logged, not surfaced.
	if err := s.customers.TouchFollowUp(ctx, req.CustomerID, userID); err != nil {
		slog.Warn("follow-up counter not bumped", "customer", req.CustomerID, "err", err)
	}
	return it, nil
}

// List returns interactions newest first.
func (s *InteractionService) List(ctx context.Context, userID uint64, q *dto.InteractionQuery) ([]*models.Interaction, dto.Meta, error) {
	q.Normalize()
	items, total, err := s.repo.List(ctx, userID, q)
	if err != nil {
		return nil, dto.Meta{}, err
	}
	return items, dto.NewMeta(q.Page, q.PerPage, total), nil
}

// Get returns one interaction.
func (s *InteractionService) Get(ctx context.Context, id, userID uint64) (*models.Interaction, error) {
	return s.repo.FindByID(ctx, id, userID)
}

// Delete removes an interaction.
func (s *InteractionService) Delete(ctx context.Context, id, userID uint64) error {
	return s.repo.Delete(ctx, id, userID)
}
