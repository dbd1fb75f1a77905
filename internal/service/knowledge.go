package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/superxia01/crm/internal/dto"
	"github.com/superxia01/crm/internal/models"
)

// KnowledgeStore is the persistence surface KnowledgeService needs.
type KnowledgeStore interface {
	Create(ctx context.Context, k *models.KnowledgeItem) error
	FindByID(ctx context.Context, id, userID uint64) (*models.KnowledgeItem, error)
	List(ctx context.Context, userID uint64, q *dto.KnowledgeQuery) ([]*models.KnowledgeItem, int64, error)
	Update(ctx context.Context, k *models.KnowledgeItem) error
	Delete(ctx context.Context, id, userID uint64) error
}

var knowledgeTypes = map[string]bool{
	"sales_script": true, "product_info": true, "faq": true,
	"best_practice": true, "objection_handling": true,
}

type KnowledgeService struct {
	repo KnowledgeStore
}

func NewKnowledgeService(repo KnowledgeStore) *KnowledgeService {
	return &KnowledgeService{repo: repo}
}

// Create stores a knowledge base entry.
func (s *KnowledgeService) Create(ctx context.Context, userID uint64, req *dto.CreateKnowledgeRequest) (*models.KnowledgeItem, error) {
	if !knowledgeTypes[strings.ToLower(req.Type)] {
		return nil, fmt.Errorf("%w: unknown knowledge type %q", ErrValidation, req.Type)
	}
	k := &models.KnowledgeItem{
		UserID:      userID,
		Title:       req.Title,
		Content:     req.Content,
		Type:        strings.ToLower(req.Type),
		Tags:        req.Tags,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, k); err != nil {
		return nil, err
	}
	return k, nil
}

// Get returns one entry.
func (s *KnowledgeService) Get(ctx context.Context, id, userID uint64) (*models.KnowledgeItem, error) {
	return s.repo.FindByID(ctx, id, userID)
}

// List returns entries, optionally keyword-filtered.
func (s *KnowledgeService) List(ctx context.Context, userID uint64, q *dto.KnowledgeQuery) ([]*models.KnowledgeItem, dto.Meta, error) {
	q.Normalize()
	items, total, err := s.repo.List(ctx, userID, q)
	if err != nil {
		return nil, dto.Meta{}, err
	}
	return items, dto.NewMeta(q.Page, q.PerPage, total), nil
}

// Update applies the non-nil request fields and persists the result.
func (s *KnowledgeService) Update(ctx context.Context, id, userID uint64, req *dto.UpdateKnowledgeRequest) (*models.KnowledgeItem, error) {
	k, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		k.Title = *req.Title
	}
	if req.Content != nil {
		k.Content = *req.Content
	}
	if req.Type != nil {
		if !knowledgeTypes[strings.ToLower(*req.Type)] {
			return nil, fmt.Errorf("%w: unknown knowledge type %q", ErrValidation, *req.Type)
		}
		k.Type = strings.ToLower(*req.Type)
	}
	if req.Tags != nil {
		k.Tags = req.Tags
	}
	if req.Description != nil {
		k.Description = *req.Description
	}
	if err := s.repo.Update(ctx, k); err != nil {
		return nil, err
	}
	return k, nil
}

// Delete removes an entry.
func (s *KnowledgeService) Delete(ctx context.Context, id, userID uint64) error {
	return s.repo.Delete(ctx, id, userID)
}
