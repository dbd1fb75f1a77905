package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/superxia01/crm/internal/dto"
	"github.com/superxia01/crm/internal/models"
)

const knowledgeColumns = `id, user_id, title, content, type, tags, description, created_at, updated_at`

type KnowledgeRepository struct {
	db DB
}

func NewKnowledgeRepository(db DB) *KnowledgeRepository {
	return &KnowledgeRepository{db: db}
}

// Create inserts the entry and fills in its generated fields.
func (r *KnowledgeRepository) Create(ctx context.Context, k *models.KnowledgeItem) error {
	query := `
		INSERT INTO knowledge_base (user_id, title, content, type, tags, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		k.UserID, k.Title, k.Content, k.Type, k.Tags, k.Description,
	).Scan(&k.ID, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert knowledge entry: %w", err)
	}
	return nil
}

// FindByID fetches one entry scoped to its owner.
func (r *KnowledgeRepository) FindByID(ctx context.Context, id, userID uint64) (*models.KnowledgeItem, error) {
	query := `SELECT ` + knowledgeColumns + ` FROM knowledge_base WHERE id = $1 AND user_id = $2`
	return r.scanOne(r.db.QueryRow(ctx, query, id, userID))
}

// List returns entries newest first. Search matches title and content
// with ILIKE; semantic ranking is out of scope for keyword search.
func (r *KnowledgeRepository) List(ctx context.Context, userID uint64, q *dto.KnowledgeQuery) ([]*models.KnowledgeItem, int64, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", n, n))
	}
	if q.Type != "" {
		args = append(args, q.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM knowledge_base WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count knowledge entries: %w", err)
	}

	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)
	query := fmt.Sprintf("SELECT %s FROM knowledge_base WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		knowledgeColumns, cond, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list knowledge entries: %w", err)
	}
	defer rows.Close()

	var items []*models.KnowledgeItem
	for rows.Next() {
		k, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, k)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list knowledge entries: %w", err)
	}
	return items, total, nil
}

// Update writes all mutable columns back.
func (r *KnowledgeRepository) Update(ctx context.Context, k *models.KnowledgeItem) error {
	query := `
		UPDATE knowledge_base SET title = $1, content = $2, type = $3, tags = $4, description = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7`
	tag, err := r.db.Exec(ctx, query, k.Title, k.Content, k.Type, k.Tags, k.Description, k.ID, k.UserID)
	if err != nil {
		return fmt.Errorf("update knowledge entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entry.
func (r *KnowledgeRepository) Delete(ctx context.Context, id, userID uint64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM knowledge_base WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete knowledge entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *KnowledgeRepository) scanOne(row pgx.Row) (*models.KnowledgeItem, error) {
	var k models.KnowledgeItem
	err := row.Scan(
		&k.ID, &k.UserID, &k.Title, &k.Content, &k.Type, &k.Tags, &k.Description,
		&k.CreatedAt, &k.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan knowledge entry: %w", err)
	}
	return &k, nil
}
