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

const interactionColumns = `id, user_id, customer_id, type, content, outcome, next_action, next_date, created_at, updated_at`

type InteractionRepository struct {
	db DB
}

func NewInteractionRepository(db DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Create inserts the interaction and fills in its generated fields.
func (r *InteractionRepository) Create(ctx context.Context, it *models.Interaction) error {
	query := `
		INSERT INTO interactions (user_id, customer_id, type, content, outcome, next_action, next_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		it.UserID, it.CustomerID, it.Type, it.Content, it.Outcome, it.NextAction, it.NextDate,
	).Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// FindByID fetches one interaction scoped to its owner.
func (r *InteractionRepository) FindByID(ctx context.Context, id, userID uint64) (*models.Interaction, error) {
	query := `SELECT ` + interactionColumns + ` FROM interactions WHERE id = $1 AND user_id = $2`
	var it models.Interaction
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&it.ID, &it.UserID, &it.CustomerID, &it.Type, &it.Content,
		&it.Outcome, &it.NextAction, &it.NextDate, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan interaction: %w", err)
	}
	return &it, nil
}

// List returns interactions newest first, optionally scoped to one
// customer or type.
func (r *InteractionRepository) List(ctx context.Context, userID uint64, q *dto.InteractionQuery) ([]*models.Interaction, int64, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if q.CustomerID != 0 {
		args = append(args, q.CustomerID)
		where = append(where, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if q.Type != "" {
		args = append(args, q.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM interactions WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count interactions: %w", err)
	}

	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)
	query := fmt.Sprintf("SELECT %s FROM interactions WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		interactionColumns, cond, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var items []*models.Interaction
	for rows.Next() {
		var it models.Interaction
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.CustomerID, &it.Type, &it.Content,
			&it.Outcome, &it.NextAction, &it.NextDate, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan interaction: %w", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list interactions: %w", err)
	}
	return items, total, nil
}

// Delete removes an interaction.
func (r *InteractionRepository) Delete(ctx context.Context, id, userID uint64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM interactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete interaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
