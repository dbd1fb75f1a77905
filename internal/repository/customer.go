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

const customerColumns = `id, user_id, name, company, position, phone, email, wechat_id, industry,
	budget, intent_level, stage, source, follow_up_count,
	contract_value, contract_status, expected_close_date, probability, annual_revenue,
	notes, last_contact, created_at, updated_at`

// Sort keys the list endpoint accepts. Anything else falls back to
// created_at so user input never reaches the ORDER BY clause raw.
var customerSortable = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"company":      true,
	"intent_level": true,
	"last_contact": true,
}

type CustomerRepository struct {
	db DB
}

func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts the customer and fills in its generated ID and
// timestamps.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customers (user_id, name, company, position, phone, email, wechat_id, industry,
			budget, intent_level, stage, source,
			contract_value, contract_status, expected_close_date, probability, annual_revenue, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		c.UserID, c.Name, c.Company, c.Position, c.Phone, c.Email, c.WechatID, c.Industry,
		c.Budget, c.IntentLevel, c.Stage, c.Source,
		c.ContractValue, c.ContractStatus, c.ExpectedCloseDate, c.Probability, c.AnnualRevenue, c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// FindByID fetches one live customer scoped to its owner.
func (r *CustomerRepository) FindByID(ctx context.Context, id, userID uint64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + `
		FROM customers WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(ctx, query, id, userID))
}

// List returns live customers matching the query plus the unpaginated
// total.
func (r *CustomerRepository) List(ctx context.Context, userID uint64, q *dto.CustomerQuery) ([]*models.Customer, int64, error) {
	return r.list(ctx, userID, q, false)
}

// ListArchived returns soft-deleted customers.
func (r *CustomerRepository) ListArchived(ctx context.Context, userID uint64, q *dto.CustomerQuery) ([]*models.Customer, int64, error) {
	return r.list(ctx, userID, q, true)
}

func (r *CustomerRepository) list(ctx context.Context, userID uint64, q *dto.CustomerQuery, archived bool) ([]*models.Customer, int64, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if archived {
		where = append(where, "deleted_at IS NOT NULL")
	} else {
		where = append(where, "deleted_at IS NULL")
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR company ILIKE $%d OR email ILIKE $%d)", n, n, n))
	}
	filters := []struct{ col, val string }{
		{"stage", q.Stage},
		{"intent_level", q.IntentLevel},
		{"source", q.Source},
		{"industry", q.Industry},
	}
	for _, f := range filters {
		if f.val != "" {
			args = append(args, f.val)
			where = append(where, fmt.Sprintf("%s = $%d", f.col, len(args)))
		}
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM customers WHERE " + cond
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	sortBy := q.SortBy
	if !customerSortable[sortBy] {
		sortBy = "created_at"
	}
	order := sortBy
	if strings.EqualFold(q.SortOrder, "desc") {
		order += " DESC"
	}
	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)
	listQuery := fmt.Sprintf("SELECT %s FROM customers WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		customerColumns, cond, order, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return customers, total, nil
}

// Update writes all mutable columns back.
func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	query := `
		UPDATE customers SET
			name = $1, company = $2, position = $3, phone = $4, email = $5, wechat_id = $6, industry = $7,
			budget = $8, intent_level = $9, stage = $10, source = $11,
			contract_value = $12, contract_status = $13, expected_close_date = $14,
			probability = $15, annual_revenue = $16, notes = $17, last_contact = $18,
			updated_at = NOW()
		WHERE id = $19 AND user_id = $20 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query,
		c.Name, c.Company, c.Position, c.Phone, c.Email, c.WechatID, c.Industry,
		c.Budget, c.IntentLevel, c.Stage, c.Source,
		c.ContractValue, c.ContractStatus, c.ExpectedCloseDate,
		c.Probability, c.AnnualRevenue, c.Notes, c.LastContact,
		c.ID, c.UserID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Archive soft-deletes a customer.
func (r *CustomerRepository) Archive(ctx context.Context, id, userID uint64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE customers SET deleted_at = NOW() WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		id, userID)
	if err != nil {
		return fmt.Errorf("archive customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Restore brings an archived customer back.
func (r *CustomerRepository) Restore(ctx context.Context, id, userID uint64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE customers SET deleted_at = NULL WHERE id = $1 AND user_id = $2 AND deleted_at IS NOT NULL`,
		id, userID)
	if err != nil {
		return fmt.Errorf("restore customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementFollowUp bumps the follow-up counter and last-contact time.
func (r *CustomerRepository) IncrementFollowUp(ctx context.Context, id, userID uint64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE customers SET follow_up_count = follow_up_count + 1, last_contact = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`,
		id, userID)
	if err != nil {
		return fmt.Errorf("increment follow-up: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) scanOne(row pgx.Row) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Company, &c.Position, &c.Phone, &c.Email, &c.WechatID, &c.Industry,
		&c.Budget, &c.IntentLevel, &c.Stage, &c.Source, &c.FollowUpCount,
		&c.ContractValue, &c.ContractStatus, &c.ExpectedCloseDate, &c.Probability, &c.AnnualRevenue,
		&c.Notes, &c.LastContact, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	return &c, nil
}
