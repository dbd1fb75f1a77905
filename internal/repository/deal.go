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

const dealColumns = `id, record_no, user_id, customer_id, deal_type, product_or_service, quantity, unit,
	amount, currency, contract_no, signed_at, payment_status, paid_amount, paid_at,
	is_repeat_purchase, deal_at, notes, created_at, updated_at`

type DealRepository struct {
	db DB
}

func NewDealRepository(db DB) *DealRepository {
	return &DealRepository{db: db}
}

// Create inserts the deal and fills in its generated fields.
func (r *DealRepository) Create(ctx context.Context, d *models.Deal) error {
	query := `
		INSERT INTO deals (record_no, user_id, customer_id, deal_type, product_or_service, quantity, unit,
			amount, currency, contract_no, signed_at, payment_status, paid_amount, paid_at,
			is_repeat_purchase, deal_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		d.RecordNo, d.UserID, d.CustomerID, d.DealType, d.ProductOrService, d.Quantity, d.Unit,
		d.Amount, d.Currency, d.ContractNo, d.SignedAt, d.PaymentStatus, d.PaidAmount, d.PaidAt,
		d.IsRepeatPurchase, d.DealAt, d.Notes,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

// FindByID fetches one deal scoped to its owner.
func (r *DealRepository) FindByID(ctx context.Context, id, userID uint64) (*models.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1 AND user_id = $2`
	return r.scanOne(r.db.QueryRow(ctx, query, id, userID))
}

// List returns deals newest first with optional filters.
func (r *DealRepository) List(ctx context.Context, userID uint64, q *dto.DealQuery) ([]*models.Deal, int64, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}
	if q.CustomerID != 0 {
		args = append(args, q.CustomerID)
		where = append(where, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if q.DealType != "" {
		args = append(args, q.DealType)
		where = append(where, fmt.Sprintf("deal_type = $%d", len(args)))
	}
	if q.PaymentStatus != "" {
		args = append(args, q.PaymentStatus)
		where = append(where, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM deals WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count deals: %w", err)
	}

	args = append(args, q.PerPage, (q.Page-1)*q.PerPage)
	query := fmt.Sprintf("SELECT %s FROM deals WHERE %s ORDER BY deal_at DESC LIMIT $%d OFFSET $%d",
		dealColumns, cond, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list deals: %w", err)
	}
	defer rows.Close()

	var deals []*models.Deal
	for rows.Next() {
		d, err := r.scanOne(rows)
		if err != nil {
			return nil, 0, err
		}
		deals = append(deals, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list deals: %w", err)
	}
	return deals, total, nil
}

// Update writes all mutable columns back.
func (r *DealRepository) Update(ctx context.Context, d *models.Deal) error {
	query := `
		UPDATE deals SET
			deal_type = $1, product_or_service = $2, quantity = $3, unit = $4,
			amount = $5, currency = $6, contract_no = $7, signed_at = $8,
			payment_status = $9, paid_amount = $10, paid_at = $11,
			is_repeat_purchase = $12, deal_at = $13, notes = $14, updated_at = NOW()
		WHERE id = $15 AND user_id = $16`
	tag, err := r.db.Exec(ctx, query,
		d.DealType, d.ProductOrService, d.Quantity, d.Unit,
		d.Amount, d.Currency, d.ContractNo, d.SignedAt,
		d.PaymentStatus, d.PaidAmount, d.PaidAt,
		d.IsRepeatPurchase, d.DealAt, d.Notes,
		d.ID, d.UserID)
	if err != nil {
		return fmt.Errorf("update deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a deal.
func (r *DealRepository) Delete(ctx context.Context, id, userID uint64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM deals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete deal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByCustomer counts existing deals for a customer, used to flag
// repeat purchases.
func (r *DealRepository) CountByCustomer(ctx context.Context, customerID, userID uint64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM deals WHERE customer_id = $1 AND user_id = $2`,
		customerID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count deals: %w", err)
	}
	return count, nil
}

func (r *DealRepository) scanOne(row pgx.Row) (*models.Deal, error) {
	var d models.Deal
	err := row.Scan(
		&d.ID, &d.RecordNo, &d.UserID, &d.CustomerID, &d.DealType, &d.ProductOrService, &d.Quantity, &d.Unit,
		&d.Amount, &d.Currency, &d.ContractNo, &d.SignedAt, &d.PaymentStatus, &d.PaidAmount, &d.PaidAt,
		&d.IsRepeatPurchase, &d.DealAt, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan deal: %w", err)
	}
	return &d, nil
}
