package repository

import (
	"context"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superxia01/crm/internal/dto"
	"github.com/superxia01/crm/internal/models"
)

func newCustomerMock(t *testing.T) (pgxmock.PgxPoolIface, *CustomerRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewCustomerRepository(mock)
}

func customerRow(c *models.Customer) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "user_id", "name", "company", "position", "phone", "email", "wechat_id", "industry",
		"budget", "intent_level", "stage", "source", "follow_up_count",
		"contract_value", "contract_status", "expected_close_date", "probability", "annual_revenue",
		"notes", "last_contact", "created_at", "updated_at",
	}).AddRow(
		c.ID, c.UserID, c.Name, c.Company, c.Position, c.Phone, c.Email, c.WechatID, c.Industry,
		c.Budget, c.IntentLevel, c.Stage, c.Source, c.FollowUpCount,
		c.ContractValue, c.ContractStatus, c.ExpectedCloseDate, c.Probability, c.AnnualRevenue,
		c.Notes, c.LastContact, c.CreatedAt, c.UpdatedAt,
	)
}

func TestCustomerCreateFillsGeneratedColumns(t *testing.T) {
	mock, repo := newCustomerMock(t)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO customers").
		WithArgs(uint64(7), "张三", "ABC科技", "", "13800138000", "", "", "",
			"", "Medium", "Leads", "Chat", "", "Pending", (*time.Time)(nil), 0, "", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(uint64(42), now, now))

	c := &models.Customer{
		UserID: 7, Name: "张三", Company: "ABC科技", Phone: "13800138000",
		IntentLevel: "Medium", Stage: "Leads", Source: "Chat", ContractStatus: "Pending",
	}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, uint64(42), c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerFindByIDScopesToOwner(t *testing.T) {
	mock, repo := newCustomerMock(t)

	want := &models.Customer{ID: 1, UserID: 7, Name: "Jane", Company: "Acme",
		IntentLevel: "High", Stage: "Qualified", Source: "Manual", ContractStatus: "Pending",
		CreatedAt: time.Now(), UpdatedAt: time.Now()}
	mock.ExpectQuery("SELECT (.+) FROM customers WHERE id = \\$1 AND user_id = \\$2").
		WithArgs(uint64(1), uint64(7)).
		WillReturnRows(customerRow(want))

	got, err := repo.FindByID(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)
	assert.Equal(t, "High", got.IntentLevel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerFindByIDNotFound(t *testing.T) {
	mock, repo := newCustomerMock(t)

	mock.ExpectQuery("SELECT (.+) FROM customers").
		WithArgs(uint64(99), uint64(7)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 99, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerListAppliesFiltersAndPagination(t *testing.T) {
	mock, repo := newCustomerMock(t)

	q := &dto.CustomerQuery{Page: 2, PerPage: 10, Stage: "Qualified", SortBy: "created_at", SortOrder: "desc"}
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM customers").
		WithArgs(uint64(7), "Qualified").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(13)))
	mock.ExpectQuery("SELECT (.+) FROM customers WHERE (.+) ORDER BY created_at DESC LIMIT \\$3 OFFSET \\$4").
		WithArgs(uint64(7), "Qualified", 10, 10).
		WillReturnRows(customerRow(&models.Customer{ID: 11, UserID: 7, Name: "A", Company: "B"}))

	customers, total, err := repo.List(context.Background(), 7, q)
	require.NoError(t, err)
	assert.Equal(t, int64(13), total)
	require.Len(t, customers, 1)
	assert.Equal(t, uint64(11), customers[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerListRejectsUnknownSortColumn(t *testing.T) {
	mock, repo := newCustomerMock(t)

	// a hostile sort_by value must not reach ORDER BY
	q := &dto.CustomerQuery{Page: 1, PerPage: 10, SortBy: "name; DROP TABLE customers"}
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM customers").
		WithArgs(uint64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery("ORDER BY created_at LIMIT").
		WithArgs(uint64(7), 10, 0).
		WillReturnRows(customerRow(&models.Customer{}))

	_, _, err := repo.List(context.Background(), 7, q)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerArchiveAndRestore(t *testing.T) {
	mock, repo := newCustomerMock(t)

	mock.ExpectExec("UPDATE customers SET deleted_at = NOW\\(\\)").
		WithArgs(uint64(1), uint64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.Archive(context.Background(), 1, 7))

	mock.ExpectExec("UPDATE customers SET deleted_at = NULL").
		WithArgs(uint64(1), uint64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.Restore(context.Background(), 1, 7), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerIncrementFollowUp(t *testing.T) {
	mock, repo := newCustomerMock(t)

	mock.ExpectExec("UPDATE customers SET follow_up_count = follow_up_count \\+ 1").
		WithArgs(uint64(3), uint64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, repo.IncrementFollowUp(context.Background(), 3, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
