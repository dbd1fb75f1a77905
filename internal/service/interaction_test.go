package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superxia01/crm/intake"
	"github.com/superxia01/crm/internal/dto"
	"github.com/superxia01/crm/internal/models"
	"github.com/superxia01/crm/internal/repository"
)

type fakeInteractionStore struct {
	nextID uint64
	items  []*models.Interaction
}

func (f *fakeInteractionStore) Create(_ context.Context, it *models.Interaction) error {
	f.nextID++
	it.ID = f.nextID
	f.items = append(f.items, it)
	return nil
}

func (f *fakeInteractionStore) FindByID(_ context.Context, id, userID uint64) (*models.Interaction, error) {
	for _, it := range f.items {
		if it.ID == id && it.UserID == userID {
			return it, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeInteractionStore) List(_ context.Context, userID uint64, _ *dto.InteractionQuery) ([]*models.Interaction, int64, error) {
	var out []*models.Interaction
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeInteractionStore) Delete(_ context.Context, id, userID uint64) error {
	for i, it := range f.items {
		if it.ID == id && it.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func newInteractionFixture(t *testing.T) (*InteractionService, *fakeCustomerStore, uint64) {
	t.Helper()
	customers := newFakeCustomerStore()
	customerSvc := NewCustomerService(customers)
	id, err := customerSvc.CreateFromFields(context.Background(), 7, intake.FieldSet{
		"name": "Jane", "company": "Acme", "phone": "555",
	})
	require.NoError(t, err)
	return NewInteractionService(&fakeInteractionStore{}, customerSvc), customers, id
}

func TestCreateInteractionBumpsFollowUpCount(t *testing.T) {
	svc, customers, customerID := newInteractionFixture(t)

	it, err := svc.Create(context.Background(), 7, &dto.CreateInteractionRequest{
		CustomerID: customerID, Type: "Call", Content: "intro call",
	})
	require.NoError(t, err)
	assert.Equal(t, "call", it.Type)
	assert.Equal(t, 1, customers.customers[customerID].FollowUpCount)
}

func TestCreateInteractionRejectsUnknownType(t *testing.T) {
	svc, _, customerID := newInteractionFixture(t)

	_, err := svc.Create(context.Background(), 7, &dto.CreateInteractionRequest{
		CustomerID: customerID, Type: "telepathy",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateInteractionRequiresOwnedCustomer(t *testing.T) {
	svc, _, customerID := newInteractionFixture(t)

	_, err := svc.Create(context.Background(), 8, &dto.CreateInteractionRequest{
		CustomerID: customerID, Type: "note",
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
