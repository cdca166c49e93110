package customer

import (
	"context"
	"strconv"
	"testing"

	"github.com/minimart-io/minimart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	customers map[string]*domain.Customer
	nextID    int
}

func newMockRepository() *mockRepository {
	return &mockRepository{customers: make(map[string]*domain.Customer)}
}

func (m *mockRepository) CreateCustomer(_ context.Context, c *domain.Customer) error {
	for _, existing := range m.customers {
		if existing.Email == c.Email {
			return ErrEmailExists
		}
	}
	m.nextID++
	c.ID = "customer-" + strconv.Itoa(m.nextID)
	m.customers[c.ID] = c
	return nil
}

func (m *mockRepository) GetCustomerByID(_ context.Context, id string) (*domain.Customer, error) {
	if c, ok := m.customers[id]; ok {
		return c, nil
	}
	return nil, ErrCustomerNotFound
}

func (m *mockRepository) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockRepository) UpdateCustomer(_ context.Context, c *domain.Customer) error {
	if _, ok := m.customers[c.ID]; !ok {
		return ErrCustomerNotFound
	}
	m.customers[c.ID] = c
	return nil
}

func (m *mockRepository) DeleteCustomer(_ context.Context, id string) error {
	if _, ok := m.customers[id]; !ok {
		return ErrCustomerNotFound
	}
	delete(m.customers, id)
	return nil
}

func TestCreateAndGetCustomer(t *testing.T) {
	service := NewService(newMockRepository())

	created, err := service.CreateCustomer(context.Background(), &domain.Customer{
		Name:  "Jane Doe",
		Email: "jane@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := service.GetCustomer(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)

	email, err := service.GetCustomerEmail(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", email)
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.CreateCustomer(context.Background(), &domain.Customer{
		Name:  "Jane Doe",
		Email: "jane@example.com",
	})
	require.NoError(t, err)

	_, err = service.CreateCustomer(context.Background(), &domain.Customer{
		Name:  "Other Jane",
		Email: "jane@example.com",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUpdateCustomer(t *testing.T) {
	service := NewService(newMockRepository())

	created, err := service.CreateCustomer(context.Background(), &domain.Customer{
		Name:  "Jane Doe",
		Email: "jane@example.com",
	})
	require.NoError(t, err)

	updated, err := service.UpdateCustomer(context.Background(), created.ID, UpdateCustomerInput{
		Name:  "Jane Smith",
		Email: "jane.smith@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", updated.Name)
	assert.Equal(t, "jane.smith@example.com", updated.Email)
}

func TestUpdateCustomer_NotFound(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.UpdateCustomer(context.Background(), "missing", UpdateCustomerInput{
		Name:  "Nobody",
		Email: "nobody@example.com",
	})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestDeleteCustomer(t *testing.T) {
	service := NewService(newMockRepository())

	created, err := service.CreateCustomer(context.Background(), &domain.Customer{
		Name:  "Jane Doe",
		Email: "jane@example.com",
	})
	require.NoError(t, err)

	require.NoError(t, service.DeleteCustomer(context.Background(), created.ID))

	_, err = service.GetCustomer(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	assert.ErrorIs(t, service.DeleteCustomer(context.Background(), created.ID), ErrCustomerNotFound)
}
