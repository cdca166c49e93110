// Package customer provides HTTP handlers and business logic for customers.
package customer

import (
	"context"
	"fmt"

	"github.com/minimart-io/minimart/internal/domain"
	"github.com/minimart-io/minimart/internal/pkg/ctxlog"
)

// Service implements customer business logic.
type Service struct {
	repo Repository
}

// NewService creates a new customer service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateCustomer persists a new customer.
func (s *Service) CreateCustomer(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	ctxlog.FromContext(ctx).Info("customer created", "customer_id", customer.ID)
	return customer, nil
}

// GetCustomer returns a customer by ID.
func (s *Service) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetCustomerByID(ctx, id)
}

// GetCustomerEmail returns the email address for a customer. Used by the
// order module to address notification emails.
func (s *Service) GetCustomerEmail(ctx context.Context, id string) (string, error) {
	customer, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return "", err
	}
	return customer.Email, nil
}

// ListCustomers returns all customers.
func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

// UpdateCustomerInput holds updatable customer fields.
type UpdateCustomerInput struct {
	Name  string
	Email string
}

// UpdateCustomer updates name and email of an existing customer.
func (s *Service) UpdateCustomer(ctx context.Context, id string, input UpdateCustomerInput) (*domain.Customer, error) {
	customer, err := s.repo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer.Name = input.Name
	customer.Email = input.Email

	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return customer, nil
}

// DeleteCustomer removes a customer by ID.
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Info("customer deleted", "customer_id", id)
	return nil
}
