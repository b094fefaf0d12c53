package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/baharkarakas/kuota-backend/internal/models"
	repo "github.com/baharkarakas/kuota-backend/internal/repository"
)

type CustomerService struct {
	r     repo.Customers
	audit *Auditor
	log   *slog.Logger
}

func NewCustomerService(r repo.Customers, audit *Auditor, log *slog.Logger) *CustomerService {
	return &CustomerService{r: r, audit: audit, log: log}
}

type CreateCustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Balance int64
}

// CustomerPatch holds the fields an admin edit may change. Nil means keep.
type CustomerPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Balance *int64
}

func (s *CustomerService) Create(ctx context.Context, in CreateCustomerInput, actor string) (models.Customer, error) {
	c := models.Customer{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
		Balance: in.Balance,
	}
	if err := c.Validate(); err != nil {
		return models.Customer{}, validationErr(err)
	}
	created, err := s.r.Create(ctx, c)
	if err != nil {
		return models.Customer{}, fmt.Errorf("create customer: %w", err)
	}
	s.audit.Record("customer", created.ID.String(), models.AuditCustomerCreated, map[string]any{
		"actor":   actor,
		"balance": created.Balance,
	})
	return created, nil
}

func (s *CustomerService) Get(ctx context.Context, id models.CustomerID) (models.Customer, error) {
	c, err := s.r.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return models.Customer{}, ErrCustomerNotFound
	}
	return c, err
}

func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	return s.r.List(ctx)
}

// Update merges patch into the stored customer. A balance in the patch is the
// administrative override: it is written as an absolute value, outside the
// purchase path, and audited with the previous value.
func (s *CustomerService) Update(ctx context.Context, id models.CustomerID, patch CustomerPatch, actor string) (models.Customer, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return models.Customer{}, err
	}

	next := cur
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.Email != nil {
		next.Email = *patch.Email
	}
	if patch.Phone != nil {
		next.Phone = *patch.Phone
	}
	if patch.Address != nil {
		next.Address = *patch.Address
	}
	if patch.Balance != nil {
		next.Balance = *patch.Balance
	}
	if err := next.Validate(); err != nil {
		return models.Customer{}, validationErr(err)
	}

	out, err := s.r.UpdateProfile(ctx, next)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Customer{}, ErrCustomerNotFound
		}
		return models.Customer{}, fmt.Errorf("update customer: %w", err)
	}

	if patch.Balance != nil && *patch.Balance != out.Balance {
		prev := out.Balance
		if out, err = s.r.SetBalance(ctx, id, *patch.Balance); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return models.Customer{}, ErrCustomerNotFound
			}
			return models.Customer{}, fmt.Errorf("override balance: %w", err)
		}
		s.log.Warn("balance override", "customer_id", id, "from", prev, "to", out.Balance, "actor", actor)
		s.audit.Record("customer", id.String(), models.AuditBalanceOverride, map[string]any{
			"actor": actor,
			"from":  prev,
			"to":    out.Balance,
		})
	}
	return out, nil
}

func (s *CustomerService) Delete(ctx context.Context, id models.CustomerID, actor string) error {
	if err := s.r.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	s.audit.Record("customer", id.String(), models.AuditCustomerDeleted, map[string]any{"actor": actor})
	return nil
}
