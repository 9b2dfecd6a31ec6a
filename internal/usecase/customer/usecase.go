package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"loan-ledger/internal/domain/customer"
	"loan-ledger/pkg/id"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Usecase struct{ repo customer.Repository }

func NewUsecase(r customer.Repository) *Usecase { return &Usecase{repo: r} }

func toDTO(c *customer.Customer) *CustomerDTO {
	return &CustomerDTO{CustomerID: c.CustomerID, Name: c.Name, Email: c.Email, CreatedAt: c.CreatedAt}
}

func (u *Usecase) Create(ctx context.Context, in CreateCustomerInput) (*CustomerDTO, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", customer.ErrInvalidInput)
	}

	c := &customer.Customer{
		CustomerID: id.New(),
		Name:       name,
		Email:      email,
	}
	if err := u.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	zap.L().Info("customer created", zap.String("customer_id", c.CustomerID))
	return toDTO(c), nil
}

func (u *Usecase) Get(ctx context.Context, customerID string) (*CustomerDTO, error) {
	c, err := u.repo.GetByCustomerID(ctx, customerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, customer.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDTO(c), nil
}
