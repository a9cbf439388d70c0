package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
	"github.com/vetricrackers/vetricrackers-backend/pkg/pagination"
)

// CustomerRepository defines the persistence surface the service needs.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	Save(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Customer, error)
}

// Service exposes customer operations.
type Service interface {
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListCustomers(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Customer, string, error)
}

type service struct {
	repo CustomerRepository
	logg *logger.Logger
}

// NewService builds a customer service.
func NewService(repo CustomerRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// CreateCustomerInput captures a new customer record.
type CreateCustomerInput struct {
	Name         string
	CustomerType enums.CustomerType
	MobileNumber string
	Email        *string
	Address      string
	District     string
	State        string
	Pincode      *string
}

// UpdateCustomerInput carries optional field updates.
type UpdateCustomerInput struct {
	Name         *string
	CustomerType *enums.CustomerType
	MobileNumber *string
	Email        *string
	Address      *string
	District     *string
	State        *string
	Pincode      *string
}

func (s *service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.MobileNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mobile number is required")
	}

	customerType := input.CustomerType
	if customerType == "" {
		customerType = enums.CustomerTypeCustomer
	}

	customer := &models.Customer{
		Name:         strings.TrimSpace(input.Name),
		CustomerType: customerType,
		MobileNumber: strings.TrimSpace(input.MobileNumber),
		Email:        input.Email,
		Address:      strings.TrimSpace(input.Address),
		District:     strings.TrimSpace(input.District),
		State:        strings.TrimSpace(input.State),
		Pincode:      input.Pincode,
	}

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return created, nil
}

func (s *service) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be empty")
		}
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.CustomerType != nil && *input.CustomerType != "" {
		customer.CustomerType = *input.CustomerType
	}
	if input.MobileNumber != nil {
		if strings.TrimSpace(*input.MobileNumber) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "mobile number cannot be empty")
		}
		customer.MobileNumber = strings.TrimSpace(*input.MobileNumber)
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Address != nil {
		customer.Address = strings.TrimSpace(*input.Address)
	}
	if input.District != nil {
		customer.District = strings.TrimSpace(*input.District)
	}
	if input.State != nil {
		customer.State = strings.TrimSpace(*input.State)
	}
	if input.Pincode != nil {
		customer.Pincode = input.Pincode
	}

	saved, err := s.repo.Save(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save customer")
	}
	return saved, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	return nil
}

func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) ListCustomers(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Customer, string, error) {
	rows, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// DeliveryComplete reports whether a customer record carries everything a
// booking needs for dispatch.
func DeliveryComplete(c *models.Customer) bool {
	if c == nil {
		return false
	}
	for _, field := range []string{c.Name, c.Address, c.MobileNumber, c.District, c.State} {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}
