package locations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db"
	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

// RateRepository defines the persistence surface the service needs.
type RateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.DeliveryRate, error)
	FindByLocation(ctx context.Context, district, state string) (*models.DeliveryRate, error)
	Create(ctx context.Context, rate *models.DeliveryRate) (*models.DeliveryRate, error)
	Save(ctx context.Context, rate *models.DeliveryRate) (*models.DeliveryRate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool) ([]models.DeliveryRate, error)
}

// Service exposes delivery rate configuration.
type Service interface {
	CreateRate(ctx context.Context, input CreateRateInput) (*models.DeliveryRate, error)
	UpdateRate(ctx context.Context, id uuid.UUID, input UpdateRateInput) (*models.DeliveryRate, error)
	DeleteRate(ctx context.Context, id uuid.UUID) error
	ListRates(ctx context.Context, activeOnly bool) ([]models.DeliveryRate, error)
	RateForLocation(ctx context.Context, district, state string) (*models.DeliveryRate, error)
}

type service struct {
	repo RateRepository
	logg *logger.Logger
}

// NewService builds a delivery rate service.
func NewService(repo RateRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rate repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// CreateRateInput captures a new district rate.
type CreateRateInput struct {
	District      string
	State         string
	MinOrderValue int
	RatePerBox    int
}

// UpdateRateInput carries optional field updates.
type UpdateRateInput struct {
	MinOrderValue *int
	RatePerBox    *int
	IsActive      *bool
}

func (s *service) CreateRate(ctx context.Context, input CreateRateInput) (*models.DeliveryRate, error) {
	if strings.TrimSpace(input.District) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "district is required")
	}
	if strings.TrimSpace(input.State) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "state is required")
	}
	if input.RatePerBox < 0 || input.MinOrderValue < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate and minimum order value must be non-negative")
	}

	rate := &models.DeliveryRate{
		District:      strings.TrimSpace(input.District),
		State:         strings.TrimSpace(input.State),
		MinOrderValue: input.MinOrderValue,
		RatePerBox:    input.RatePerBox,
		IsActive:      true,
	}

	created, err := s.repo.Create(ctx, rate)
	if err != nil {
		if db.IsUniqueViolation(err, "ux_delivery_rates_location") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "delivery rate already configured for this location")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create delivery rate")
	}
	return created, nil
}

func (s *service) UpdateRate(ctx context.Context, id uuid.UUID, input UpdateRateInput) (*models.DeliveryRate, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery rate id is required")
	}
	rate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery rate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery rate")
	}

	if input.MinOrderValue != nil {
		if *input.MinOrderValue < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order value must be non-negative")
		}
		rate.MinOrderValue = *input.MinOrderValue
	}
	if input.RatePerBox != nil {
		if *input.RatePerBox < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate per box must be non-negative")
		}
		rate.RatePerBox = *input.RatePerBox
	}
	if input.IsActive != nil {
		rate.IsActive = *input.IsActive
	}

	saved, err := s.repo.Save(ctx, rate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save delivery rate")
	}
	return saved, nil
}

func (s *service) DeleteRate(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery rate id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "delivery rate not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete delivery rate")
	}
	return nil
}

func (s *service) ListRates(ctx context.Context, activeOnly bool) ([]models.DeliveryRate, error) {
	rates, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery rates")
	}
	return rates, nil
}

func (s *service) RateForLocation(ctx context.Context, district, state string) (*models.DeliveryRate, error) {
	if strings.TrimSpace(district) == "" || strings.TrimSpace(state) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "district and state are required")
	}
	rate, err := s.repo.FindByLocation(ctx, district, state)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no delivery rate for this location")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery rate")
	}
	return rate, nil
}
