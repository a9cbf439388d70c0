package promos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db"
	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

// PromoRepository defines the persistence surface the service needs.
type PromoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.PromoCode, error)
	FindByCode(ctx context.Context, code string) (*models.PromoCode, error)
	Create(ctx context.Context, promo *models.PromoCode) (*models.PromoCode, error)
	Save(ctx context.Context, promo *models.PromoCode) (*models.PromoCode, error)
	ListActive(ctx context.Context) ([]models.PromoCode, error)
}

// Service exposes promo code management and validation.
type Service interface {
	CreatePromo(ctx context.Context, input CreatePromoInput) (*models.PromoCode, error)
	DeactivatePromo(ctx context.Context, id uuid.UUID) (*models.PromoCode, error)
	ListActivePromos(ctx context.Context) ([]models.PromoCode, error)
	Validate(ctx context.Context, code string, orderTotal int) (*models.PromoCode, error)
}

type service struct {
	repo PromoRepository
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds a promo service.
func NewService(repo PromoRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("promo repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

// CreatePromoInput captures a new promo code.
type CreatePromoInput struct {
	Code            string
	DiscountPercent float64
	MinOrderValue   int
	ValidFrom       time.Time
	ValidTill       time.Time
}

func (s *service) CreatePromo(ctx context.Context, input CreatePromoInput) (*models.PromoCode, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if input.DiscountPercent <= 0 || input.DiscountPercent > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be within 0-100")
	}
	if input.MinOrderValue < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order value must be non-negative")
	}
	if input.ValidFrom.IsZero() || input.ValidTill.IsZero() || !input.ValidTill.After(input.ValidFrom) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validity window is invalid")
	}

	promo := &models.PromoCode{
		Code:            code,
		DiscountPercent: input.DiscountPercent,
		MinOrderValue:   input.MinOrderValue,
		ValidFrom:       input.ValidFrom,
		ValidTill:       input.ValidTill,
		IsActive:        true,
	}

	created, err := s.repo.Create(ctx, promo)
	if err != nil {
		if db.IsUniqueViolation(err, "ux_promo_codes_code") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "promo code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create promo code")
	}
	return created, nil
}

func (s *service) DeactivatePromo(ctx context.Context, id uuid.UUID) (*models.PromoCode, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo id is required")
	}
	promo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo code")
	}
	if !promo.IsActive {
		return promo, nil
	}

	now := s.now()
	promo.IsActive = false
	promo.DeactivatedAt = &now

	saved, err := s.repo.Save(ctx, promo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save promo code")
	}
	return saved, nil
}

func (s *service) ListActivePromos(ctx context.Context) ([]models.PromoCode, error) {
	promos, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list promo codes")
	}
	return promos, nil
}

// Validate checks a code against its active flag, validity window and minimum
// order value, returning the promo when it applies.
func (s *service) Validate(ctx context.Context, code string, orderTotal int) (*models.PromoCode, error) {
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is required")
	}
	if orderTotal < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be non-negative")
	}

	promo, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "promo code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load promo code")
	}

	now := s.now()
	switch {
	case !promo.IsActive:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is no longer active")
	case now.Before(promo.ValidFrom):
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code is not yet valid")
	case now.After(promo.ValidTill):
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promo code has expired")
	case orderTotal < promo.MinOrderValue:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("order total below minimum of %d", promo.MinOrderValue))
	}
	return promo, nil
}
