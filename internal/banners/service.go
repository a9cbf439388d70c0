package banners

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

// BannerRepository defines the persistence surface the service needs.
type BannerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Banner, error)
	Create(ctx context.Context, banner *models.Banner) (*models.Banner, error)
	Save(ctx context.Context, banner *models.Banner) (*models.Banner, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPosition(ctx context.Context, activeOnly bool) ([]models.Banner, error)
}

// Service exposes banner management.
type Service interface {
	CreateBanner(ctx context.Context, input CreateBannerInput) (*models.Banner, error)
	UpdateBanner(ctx context.Context, id uuid.UUID, input UpdateBannerInput) (*models.Banner, error)
	DeleteBanner(ctx context.Context, id uuid.UUID) error
	ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error)
}

type service struct {
	repo BannerRepository
	logg *logger.Logger
}

// NewService builds a banner service.
func NewService(repo BannerRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("banner repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// CreateBannerInput captures a new banner.
type CreateBannerInput struct {
	Title    string
	ImageURL string
	LinkURL  *string
	Position int
}

// UpdateBannerInput carries optional field updates.
type UpdateBannerInput struct {
	Title    *string
	ImageURL *string
	LinkURL  *string
	Position *int
	IsActive *bool
}

func (s *service) CreateBanner(ctx context.Context, input CreateBannerInput) (*models.Banner, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner title is required")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner image url is required")
	}
	if input.Position < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner position must be non-negative")
	}

	banner := &models.Banner{
		Title:    strings.TrimSpace(input.Title),
		ImageURL: strings.TrimSpace(input.ImageURL),
		LinkURL:  input.LinkURL,
		Position: input.Position,
		IsActive: true,
	}

	created, err := s.repo.Create(ctx, banner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create banner")
	}
	return created, nil
}

func (s *service) UpdateBanner(ctx context.Context, id uuid.UUID, input UpdateBannerInput) (*models.Banner, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner id is required")
	}
	banner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load banner")
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner title cannot be empty")
		}
		banner.Title = strings.TrimSpace(*input.Title)
	}
	if input.ImageURL != nil {
		if strings.TrimSpace(*input.ImageURL) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner image url cannot be empty")
		}
		banner.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.LinkURL != nil {
		banner.LinkURL = input.LinkURL
	}
	if input.Position != nil {
		if *input.Position < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner position must be non-negative")
		}
		banner.Position = *input.Position
	}
	if input.IsActive != nil {
		banner.IsActive = *input.IsActive
	}

	saved, err := s.repo.Save(ctx, banner)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save banner")
	}
	return saved, nil
}

func (s *service) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "banner id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete banner")
	}
	return nil
}

func (s *service) ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	banners, err := s.repo.ListByPosition(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	return banners, nil
}
