package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db"
	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
	"github.com/vetricrackers/vetricrackers-backend/pkg/pagination"
)

// ProductRepository defines the persistence surface the service needs.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, error)
	ListByType(ctx context.Context, productType enums.ProductType) ([]models.Product, error)
}

// Service exposes catalog operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
	ListProducts(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, string, error)
	PriceList(ctx context.Context, productType enums.ProductType) ([]PriceListEntry, error)
}

type service struct {
	repo ProductRepository
	logg *logger.Logger
}

// NewService builds a catalog service.
func NewService(repo ProductRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// CreateProductInput captures the payload for a new catalog item.
type CreateProductInput struct {
	ProductType         enums.ProductType
	Name                string
	SerialNumber        string
	BasePrice           int
	DirectCustomerPrice int
	DiscountPercent     float64
	Unit                string
	Tags                []string
	ImageURL            *string
}

// UpdateProductInput carries optional field updates.
type UpdateProductInput struct {
	Name                *string
	SerialNumber        *string
	BasePrice           *int
	DirectCustomerPrice *int
	DiscountPercent     *float64
	Unit                *string
	Tags                []string
	ImageURL            *string
	IsActive            *bool
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if !input.ProductType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product type")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(input.SerialNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "serial number is required")
	}
	if input.BasePrice < 0 || input.DirectCustomerPrice < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must be non-negative")
	}
	if input.DiscountPercent < 0 || input.DiscountPercent > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be within 0-100")
	}

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = "Box"
	}

	product := &models.Product{
		ProductType:         input.ProductType,
		Name:                strings.TrimSpace(input.Name),
		SerialNumber:        strings.TrimSpace(input.SerialNumber),
		BasePrice:           input.BasePrice,
		DirectCustomerPrice: input.DirectCustomerPrice,
		DiscountPercent:     input.DiscountPercent,
		Unit:                unit,
		Tags:                input.Tags,
		ImageURL:            input.ImageURL,
		IsActive:            true,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "ux_products_serial_type") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "serial number already exists for this product type")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.SerialNumber != nil {
		if strings.TrimSpace(*input.SerialNumber) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "serial number cannot be empty")
		}
		product.SerialNumber = strings.TrimSpace(*input.SerialNumber)
	}
	if input.BasePrice != nil {
		if *input.BasePrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price must be non-negative")
		}
		product.BasePrice = *input.BasePrice
	}
	if input.DirectCustomerPrice != nil {
		if *input.DirectCustomerPrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "direct customer price must be non-negative")
		}
		product.DirectCustomerPrice = *input.DirectCustomerPrice
	}
	if input.DiscountPercent != nil {
		if *input.DiscountPercent < 0 || *input.DiscountPercent > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percent must be within 0-100")
		}
		product.DiscountPercent = *input.DiscountPercent
	}
	if input.Unit != nil && strings.TrimSpace(*input.Unit) != "" {
		product.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err, "ux_products_serial_type") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "serial number already exists for this product type")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}
	return saved, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// GetProducts loads catalog rows keyed by id for cart line enrichment.
func (s *service) GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	products, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func (s *service) ListProducts(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, string, error) {
	rows, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
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
