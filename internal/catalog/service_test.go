package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
	"github.com/vetricrackers/vetricrackers-backend/pkg/pagination"
)

type stubProductRepo struct {
	products map[uuid.UUID]*models.Product
	byType   []models.Product
	listed   []models.Product
	err      error
}

func (s *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubProductRepo) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if s.products == nil {
		s.products = map[uuid.UUID]*models.Product{}
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) Save(_ context.Context, product *models.Product) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubProductRepo) List(_ context.Context, _ ListFilters, _ pagination.Params) ([]models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.listed, nil
}

func (s *stubProductRepo) ListByType(_ context.Context, _ enums.ProductType) ([]models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byType, nil
}

func newTestService(t *testing.T, repo ProductRepository) Service {
	t.Helper()
	svc, err := NewService(repo, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateProductValidation(t *testing.T) {
	svc := newTestService(t, &stubProductRepo{})

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"invalid type", CreateProductInput{ProductType: "weird", Name: "a", SerialNumber: "1"}},
		{"missing name", CreateProductInput{ProductType: enums.ProductTypeStandard, SerialNumber: "1"}},
		{"missing serial", CreateProductInput{ProductType: enums.ProductTypeStandard, Name: "a"}},
		{"negative price", CreateProductInput{ProductType: enums.ProductTypeStandard, Name: "a", SerialNumber: "1", BasePrice: -10}},
		{"discount out of range", CreateProductInput{ProductType: enums.ProductTypeStandard, Name: "a", SerialNumber: "1", DiscountPercent: 120}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tc.input)
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateProductDefaultsUnit(t *testing.T) {
	repo := &stubProductRepo{}
	svc := newTestService(t, repo)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		ProductType:         enums.ProductTypeStandard,
		Name:                "Flower Pots",
		SerialNumber:        "FP-01",
		BasePrice:           120,
		DirectCustomerPrice: 100,
		DiscountPercent:     10,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if created.Unit != "Box" {
		t.Errorf("unit = %q, want Box", created.Unit)
	}
	if !created.IsActive {
		t.Error("new products should be active")
	}
}

func TestCreateProductDuplicateSerial(t *testing.T) {
	repo := &stubProductRepo{err: errors.New(`duplicate key value violates unique constraint "ux_products_serial_type"`)}
	svc := newTestService(t, repo)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		ProductType:  enums.ProductTypeStandard,
		Name:         "Flower Pots",
		SerialNumber: "FP-01",
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	svc := newTestService(t, &stubProductRepo{products: map[uuid.UUID]*models.Product{}})

	name := "renamed"
	_, err := svc.UpdateProduct(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUpdateProductAppliesFields(t *testing.T) {
	id := uuid.New()
	repo := &stubProductRepo{products: map[uuid.UUID]*models.Product{
		id: {ID: id, ProductType: enums.ProductTypeStandard, Name: "old", SerialNumber: "S-1", BasePrice: 50, Unit: "Box"},
	}}
	svc := newTestService(t, repo)

	price := 75
	inactive := false
	updated, err := svc.UpdateProduct(context.Background(), id, UpdateProductInput{
		BasePrice: &price,
		IsActive:  &inactive,
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.BasePrice != 75 {
		t.Errorf("base price = %d, want 75", updated.BasePrice)
	}
	if updated.IsActive {
		t.Error("expected product deactivated")
	}
	if updated.Name != "old" {
		t.Errorf("untouched field changed: %q", updated.Name)
	}
}

func TestListProductsPaginates(t *testing.T) {
	now := time.Now()
	var listed []models.Product
	for i := 0; i < pagination.DefaultLimit+1; i++ {
		listed = append(listed, models.Product{ID: uuid.New(), CreatedAt: now.Add(-time.Duration(i) * time.Minute)})
	}
	repo := &stubProductRepo{listed: listed}
	svc := newTestService(t, repo)

	rows, next, err := svc.ListProducts(context.Background(), ListFilters{}, pagination.Params{})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(rows) != pagination.DefaultLimit {
		t.Errorf("rows = %d, want %d", len(rows), pagination.DefaultLimit)
	}
	if next == "" {
		t.Error("expected next cursor for overflow page")
	}
}

func TestPriceListAppliesLegacyMultiplier(t *testing.T) {
	repo := &stubProductRepo{byType: []models.Product{
		{ID: uuid.New(), Name: "Ground Chakkar", BasePrice: 100, Unit: "Box"},
		{ID: uuid.New(), Name: "10*10 Fancy Shot", BasePrice: 100, Unit: "Box"},
		{ID: uuid.New(), Name: "Colour Setout Deluxe", BasePrice: 40, Unit: "Set"},
	}}
	svc := newTestService(t, repo)

	entries, err := svc.PriceList(context.Background(), enums.ProductTypeStandard)
	if err != nil {
		t.Fatalf("PriceList: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[0].Rate != 100 {
		t.Errorf("plain rate = %d, want 100", entries[0].Rate)
	}
	if entries[1].Rate != 500 {
		t.Errorf("10*10 rate = %d, want 500", entries[1].Rate)
	}
	if entries[2].Rate != 200 {
		t.Errorf("setout rate = %d, want 200", entries[2].Rate)
	}
}
