package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
	"github.com/vetricrackers/vetricrackers-backend/pkg/pagination"
)

type stubCustomerRepo struct {
	customers map[uuid.UUID]*models.Customer
	err       error
}

func (s *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	c, ok := s.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *stubCustomerRepo) Create(_ context.Context, customer *models.Customer) (*models.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if s.customers == nil {
		s.customers = map[uuid.UUID]*models.Customer{}
	}
	s.customers[customer.ID] = customer
	return customer, nil
}

func (s *stubCustomerRepo) Save(_ context.Context, customer *models.Customer) (*models.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.customers[customer.ID] = customer
	return customer, nil
}

func (s *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.customers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.customers, id)
	return nil
}

func (s *stubCustomerRepo) List(_ context.Context, _ ListFilters, _ pagination.Params) ([]models.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Customer
	for _, c := range s.customers {
		out = append(out, *c)
	}
	return out, nil
}

func newTestService(t *testing.T, repo CustomerRepository) Service {
	t.Helper()
	svc, err := NewService(repo, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateCustomerDefaultsType(t *testing.T) {
	svc := newTestService(t, &stubCustomerRepo{})

	created, err := svc.CreateCustomer(context.Background(), CreateCustomerInput{
		Name:         "Muthu",
		MobileNumber: "9876543210",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if created.CustomerType != enums.CustomerTypeCustomer {
		t.Errorf("customer type = %q, want %q", created.CustomerType, enums.CustomerTypeCustomer)
	}
}

func TestCreateCustomerValidation(t *testing.T) {
	svc := newTestService(t, &stubCustomerRepo{})

	_, err := svc.CreateCustomer(context.Background(), CreateCustomerInput{MobileNumber: "9876543210"})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing name, got %v", err)
	}

	_, err = svc.CreateCustomer(context.Background(), CreateCustomerInput{Name: "Muthu"})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing mobile, got %v", err)
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	svc := newTestService(t, &stubCustomerRepo{customers: map[uuid.UUID]*models.Customer{}})

	_, err := svc.GetCustomer(context.Background(), uuid.New())
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeliveryComplete(t *testing.T) {
	full := &models.Customer{
		Name:         "Muthu",
		MobileNumber: "9876543210",
		Address:      "12 Bazaar St",
		District:     "Virudhunagar",
		State:        "Tamil Nadu",
	}
	if !DeliveryComplete(full) {
		t.Error("complete record reported incomplete")
	}

	missingDistrict := *full
	missingDistrict.District = "  "
	if DeliveryComplete(&missingDistrict) {
		t.Error("blank district reported complete")
	}

	if DeliveryComplete(nil) {
		t.Error("nil customer reported complete")
	}
}
