package promos

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

type stubPromoRepo struct {
	promos map[uuid.UUID]*models.PromoCode
	err    error
}

func (s *stubPromoRepo) FindByID(_ context.Context, id uuid.UUID) (*models.PromoCode, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.promos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubPromoRepo) FindByCode(_ context.Context, code string) (*models.PromoCode, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.promos {
		if strings.EqualFold(p.Code, strings.TrimSpace(code)) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPromoRepo) Create(_ context.Context, promo *models.PromoCode) (*models.PromoCode, error) {
	if s.err != nil {
		return nil, s.err
	}
	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}
	if s.promos == nil {
		s.promos = map[uuid.UUID]*models.PromoCode{}
	}
	s.promos[promo.ID] = promo
	return promo, nil
}

func (s *stubPromoRepo) Save(_ context.Context, promo *models.PromoCode) (*models.PromoCode, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.promos[promo.ID] = promo
	return promo, nil
}

func (s *stubPromoRepo) ListActive(_ context.Context) ([]models.PromoCode, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.PromoCode
	for _, p := range s.promos {
		if p.IsActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func newTestService(t *testing.T, repo PromoRepository) Service {
	t.Helper()
	svc, err := NewService(repo, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func seedPromo(repo *stubPromoRepo, code string, minOrder int, from, till time.Time) *models.PromoCode {
	p := &models.PromoCode{
		ID:              uuid.New(),
		Code:            code,
		DiscountPercent: 10,
		MinOrderValue:   minOrder,
		ValidFrom:       from,
		ValidTill:       till,
		IsActive:        true,
	}
	if repo.promos == nil {
		repo.promos = map[uuid.UUID]*models.PromoCode{}
	}
	repo.promos[p.ID] = p
	return p
}

func TestCreatePromoUppercasesCode(t *testing.T) {
	repo := &stubPromoRepo{}
	svc := newTestService(t, repo)

	created, err := svc.CreatePromo(context.Background(), CreatePromoInput{
		Code:            " diwali25 ",
		DiscountPercent: 15,
		ValidFrom:       time.Now(),
		ValidTill:       time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreatePromo: %v", err)
	}
	if created.Code != "DIWALI25" {
		t.Errorf("code = %q, want DIWALI25", created.Code)
	}
}

func TestCreatePromoValidation(t *testing.T) {
	svc := newTestService(t, &stubPromoRepo{})
	now := time.Now()

	cases := []struct {
		name  string
		input CreatePromoInput
	}{
		{"missing code", CreatePromoInput{DiscountPercent: 10, ValidFrom: now, ValidTill: now.Add(time.Hour)}},
		{"zero discount", CreatePromoInput{Code: "X", ValidFrom: now, ValidTill: now.Add(time.Hour)}},
		{"inverted window", CreatePromoInput{Code: "X", DiscountPercent: 10, ValidFrom: now.Add(time.Hour), ValidTill: now}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreatePromo(context.Background(), tc.input)
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestValidatePromo(t *testing.T) {
	repo := &stubPromoRepo{}
	svc := newTestService(t, repo)
	now := time.Now()

	seedPromo(repo, "DIWALI25", 1000, now.Add(-time.Hour), now.Add(time.Hour))

	promo, err := svc.Validate(context.Background(), "diwali25", 1500)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if promo.Code != "DIWALI25" {
		t.Errorf("code = %q", promo.Code)
	}

	if _, err := svc.Validate(context.Background(), "DIWALI25", 500); err == nil {
		t.Error("expected rejection below minimum order value")
	}
	if _, err := svc.Validate(context.Background(), "UNKNOWN", 1500); err == nil {
		t.Error("expected not found for unknown code")
	}
}

func TestValidatePromoWindow(t *testing.T) {
	repo := &stubPromoRepo{}
	svc := newTestService(t, repo)
	now := time.Now()

	seedPromo(repo, "EARLY", 0, now.Add(time.Hour), now.Add(2*time.Hour))
	seedPromo(repo, "LATE", 0, now.Add(-2*time.Hour), now.Add(-time.Hour))
	expired := seedPromo(repo, "OFF", 0, now.Add(-time.Hour), now.Add(time.Hour))
	expired.IsActive = false

	for _, code := range []string{"EARLY", "LATE", "OFF"} {
		_, err := svc.Validate(context.Background(), code, 100)
		coded := pkgerrors.As(err)
		if coded == nil || coded.Code() != pkgerrors.CodeValidation {
			t.Errorf("code %s: expected validation error, got %v", code, err)
		}
	}
}

func TestDeactivatePromoIdempotent(t *testing.T) {
	repo := &stubPromoRepo{}
	svc := newTestService(t, repo)
	now := time.Now()
	p := seedPromo(repo, "DIWALI25", 0, now.Add(-time.Hour), now.Add(time.Hour))

	first, err := svc.DeactivatePromo(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("DeactivatePromo: %v", err)
	}
	if first.IsActive || first.DeactivatedAt == nil {
		t.Error("promo not deactivated")
	}

	second, err := svc.DeactivatePromo(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("second DeactivatePromo: %v", err)
	}
	if second.IsActive {
		t.Error("promo re-activated")
	}
}
