package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

type promoExpiryRepo interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// PromoExpiryJobParams configure the promo sweep.
type PromoExpiryJobParams struct {
	Logger     *logger.Logger
	Repository promoExpiryRepo
}

// NewPromoExpiryJob deactivates promo codes whose validity window has passed,
// so stale codes stop validating without manual cleanup.
func NewPromoExpiryJob(params PromoExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("promo repository required")
	}
	return &promoExpiryJob{
		logg: params.Logger,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type promoExpiryJob struct {
	logg *logger.Logger
	repo promoExpiryRepo
	now  func() time.Time
}

func (j *promoExpiryJob) Name() string { return "promo-expiry" }

func (j *promoExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	deactivated, err := j.repo.DeactivateExpired(ctx, now)
	if err != nil {
		return fmt.Errorf("promo expiry: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"as_of":            now,
		"rows_deactivated": deactivated,
	})
	j.logg.Info(logCtx, "promo expiry sweep complete")
	return nil
}
