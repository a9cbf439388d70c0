package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

type fakePromoExpiryRepo struct {
	lastNow time.Time
	called  int
	err     error
}

func (f *fakePromoExpiryRepo) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	f.called++
	f.lastNow = now
	if f.err != nil {
		return 0, f.err
	}
	return 2, nil
}

func TestPromoExpiryJobSweepsAtCurrentTime(t *testing.T) {
	now := time.Date(2026, 11, 1, 6, 0, 0, 0, time.UTC)
	repo := &fakePromoExpiryRepo{}
	jobIface, err := NewPromoExpiryJob(PromoExpiryJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewPromoExpiryJob: %v", err)
	}
	job := jobIface.(*promoExpiryJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if repo.called != 1 {
		t.Fatalf("expected repo called once, got %d", repo.called)
	}
	if !repo.lastNow.Equal(now) {
		t.Fatalf("expected sweep at %s, got %s", now, repo.lastNow)
	}
}

func TestPromoExpiryJobPropagatesError(t *testing.T) {
	repo := &fakePromoExpiryRepo{err: errors.New("boom")}
	jobIface, err := NewPromoExpiryJob(PromoExpiryJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("NewPromoExpiryJob: %v", err)
	}

	if err := jobIface.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
