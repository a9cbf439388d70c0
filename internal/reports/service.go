package reports

import (
	"context"
	"fmt"
	"time"

	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
)

const (
	// Aggregates scan booking tables without an upper bound on rows, so the
	// window is capped to keep the queries honest.
	maxReportWindow = 366 * 24 * time.Hour

	defaultTopProductLimit = 10
	maxTopProductLimit     = 100
)

type reportReader interface {
	SalesByDay(ctx context.Context, from, to time.Time) ([]SalesByDay, error)
	SalesByStatus(ctx context.Context, from, to time.Time) ([]SalesByStatus, error)
	QuotationFunnel(ctx context.Context, from, to time.Time) ([]QuotationFunnel, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error)
}

// Service exposes read-only sales reporting.
type Service interface {
	SalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error)
}

// SalesReport bundles the daily series and the status breakdowns for a window.
type SalesReport struct {
	From      time.Time         `json:"from"`
	To        time.Time         `json:"to"`
	ByDay     []SalesByDay      `json:"by_day"`
	ByStatus  []SalesByStatus   `json:"by_status"`
	Funnel    []QuotationFunnel `json:"quotation_funnel"`
	NetRate   int64             `json:"net_rate"`
	YouSave   int64             `json:"you_save"`
	Collected int64             `json:"collected"`
	Bookings  int64             `json:"bookings"`
}

type service struct {
	repo reportReader
	logg *logger.Logger
}

// NewService builds a reporting service.
func NewService(repo reportReader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("report repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) SalesReport(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	from, to, err := normalizeWindow(from, to)
	if err != nil {
		return nil, err
	}

	byDay, err := s.repo.SalesByDay(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sales by day")
	}
	byStatus, err := s.repo.SalesByStatus(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sales by status")
	}
	funnel, err := s.repo.QuotationFunnel(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "quotation funnel")
	}

	report := &SalesReport{
		From:     from,
		To:       to,
		ByDay:    byDay,
		ByStatus: byStatus,
		Funnel:   funnel,
	}
	for _, day := range byDay {
		report.Bookings += day.Bookings
		report.NetRate += day.NetRate
		report.YouSave += day.YouSave
		report.Collected += day.Collected
	}
	return report, nil
}

func (s *service) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]TopProduct, error) {
	from, to, err := normalizeWindow(from, to)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopProductLimit
	}
	if limit > maxTopProductLimit {
		limit = maxTopProductLimit
	}

	rows, err := s.repo.TopProducts(ctx, from, to, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "top products")
	}
	return rows, nil
}

func normalizeWindow(from, to time.Time) (time.Time, time.Time, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.Add(-30 * 24 * time.Hour)
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "report window start must be before its end")
	}
	if to.Sub(from) > maxReportWindow {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "report window cannot exceed one year")
	}
	return from, to, nil
}
