package quotations

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/internal/customers"
	"github.com/vetricrackers/vetricrackers-backend/internal/pricing"
	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	pkgerrors "github.com/vetricrackers/vetricrackers-backend/pkg/errors"
	"github.com/vetricrackers/vetricrackers-backend/pkg/logger"
	"github.com/vetricrackers/vetricrackers-backend/pkg/outbox"
	"github.com/vetricrackers/vetricrackers-backend/pkg/outbox/payloads"
	"github.com/vetricrackers/vetricrackers-backend/pkg/pagination"
)

const (
	quotationNumberPrefix = "QUO-"
	orderNumberPrefix     = "ORD-"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
}

type customerLoader interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type bookingWriter interface {
	CreateTx(tx *gorm.DB, booking *models.Booking) error
}

// QuotationRepository defines the persistence surface the service needs.
type QuotationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Quotation, error)
	CreateTx(tx *gorm.DB, quotation *models.Quotation) error
	SaveTx(tx *gorm.DB, quotation *models.Quotation) error
	ReplaceItemsTx(tx *gorm.DB, quotationID uuid.UUID, items []models.QuotationItem) error
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to enums.QuotationStatus) (int64, error)
}

// Service exposes the quotation lifecycle.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Quotation, error)
	Edit(ctx context.Context, id uuid.UUID, input EditInput) (*models.Quotation, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	ConvertToBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Quotation, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Quotation, string, error)
}

type service struct {
	repo      QuotationRepository
	tx        txRunner
	products  productLoader
	customers customerLoader
	calc      *pricing.Calculator
	events    eventEmitter
	bookings  bookingWriter
	logg      *logger.Logger
}

// ServiceParams bundles the dependencies for NewService.
type ServiceParams struct {
	Repo      QuotationRepository
	Tx        txRunner
	Products  productLoader
	Customers customerLoader
	Calc      *pricing.Calculator
	Events    eventEmitter
	Bookings  bookingWriter
	Logger    *logger.Logger
}

// NewService builds the quotation service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("quotation repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	if params.Calc == nil {
		return nil, fmt.Errorf("pricing calculator required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if params.Bookings == nil {
		return nil, fmt.Errorf("booking writer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      params.Repo,
		tx:        params.Tx,
		products:  params.Products,
		customers: params.Customers,
		calc:      params.Calc,
		events:    params.Events,
		bookings:  params.Bookings,
		logg:      params.Logger,
	}, nil
}

// LineInput is one submitted cart line.
type LineInput struct {
	ProductID       uuid.UUID
	ProductType     enums.ProductType
	Quantity        int
	DiscountPercent float64
	PriceOverride   *int
}

// SubmittedTotals carries the client's derived amounts for verification.
type SubmittedTotals struct {
	NetRate int
	YouSave int
	Total   int
}

// CreateInput captures a new quotation submission.
type CreateInput struct {
	CustomerID                uuid.UUID
	QuotationNumber           string
	Items                     []LineInput
	AdditionalDiscountPercent float64
	Submitted                 *SubmittedTotals
}

// EditInput replaces the items and discount of a pending quotation.
type EditInput struct {
	Items                     []LineInput
	AdditionalDiscountPercent float64
	Submitted                 *SubmittedTotals
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Quotation, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	customer, err := s.customers.GetCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	cart, items, err := s.buildCart(ctx, input.Items, customer.CustomerType)
	if err != nil {
		return nil, err
	}

	totals, err := s.deriveTotals(ctx, cart, customer.CustomerType, input.AdditionalDiscountPercent, input.Submitted)
	if err != nil {
		return nil, err
	}

	number, err := normalizeQuotationNumber(input.QuotationNumber)
	if err != nil {
		return nil, err
	}

	quotation := &models.Quotation{
		QuotationNumber:           number,
		CustomerID:                customer.ID,
		CustomerType:              customer.CustomerType,
		CustomerName:              customer.Name,
		Address:                   customer.Address,
		MobileNumber:              customer.MobileNumber,
		Email:                     customer.Email,
		District:                  customer.District,
		State:                     customer.State,
		NetRate:                   totals.NetRate,
		YouSave:                   totals.YouSave,
		Total:                     totals.Total,
		AdditionalDiscountPercent: clampDiscount(input.AdditionalDiscountPercent),
		Status:                    enums.QuotationStatusPending,
		Items:                     items,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, quotation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quotation")
		}
		return s.events.Emit(ctx, tx, quotationEvent(enums.OutboxEventQuotationCreated, quotation))
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithQuotationNumber(ctx, quotation.QuotationNumber)
	s.logg.Info(logCtx, "quotation created")
	return quotation, nil
}

func (s *service) Edit(ctx context.Context, id uuid.UUID, input EditInput) (*models.Quotation, error) {
	quotation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.Status != enums.QuotationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("quotation is %s and can no longer be edited", quotation.Status))
	}

	cart, items, err := s.buildCart(ctx, input.Items, quotation.CustomerType)
	if err != nil {
		return nil, err
	}

	totals, err := s.deriveTotals(ctx, cart, quotation.CustomerType, input.AdditionalDiscountPercent, input.Submitted)
	if err != nil {
		return nil, err
	}

	quotation.NetRate = totals.NetRate
	quotation.YouSave = totals.YouSave
	quotation.Total = totals.Total
	quotation.AdditionalDiscountPercent = clampDiscount(input.AdditionalDiscountPercent)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.SaveTx(tx, quotation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save quotation")
		}
		if err := s.repo.ReplaceItemsTx(tx, quotation.ID, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace quotation items")
		}
		return s.events.Emit(ctx, tx, quotationEvent(enums.OutboxEventQuotationEdited, quotation))
	})
	if err != nil {
		return nil, err
	}

	quotation.Items = items
	return quotation, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	quotation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.Status != enums.QuotationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("quotation is %s and cannot be cancelled", quotation.Status))
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		moved, err := s.repo.UpdateStatusTx(tx, quotation.ID, enums.QuotationStatusPending, enums.QuotationStatusCancelled)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel quotation")
		}
		if moved == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quotation left pending state concurrently")
		}
		quotation.Status = enums.QuotationStatusCancelled
		return s.events.Emit(ctx, tx, quotationEvent(enums.OutboxEventQuotationCancelled, quotation))
	})
	if err != nil {
		return nil, err
	}
	return quotation, nil
}

func (s *service) ConvertToBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	quotation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.Status != enums.QuotationStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("quotation is %s and cannot be booked", quotation.Status))
	}

	customer, err := s.customers.GetCustomer(ctx, quotation.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customers.DeliveryComplete(customer) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			"customer record is missing delivery details (name, address, mobile, district, state)")
	}

	booking := &models.Booking{
		OrderNumber:               mintNumber(orderNumberPrefix),
		QuotationID:               &quotation.ID,
		CustomerID:                customer.ID,
		CustomerType:              customer.CustomerType,
		CustomerName:              customer.Name,
		Address:                   customer.Address,
		MobileNumber:              customer.MobileNumber,
		Email:                     customer.Email,
		District:                  customer.District,
		State:                     customer.State,
		NetRate:                   quotation.NetRate,
		YouSave:                   quotation.YouSave,
		Total:                     quotation.Total,
		AdditionalDiscountPercent: quotation.AdditionalDiscountPercent,
		Status:                    enums.BookingStatusBooked,
		Items:                     bookingItemsFrom(quotation.Items),
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		moved, err := s.repo.UpdateStatusTx(tx, quotation.ID, enums.QuotationStatusPending, enums.QuotationStatusBooked)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark quotation booked")
		}
		if moved == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "quotation left pending state concurrently")
		}
		if err := s.bookings.CreateTx(tx, booking); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventBookingCreated,
			AggregateType: enums.OutboxAggregateBooking,
			AggregateID:   booking.ID,
			Version:       1,
			Data: payloads.BookingCreatedEvent{
				BookingID:   booking.ID,
				OrderNumber: booking.OrderNumber,
				QuotationID: booking.QuotationID,
				CustomerID:  booking.CustomerID,
				Total:       booking.Total,
				District:    booking.District,
				State:       booking.State,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithQuotationNumber(ctx, quotation.QuotationNumber)
	s.logg.Info(s.logg.WithField(logCtx, "order_number", booking.OrderNumber), "quotation converted to booking")
	return booking, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Quotation, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quotation id is required")
	}
	quotation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quotation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quotation")
	}
	return quotation, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Quotation, string, error) {
	rows, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list quotations")
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

// buildCart resolves submitted lines against the catalog and freezes them into
// quotation items. Zero and negative quantities are rejected here; the cart
// itself would floor them, but a submission is the point of no return.
func (s *service) buildCart(ctx context.Context, lines []LineInput, customerType enums.CustomerType) (*pricing.Cart, []models.QuotationItem, error) {
	if len(lines) == 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "quotation must contain at least one item")
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "item product id is required")
		}
		if !line.ProductType.IsValid() {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "item product type is invalid")
		}
		if line.Quantity <= 0 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be greater than zero")
		}
		if line.DiscountPercent < 0 || line.DiscountPercent > 100 {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "item discount must be within 0-100")
		}
		ids = append(ids, line.ProductID)
	}

	catalog, err := s.products.GetProducts(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	cart := pricing.NewCart()
	for _, line := range lines {
		product, ok := catalog[line.ProductID]
		if !ok {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("product %s not found in catalog", line.ProductID))
		}
		cart.Add(pricing.Line{
			ProductID:              product.ID,
			ProductType:            line.ProductType,
			ProductName:            product.Name,
			BasePrice:              product.BasePrice,
			DirectCustomerPrice:    product.DirectCustomerPrice,
			CatalogDiscountPercent: product.DiscountPercent,
			DiscountPercent:        line.DiscountPercent,
			Unit:                   product.Unit,
			PriceOverride:          line.PriceOverride,
		}, line.Quantity)
	}

	items := make([]models.QuotationItem, 0, cart.Len())
	for _, l := range cart.Lines() {
		items = append(items, models.QuotationItem{
			ProductID:       l.ProductID,
			ProductType:     l.ProductType,
			ProductName:     l.ProductName,
			Price:           s.calc.UnitPrice(ctx, l, customerType),
			DiscountPercent: l.DiscountPercent,
			Quantity:        l.Quantity,
			Unit:            l.Unit,
		})
	}
	return cart, items, nil
}

// deriveTotals recomputes the amounts server-side and rejects submissions that
// disagree. The console displays what the client computed, but the stored
// document always carries the server's numbers.
func (s *service) deriveTotals(ctx context.Context, cart *pricing.Cart, customerType enums.CustomerType, additionalDiscount float64, submitted *SubmittedTotals) (pricing.Totals, error) {
	if additionalDiscount < 0 || additionalDiscount > 100 {
		return pricing.Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "additional discount must be within 0-100")
	}
	totals := s.calc.ComputeTotals(ctx, cart, customerType, additionalDiscount)
	if submitted != nil {
		if submitted.NetRate != totals.NetRate || submitted.YouSave != totals.YouSave || submitted.Total != totals.Total {
			return pricing.Totals{}, pkgerrors.New(pkgerrors.CodeValidation, "submitted totals do not match computed totals").
				WithDetails(map[string]any{
					"computed":  totals,
					"submitted": *submitted,
				})
		}
	}
	return totals, nil
}

func normalizeQuotationNumber(number string) (string, error) {
	trimmed := strings.TrimSpace(number)
	if trimmed == "" {
		return mintNumber(quotationNumberPrefix), nil
	}
	if !strings.HasPrefix(trimmed, quotationNumberPrefix) || len(trimmed) <= len(quotationNumberPrefix) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "quotation number must look like QUO-<timestamp>")
	}
	return trimmed, nil
}

func mintNumber(prefix string) string {
	return prefix + strconv.FormatInt(time.Now().UnixMilli(), 10)
}

func quotationEvent(eventType enums.OutboxEventType, q *models.Quotation) outbox.DomainEvent {
	return outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.OutboxAggregateQuotation,
		AggregateID:   q.ID,
		Version:       1,
		Data: payloads.QuotationEvent{
			QuotationID:     q.ID,
			QuotationNumber: q.QuotationNumber,
			CustomerID:      q.CustomerID,
			CustomerType:    string(q.CustomerType),
			Status:          string(q.Status),
			NetRate:         q.NetRate,
			YouSave:         q.YouSave,
			Total:           q.Total,
			ItemCount:       len(q.Items),
		},
	}
}

func bookingItemsFrom(items []models.QuotationItem) []models.BookingItem {
	out := make([]models.BookingItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.BookingItem{
			ProductID:       item.ProductID,
			ProductType:     item.ProductType,
			ProductName:     item.ProductName,
			Price:           item.Price,
			DiscountPercent: item.DiscountPercent,
			Quantity:        item.Quantity,
			Unit:            item.Unit,
		})
	}
	return out
}

func clampDiscount(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
