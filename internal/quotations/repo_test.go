package quotations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vetricrackers/vetricrackers-backend/pkg/db/models"
	"github.com/vetricrackers/vetricrackers-backend/pkg/enums"
	"github.com/vetricrackers/vetricrackers-backend/pkg/pagination"
)

func setupQuotationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	quotations := `
CREATE TABLE IF NOT EXISTS quotations (
  id TEXT PRIMARY KEY,
  quotation_number TEXT NOT NULL UNIQUE,
  customer_id TEXT NOT NULL,
  customer_type TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  address TEXT,
  mobile_number TEXT,
  email TEXT,
  district TEXT,
  state TEXT,
  net_rate INTEGER NOT NULL,
  you_save INTEGER NOT NULL,
  total INTEGER NOT NULL,
  additional_discount NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	quotationItems := `
CREATE TABLE IF NOT EXISTS quotation_items (
  id TEXT PRIMARY KEY,
  quotation_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_type TEXT NOT NULL,
  product_name TEXT NOT NULL,
  price INTEGER NOT NULL,
  discount NUMERIC NOT NULL DEFAULT 0,
  quantity INTEGER NOT NULL,
  per TEXT NOT NULL DEFAULT 'Box'
);`
	require.NoError(t, db.Exec(quotations).Error)
	require.NoError(t, db.Exec(quotationItems).Error)
	return db
}

func createQuotation(t *testing.T, db *gorm.DB, number string, status enums.QuotationStatus, created time.Time) *models.Quotation {
	t.Helper()

	quotation := &models.Quotation{
		ID:              uuid.New(),
		QuotationNumber: number,
		CustomerID:      uuid.New(),
		CustomerType:    enums.CustomerTypeUser,
		CustomerName:    "Murugan Stores",
		District:        "Virudhunagar",
		State:           "Tamil Nadu",
		NetRate:         5000,
		YouSave:         400,
		Total:           4600,
		Status:          status,
		CreatedAt:       created,
		UpdatedAt:       created,
		Items: []models.QuotationItem{
			{
				ID:          uuid.New(),
				ProductID:   uuid.New(),
				ProductType: enums.ProductTypeStandard,
				ProductName: "Flower Pots Big",
				Price:       250,
				Quantity:    20,
				Unit:        "Box",
			},
		},
	}
	require.NoError(t, db.Create(quotation).Error)
	return quotation
}

func TestRepositoryFindByIDPreloadsItems(t *testing.T) {
	db := setupQuotationsTestDB(t)
	repo := NewRepository(db)
	created := createQuotation(t, db, "QUO-1", enums.QuotationStatusPending, time.Now().UTC())

	got, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.QuotationNumber, got.QuotationNumber)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Flower Pots Big", got.Items[0].ProductName)
}

func TestRepositoryUpdateStatusTxGuardsFromStatus(t *testing.T) {
	db := setupQuotationsTestDB(t)
	repo := NewRepository(db)
	created := createQuotation(t, db, "QUO-2", enums.QuotationStatusPending, time.Now().UTC())

	rows, err := repo.UpdateStatusTx(db, created.ID, enums.QuotationStatusBooked, enums.QuotationStatusCancelled)
	require.NoError(t, err)
	assert.Zero(t, rows, "transition from the wrong status must not apply")

	rows, err = repo.UpdateStatusTx(db, created.ID, enums.QuotationStatusPending, enums.QuotationStatusBooked)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	reloaded, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.QuotationStatusBooked, reloaded.Status)
}

func TestRepositoryReplaceItemsTxSwapsAllLines(t *testing.T) {
	db := setupQuotationsTestDB(t)
	repo := NewRepository(db)
	created := createQuotation(t, db, "QUO-3", enums.QuotationStatusPending, time.Now().UTC())

	replacement := []models.QuotationItem{
		{
			ID:          uuid.New(),
			ProductID:   uuid.New(),
			ProductType: enums.ProductTypeNetRate,
			ProductName: "Sparklers 15cm",
			Price:       120,
			Quantity:    10,
			Unit:        "Box",
		},
		{
			ID:          uuid.New(),
			ProductID:   uuid.New(),
			ProductType: enums.ProductTypeStandard,
			ProductName: "Ground Chakkar",
			Price:       90,
			Quantity:    5,
			Unit:        "Box",
		},
	}
	require.NoError(t, repo.ReplaceItemsTx(db, created.ID, replacement))

	reloaded, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 2)
	for _, item := range reloaded.Items {
		assert.Equal(t, created.ID, item.QuotationID)
		assert.NotEqual(t, "Flower Pots Big", item.ProductName)
	}
}

func TestRepositoryListFiltersByStatus(t *testing.T) {
	db := setupQuotationsTestDB(t)
	repo := NewRepository(db)
	now := time.Now().UTC()
	createQuotation(t, db, "QUO-4", enums.QuotationStatusPending, now.Add(-2*time.Hour))
	createQuotation(t, db, "QUO-5", enums.QuotationStatusCancelled, now.Add(-time.Hour))
	createQuotation(t, db, "QUO-6", enums.QuotationStatusPending, now)

	pending := enums.QuotationStatusPending
	got, err := repo.List(context.Background(), ListFilters{Status: &pending}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "QUO-6", got[0].QuotationNumber, "newest first")
	assert.Equal(t, "QUO-4", got[1].QuotationNumber)
}
