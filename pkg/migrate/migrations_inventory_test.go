package migrate_test

import (
	"path/filepath"
	"testing"

	"github.com/vetricrackers/vetricrackers-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestExpectedMigrationsPresent(t *testing.T) {
	expected := []string{
		"*_create_products_table.sql",
		"*_create_customers_table.sql",
		"*_create_quotations_tables.sql",
		"*_create_bookings_tables.sql",
		"*_create_marketing_tables.sql",
		"*_create_outbox_events_table.sql",
	}
	for _, pattern := range expected {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		if err != nil {
			t.Fatalf("glob %s: %v", pattern, err)
		}
		if len(matches) == 0 {
			t.Errorf("no migration matching %s", pattern)
		}
	}
}
