package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestShipmentsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_shipments.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS shipments",
		"tracking_number TEXT NOT NULL UNIQUE",
		"'booked', 'picked_up', 'in_transit', 'customs', 'out_for_delivery', 'delivered', 'cancelled'",
		"'none', 'received', 'sorted', 'packed', 'shipped'",
		"CHECK (final_price_pence >= 0)",
		"pickup_driver_id UUID REFERENCES drivers(id)",
		"DROP TABLE IF EXISTS shipments",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPromoMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_promo_codes.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS promo_codes",
		"CHECK (used_count <= usage_limit)",
		"idempotency_key TEXT NOT NULL UNIQUE",
		"FOREIGN KEY (promo_code_id) REFERENCES promo_codes(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS promo_codes",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPriceCatalogMigrationSeedsEveryParcelType(t *testing.T) {
	content := readMigration(t, "*_create_price_entries.sql")

	for _, parcelType := range []string{
		"small_box", "medium_box", "large_box", "tv", "drum",
		"custom_small", "custom_medium", "custom_large",
	} {
		if !strings.Contains(content, "'"+parcelType+"'") {
			t.Errorf("catalog seed missing parcel type %q", parcelType)
		}
	}
}
