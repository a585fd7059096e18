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
		t.Fatalf("no migration matching %q", pattern)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestVouchersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_vouchers_tables.sql")

	checks := []string{
		"CREATE TYPE voucher_type AS ENUM ('PERCENT_ORDER', 'FIXED_VALUE', 'SAME_PRICE_PRODUCT')",
		"CREATE TYPE voucher_applicability_rule AS ENUM ('ALL_REQUIRED', 'AT_LEAST_ONE_REQUIRED')",
		"CHECK (remaining_usage >= 0)",
		"FOREIGN KEY (voucher_id) REFERENCES vouchers(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS voucher_products",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOrdersMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_orders_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_items",
		"CREATE TABLE IF NOT EXISTS payments",
		"CHECK (quantity > 0)",
		"CHECK (amount >= 0)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_order_id",
		"DROP TABLE IF EXISTS payments",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCatalogMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_catalog_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS promotions",
		"CHECK (value >= 0 AND value <= 100)",
		"FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS product_variants",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
