package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS buildings (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			address TEXT NOT NULL,
			city TEXT NOT NULL,
			bank_account_number TEXT,
			expected_monthly_payment TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS apartments (
			id TEXT PRIMARY KEY,
			building_id TEXT NOT NULL,
			number INTEGER NOT NULL,
			floor INTEGER NOT NULL,
			expected_payment TEXT,
			FOREIGN KEY (building_id) REFERENCES buildings(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_apartments_building ON apartments(building_id)`,

		`CREATE TABLE IF NOT EXISTS tenants (
			id TEXT PRIMARY KEY,
			apartment_id TEXT NOT NULL,
			building_id TEXT NOT NULL,
			name TEXT NOT NULL,
			full_name TEXT,
			phone TEXT,
			email TEXT,
			language TEXT NOT NULL DEFAULT 'he',
			ownership_type TEXT NOT NULL,
			is_committee_member INTEGER NOT NULL DEFAULT 0,
			has_standing_order INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (apartment_id) REFERENCES apartments(id),
			FOREIGN KEY (building_id) REFERENCES buildings(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tenants_building ON tenants(building_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tenants_apartment ON tenants(apartment_id)`,

		`CREATE TABLE IF NOT EXISTS bank_statements (
			id TEXT PRIMARY KEY,
			building_id TEXT NOT NULL,
			upload_date DATETIME NOT NULL,
			period_month INTEGER NOT NULL,
			period_year INTEGER NOT NULL,
			original_filename TEXT NOT NULL,
			FOREIGN KEY (building_id) REFERENCES buildings(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_statements_building ON bank_statements(building_id)`,
		`CREATE INDEX IF NOT EXISTS idx_statements_period ON bank_statements(period_year, period_month)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			statement_id TEXT NOT NULL,
			activity_date DATETIME NOT NULL,
			reference_number TEXT,
			description TEXT NOT NULL,
			credit_amount TEXT,
			debit_amount TEXT,
			balance TEXT,
			transaction_type TEXT NOT NULL,
			matched_tenant_id TEXT,
			match_confidence REAL,
			match_method TEXT,
			is_confirmed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (statement_id) REFERENCES bank_statements(id),
			FOREIGN KEY (matched_tenant_id) REFERENCES tenants(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_statement ON transactions(statement_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_tenant ON transactions(matched_tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(transaction_type)`,

		`CREATE TABLE IF NOT EXISTS name_mappings (
			id TEXT PRIMARY KEY,
			building_id TEXT NOT NULL,
			bank_name TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			created_by TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			UNIQUE (building_id, bank_name, tenant_id),
			FOREIGN KEY (building_id) REFERENCES buildings(id),
			FOREIGN KEY (tenant_id) REFERENCES tenants(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mappings_lookup ON name_mappings(building_id, bank_name)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			building_id TEXT NOT NULL,
			message_type TEXT NOT NULL,
			message_text TEXT NOT NULL,
			sent_at DATETIME,
			delivery_status TEXT NOT NULL,
			period_month INTEGER,
			period_year INTEGER,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (tenant_id) REFERENCES tenants(id),
			FOREIGN KEY (building_id) REFERENCES buildings(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_building ON messages(building_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:60], err)
		}
	}

	return nil
}

// --- shared scan/format helpers ---

// Amounts are stored as decimal strings so values round-trip exactly.

func formatDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func scanDecimal(ns sql.NullString) *decimal.Decimal {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return nil
	}
	return &d
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func scanNullableTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil
	}
	return &t
}
