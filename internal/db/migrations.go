package db

import (
	"fmt"

	"gorm.io/gorm"

	"fme-tracker/internal/config"
)

var sqliteMigrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		company_name TEXT NOT NULL UNIQUE CHECK (company_name <> ''),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS fme (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fme_name TEXT NOT NULL,
		company_id INTEGER NOT NULL REFERENCES companies(id),
		phone_number TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (fme_name, company_id)
	);`,
	`CREATE TABLE IF NOT EXISTS sites (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		t_number TEXT NOT NULL UNIQUE,
		site_name TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE TABLE IF NOT EXISTS interventions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticket_number TEXT NOT NULL UNIQUE,
		fme_id INTEGER NOT NULL REFERENCES fme(id),
		t_number TEXT NOT NULL,
		site_name TEXT NOT NULL,
		initial_state TEXT NOT NULL,
		action TEXT NOT NULL,
		arrival_time DATETIME NOT NULL,
		departure_time DATETIME,
		final_state TEXT,
		comment TEXT,
		status TEXT NOT NULL DEFAULT 'open',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (
			(status = 'open' AND departure_time IS NULL AND final_state IS NULL) OR
			(status = 'closed' AND departure_time IS NOT NULL AND final_state IS NOT NULL)
		)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_interventions_fme_id ON interventions (fme_id);`,
	`CREATE INDEX IF NOT EXISTS idx_interventions_status ON interventions (status);`,
	`CREATE INDEX IF NOT EXISTS idx_interventions_arrival_time ON interventions (arrival_time);`,
	`CREATE INDEX IF NOT EXISTS idx_interventions_created_at ON interventions (created_at);`,
}

var postgresMigrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id BIGSERIAL PRIMARY KEY,
		company_name TEXT NOT NULL UNIQUE CHECK (company_name <> ''),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS fme (
		id BIGSERIAL PRIMARY KEY,
		fme_name TEXT NOT NULL,
		company_id BIGINT NOT NULL REFERENCES companies(id) ON UPDATE RESTRICT ON DELETE RESTRICT,
		phone_number TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (fme_name, company_id)
	);`,
	`CREATE TABLE IF NOT EXISTS sites (
		id BIGSERIAL PRIMARY KEY,
		t_number TEXT NOT NULL UNIQUE,
		site_name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'intervention_status') THEN
			CREATE TYPE intervention_status AS ENUM ('open', 'closed');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS interventions (
		id BIGSERIAL PRIMARY KEY,
		ticket_number TEXT NOT NULL UNIQUE,
		fme_id BIGINT NOT NULL REFERENCES fme(id) ON UPDATE RESTRICT ON DELETE RESTRICT,
		t_number TEXT NOT NULL,
		site_name TEXT NOT NULL,
		initial_state TEXT NOT NULL,
		action TEXT NOT NULL,
		arrival_time TIMESTAMPTZ NOT NULL,
		departure_time TIMESTAMPTZ,
		final_state TEXT,
		comment TEXT,
		status intervention_status NOT NULL DEFAULT 'open',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_interventions_lifecycle CHECK (
			(status = 'open' AND departure_time IS NULL AND final_state IS NULL) OR
			(status = 'closed' AND departure_time IS NOT NULL AND final_state IS NOT NULL)
		)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_interventions_fme_id ON interventions (fme_id);`,
	`CREATE INDEX IF NOT EXISTS idx_interventions_status ON interventions (status);`,
	`CREATE INDEX IF NOT EXISTS idx_interventions_arrival_time ON interventions (arrival_time);`,
	`CREATE INDEX IF NOT EXISTS idx_interventions_created_at ON interventions (created_at);`,
}

// Migrate creates the schema if it does not exist yet. Every statement is
// idempotent so it runs on each startup.
func Migrate(database *gorm.DB) error {
	statements := sqliteMigrationStatements
	if database.Dialector.Name() == config.DriverPostgres {
		statements = postgresMigrationStatements
	}

	for i, stmt := range statements {
		if err := database.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
