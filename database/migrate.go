package database

import (
	"fmt"

	"cobranca-backend/models"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - Money column types (NUMERIC(12,2))
// - Partial unique indexes guaranteeing one active due-date config per scope
// - Foreign keys: titles cascade with contracts, return/remittance items
//   keep history with SET NULL title links
// - Basic CHECK constraints (due_day range, non-negative money)
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Client{},
			&models.Plan{},
			&models.Contract{},
			&models.DueDateConfig{},
			&models.Title{},
			&models.Remittance{},
			&models.RemittanceItem{},
			&models.ReturnFile{},
			&models.ReturnItem{},
			&models.PaymentPromise{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE plans            ALTER COLUMN monthly_price TYPE numeric(12,2)`,
			`ALTER TABLE titles           ALTER COLUMN amount        TYPE numeric(12,2)`,
			`ALTER TABLE titles           ALTER COLUMN paid_value    TYPE numeric(12,2)`,
			`ALTER TABLE remittances      ALTER COLUMN total_value   TYPE numeric(12,2)`,
			`ALTER TABLE remittance_items ALTER COLUMN value         TYPE numeric(12,2)`,
			`ALTER TABLE return_items     ALTER COLUMN value         TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- One active due-date config per scope, enforced by the storage
		// layer so concurrent creators can't race past the service pre-check.
		indexes := []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_due_date_configs_client_active
			 ON due_date_configs (client_id) WHERE is_active AND client_id IS NOT NULL`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_due_date_configs_plan_active
			 ON due_date_configs (plan_id) WHERE is_active AND plan_id IS NOT NULL`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_due_date_configs_global_active
			 ON due_date_configs ((1)) WHERE is_active AND client_id IS NULL AND plan_id IS NULL`,
			`CREATE INDEX IF NOT EXISTS idx_titles_contract_due_date ON titles (contract_id, due_date)`,
			`CREATE INDEX IF NOT EXISTS idx_return_items_our_number ON return_items (our_number)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Foreign keys (ownership per the data model) ---
		fks := []string{
			// titles die with their contract
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'titles'::regclass
					  AND conname  = 'fk_titles_contract'
				) THEN
					ALTER TABLE titles
					ADD CONSTRAINT fk_titles_contract
					FOREIGN KEY (contract_id)
					REFERENCES contracts(id)
					ON DELETE CASCADE;
				END IF;
			END $$;`,
			// remittance history outlives titles
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'remittance_items'::regclass
					  AND conname  = 'fk_remittance_items_title'
				) THEN
					ALTER TABLE remittance_items
					ADD CONSTRAINT fk_remittance_items_title
					FOREIGN KEY (title_id)
					REFERENCES titles(id)
					ON DELETE SET NULL;
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'return_items'::regclass
					  AND conname  = 'fk_return_items_title'
				) THEN
					ALTER TABLE return_items
					ADD CONSTRAINT fk_return_items_title
					FOREIGN KEY (title_id)
					REFERENCES titles(id)
					ON DELETE SET NULL;
				END IF;
			END $$;`,
		}
		for _, stmt := range fks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("foreign key migration failed: %w", err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'due_date_configs'::regclass
					  AND conname  = 'chk_due_date_configs_day_range'
				) THEN
					ALTER TABLE due_date_configs
					ADD CONSTRAINT chk_due_date_configs_day_range
					CHECK (due_day BETWEEN 1 AND 31);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'due_date_configs'::regclass
					  AND conname  = 'chk_due_date_configs_scope'
				) THEN
					ALTER TABLE due_date_configs
					ADD CONSTRAINT chk_due_date_configs_scope
					CHECK (client_id IS NULL OR plan_id IS NULL);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'titles'::regclass
					  AND conname  = 'chk_titles_amount_positive'
				) THEN
					ALTER TABLE titles
					ADD CONSTRAINT chk_titles_amount_positive
					CHECK (amount > 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
