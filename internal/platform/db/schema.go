package db

import (
	"context"
	"fmt"
)

// SchemaStatements creates the clinic tables when they are missing. Every
// statement is idempotent so EnsureSchema can run on each start.
var SchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		age         TEXT NOT NULL DEFAULT '',
		phone       TEXT NOT NULL DEFAULT '',
		national_id TEXT NOT NULL DEFAULT '',
		birth_date  TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS consultations (
		id         BIGSERIAL PRIMARY KEY,
		patient_id BIGINT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
		date       TEXT NOT NULL,
		notes      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS consultations_patient_id_idx ON consultations (patient_id)`,
	`CREATE TABLE IF NOT EXISTS prescriptions (
		id           BIGSERIAL PRIMARY KEY,
		patient_id   BIGINT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
		issued_at    TEXT NOT NULL,
		items        TEXT NOT NULL,
		observations TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS prescriptions_patient_id_idx ON prescriptions (patient_id)`,
}

// EnsureSchema runs SchemaStatements in order and returns how many ran.
func EnsureSchema(ctx context.Context, q Queryable) (int, error) {
	for i, stmt := range SchemaStatements {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return i, fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return len(SchemaStatements), nil
}
