package prescription

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

const prescriptionCols = `id, patient_id, issued_at, items, observations, created_at`

func scanPrescription(row pgx.Row, id int64) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.PatientID, &p.IssuedAt, &p.Items, &p.Observations, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO prescriptions (patient_id, issued_at, items, observations)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		p.PatientID, p.IssuedAt, p.Items, p.Observations).Scan(&p.ID, &p.CreatedAt)
	if db.IsForeignKeyViolation(err) {
		return ErrPatientNotFound
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Prescription, error) {
	return scanPrescription(r.conn(ctx).QueryRow(ctx,
		`SELECT `+prescriptionCols+` FROM prescriptions WHERE id = $1`, id), id)
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM prescriptions WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count prescriptions: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `SELECT `+prescriptionCols+` FROM prescriptions
		WHERE patient_id = $1 ORDER BY issued_at DESC, id DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list prescriptions: %w", err)
	}
	defer rows.Close()

	var items []*Prescription
	for rows.Next() {
		p, err := scanPrescription(rows, 0)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *repoPG) GetRecord(ctx context.Context, id int64) (*Record, error) {
	var rec Record
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT rx.id, rx.patient_id, COALESCE(rx.issued_at, ''), COALESCE(rx.items, ''),
			COALESCE(rx.observations, ''), rx.created_at,
			COALESCE(p.name, ''), COALESCE(p.national_id, ''), COALESCE(p.birth_date, '')
		FROM prescriptions rx
		JOIN patients p ON p.id = rx.patient_id
		WHERE rx.id = $1`, id).Scan(
		&rec.ID, &rec.PatientID, &rec.IssuedAt, &rec.Items,
		&rec.Observations, &rec.CreatedAt,
		&rec.PatientName, &rec.PatientNationalID, &rec.PatientBirthDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load prescription %d: %w", id, err)
	}
	return &rec, nil
}
