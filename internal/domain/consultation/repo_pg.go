package consultation

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

const consultationCols = `id, patient_id, date, notes, created_at`

func scanConsultation(row pgx.Row) (*Consultation, error) {
	var c Consultation
	err := row.Scan(&c.ID, &c.PatientID, &c.Date, &c.Notes, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Consultation) error {
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO consultations (patient_id, date, notes)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		c.PatientID, c.Date, c.Notes).Scan(&c.ID, &c.CreatedAt)
	if db.IsForeignKeyViolation(err) {
		return ErrPatientNotFound
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Consultation, error) {
	return scanConsultation(r.conn(ctx).QueryRow(ctx,
		`SELECT `+consultationCols+` FROM consultations WHERE id = $1`, id))
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM consultations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Consultation, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM consultations WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count consultations: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, `SELECT `+consultationCols+` FROM consultations
		WHERE patient_id = $1 ORDER BY date DESC, id DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list consultations: %w", err)
	}
	defer rows.Close()

	var items []*Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}
