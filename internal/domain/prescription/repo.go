package prescription

import "context"

type Repository interface {
	// Create returns ErrPatientNotFound when the patient does not exist.
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id int64) (*Prescription, error)
	Delete(ctx context.Context, id int64) error
	ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Prescription, int, error)
	// GetRecord loads the prescription joined with its patient. Missing text
	// columns come back as "".
	GetRecord(ctx context.Context, id int64) (*Record, error)
}
