package consultation

import "context"

type Repository interface {
	// Create returns ErrPatientNotFound when the patient does not exist.
	Create(ctx context.Context, c *Consultation) error
	GetByID(ctx context.Context, id int64) (*Consultation, error)
	Delete(ctx context.Context, id int64) error
	ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Consultation, int, error)
}
