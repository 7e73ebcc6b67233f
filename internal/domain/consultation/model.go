package consultation

import (
	"errors"
	"time"
)

// DateLayout is how consultation dates are stored and displayed.
const DateLayout = "2006-01-02 15:04"

var (
	ErrNotFound        = errors.New("consultation not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrInvalid         = errors.New("invalid consultation")
)

// Consultation is one visit note attached to a patient.
type Consultation struct {
	ID        int64     `db:"id" json:"id"`
	PatientID int64     `db:"patient_id" json:"patient_id"`
	Date      string    `db:"date" json:"date" form:"date"`
	Notes     string    `db:"notes" json:"notes" form:"notes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
