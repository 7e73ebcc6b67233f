package prescription

import (
	"errors"
	"fmt"
	"time"
)

// IssuedLayout is the minute-precision format of IssuedAt.
const IssuedLayout = "2006-01-02 15:04"

var (
	ErrNotFound        = errors.New("prescription not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrInvalid         = errors.New("invalid prescription")
)

// NotFoundError is returned when no prescription has the requested id. It
// matches ErrNotFound with errors.Is.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("prescription %d not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Prescription maps to the prescriptions table. Items holds one prescribed
// item per line.
type Prescription struct {
	ID           int64     `db:"id" json:"id"`
	PatientID    int64     `db:"patient_id" json:"patient_id" form:"patient_id"`
	IssuedAt     string    `db:"issued_at" json:"issued_at" form:"issued_at"`
	Items        string    `db:"items" json:"items" form:"items"`
	Observations string    `db:"observations" json:"observations" form:"observations"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Record is a prescription joined with the patient fields the printed page
// shows.
type Record struct {
	Prescription
	PatientName       string `json:"patient_name"`
	PatientNationalID string `json:"patient_national_id"`
	PatientBirthDate  string `json:"patient_birth_date"`
}
