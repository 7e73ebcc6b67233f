package patient

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("patient not found")
	ErrInvalid  = errors.New("invalid patient")
)

// Patient maps to the patients table. Age and birth date are kept exactly as
// entered; nothing parses them.
type Patient struct {
	ID         int64     `db:"id" json:"id"`
	Name       string    `db:"name" json:"name" form:"name"`
	Age        string    `db:"age" json:"age" form:"age"`
	Phone      string    `db:"phone" json:"phone" form:"phone"`
	NationalID string    `db:"national_id" json:"national_id" form:"national_id"`
	BirthDate  string    `db:"birth_date" json:"birth_date" form:"birth_date"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
