package prescription

import (
	"github.com/clinic/clinic/internal/domain/settings"
	"github.com/clinic/clinic/internal/platform/rxpdf"
)

// ClinicFromSettings copies the header fields out of a settings snapshot.
func ClinicFromSettings(s settings.ClinicSettings) rxpdf.Clinic {
	return rxpdf.Clinic{
		Header:  s.Get(settings.KeyClinicHeader),
		Doctor:  s.Get(settings.KeyDoctorName),
		License: s.Get(settings.KeyDoctorLicense),
		Address: s.Get(settings.KeyAddress),
		Phone:   s.Get(settings.KeyPhone),
		City:    s.Get(settings.KeyCity),
	}
}

// NewDocument assembles the page model for one record.
func NewDocument(rec *Record, s settings.ClinicSettings) rxpdf.Document {
	return rxpdf.Document{
		PrescriptionID: rec.ID,
		PatientName:    rec.PatientName,
		NationalID:     rec.PatientNationalID,
		BirthDate:      rec.PatientBirthDate,
		IssuedAt:       rec.IssuedAt,
		Items:          rec.Items,
		Observations:   rec.Observations,
		Clinic:         ClinicFromSettings(s),
	}
}
