package settings

// Known settings keys. Anything else in the settings file is ignored.
const (
	KeyClinicHeader  = "clinic_header"
	KeyDoctorName    = "doctor_name"
	KeyDoctorLicense = "doctor_license"
	KeyAddress       = "address"
	KeyPhone         = "phone"
	KeyCity          = "city"
)

// Keys lists the known keys in display order.
var Keys = []string{
	KeyClinicHeader,
	KeyDoctorName,
	KeyDoctorLicense,
	KeyAddress,
	KeyPhone,
	KeyCity,
}

func isKnown(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// ClinicSettings is a snapshot of the clinic's display fields. A missing key
// reads as the empty string. Snapshots are never modified after creation.
type ClinicSettings struct {
	values map[string]string
}

// New builds a snapshot from values, dropping unknown keys.
func New(values map[string]string) ClinicSettings {
	m := make(map[string]string, len(Keys))
	for k, v := range values {
		if isKnown(k) {
			m[k] = v
		}
	}
	return ClinicSettings{values: m}
}

// Get returns the value for key, or "" when unset.
func (s ClinicSettings) Get(key string) string {
	return s.values[key]
}

// Map returns a copy with every known key present.
func (s ClinicSettings) Map() map[string]string {
	out := make(map[string]string, len(Keys))
	for _, k := range Keys {
		out[k] = s.values[k]
	}
	return out
}

// Merge returns a new snapshot with known keys from updates applied.
func (s ClinicSettings) Merge(updates map[string]string) ClinicSettings {
	m := s.Map()
	for k, v := range updates {
		if isKnown(k) {
			m[k] = v
		}
	}
	return New(m)
}

// Provider hands out the current settings snapshot.
type Provider interface {
	Settings() ClinicSettings
}

// Static is a Provider that always returns the same snapshot.
type Static ClinicSettings

func (s Static) Settings() ClinicSettings { return ClinicSettings(s) }
