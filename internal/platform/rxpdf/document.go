package rxpdf

import "strings"

// Clinic holds the display fields printed in the page header.
type Clinic struct {
	Header  string
	Doctor  string
	License string
	Address string
	Phone   string
	City    string
}

// Document is everything one prescription page shows. It is built once per
// request and only read afterwards.
type Document struct {
	PrescriptionID int64
	PatientName    string
	NationalID     string
	BirthDate      string
	IssuedAt       string
	Items          string
	Observations   string
	Clinic         Clinic
}

// ItemLines returns one entry per non-blank line of Items.
func (d Document) ItemLines() []string { return splitLines(d.Items) }

// ObservationLines returns the non-blank lines of Observations.
func (d Document) ObservationLines() []string { return splitLines(d.Observations) }

func splitLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

func phoneCity(phone, city string) string {
	var parts []string
	for _, p := range []string{phone, city} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " \u2014 ")
}
