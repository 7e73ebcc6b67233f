package prescription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/clinic/clinic/internal/domain/settings"
	"github.com/clinic/clinic/internal/platform/assets"
	"github.com/clinic/clinic/internal/platform/rxpdf"
)

var ErrRendererUnavailable = errors.New("renderer not configured")

// RenderObserver is told about every render attempt.
type RenderObserver interface {
	ObserveRender(contentType string, d time.Duration, err error)
}

// RenderConfig wires the collaborators used to print a prescription.
type RenderConfig struct {
	Settings       settings.Provider
	Assets         assets.Store
	SignatureAsset string
	PDF            rxpdf.Renderer
	Preview        rxpdf.Renderer
	Observer       RenderObserver
}

type Service struct {
	repo   Repository
	render RenderConfig
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, render RenderConfig, logger zerolog.Logger) *Service {
	return &Service{repo: repo, render: render, logger: logger, now: time.Now}
}

// CreatePrescription validates and stores a prescription. IssuedAt defaults
// to the current minute.
func (s *Service) CreatePrescription(ctx context.Context, p *Prescription) error {
	if p.PatientID <= 0 {
		return fmt.Errorf("%w: patient_id is required", ErrInvalid)
	}
	if strings.TrimSpace(p.Items) == "" {
		return fmt.Errorf("%w: items are required", ErrInvalid)
	}
	p.Items = strings.TrimRight(p.Items, " \t\r\n")
	p.Observations = strings.TrimSpace(p.Observations)
	p.IssuedAt = strings.TrimSpace(p.IssuedAt)
	if p.IssuedAt == "" {
		p.IssuedAt = s.now().Format(IssuedLayout)
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.logger.Info().Int64("prescription_id", p.ID).Int64("patient_id", p.PatientID).Msg("prescription issued")
	return nil
}

func (s *Service) GetPrescription(ctx context.Context, id int64) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) DeletePrescription(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

// Document loads the record and the current clinic settings. It returns a
// *NotFoundError when id does not exist.
func (s *Service) Document(ctx context.Context, id int64) (rxpdf.Document, error) {
	rec, err := s.repo.GetRecord(ctx, id)
	if err != nil {
		return rxpdf.Document{}, err
	}
	var cs settings.ClinicSettings
	if s.render.Settings != nil {
		cs = s.render.Settings.Settings()
	}
	return NewDocument(rec, cs), nil
}

// RenderPDF returns the printable prescription.
func (s *Service) RenderPDF(ctx context.Context, id int64) ([]byte, error) {
	return s.renderWith(ctx, id, s.render.PDF)
}

// RenderPreview returns a PNG of the same page.
func (s *Service) RenderPreview(ctx context.Context, id int64) ([]byte, error) {
	return s.renderWith(ctx, id, s.render.Preview)
}

func (s *Service) renderWith(ctx context.Context, id int64, r rxpdf.Renderer) ([]byte, error) {
	if r == nil {
		return nil, ErrRendererUnavailable
	}
	doc, err := s.Document(ctx, id)
	if err != nil {
		return nil, err
	}
	sig, ok := rxpdf.LoadSignature(ctx, s.render.Assets, s.render.SignatureAsset, s.logger)

	start := time.Now()
	out, err := rxpdf.RenderBytes(r, rxpdf.Layout(doc, sig, ok))
	if s.render.Observer != nil {
		s.render.Observer.ObserveRender(r.ContentType(), time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("render prescription %d: %w", id, err)
	}
	s.logger.Debug().
		Int64("prescription_id", id).
		Str("content_type", r.ContentType()).
		Bool("signature", ok).
		Int("bytes", len(out)).
		Dur("duration", time.Since(start)).
		Msg("prescription rendered")
	return out, nil
}
