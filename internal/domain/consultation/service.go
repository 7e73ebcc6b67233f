package consultation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// CreateConsultation stores a note. The date defaults to the current minute.
func (s *Service) CreateConsultation(ctx context.Context, c *Consultation) error {
	if c.PatientID <= 0 {
		return fmt.Errorf("%w: patient_id is required", ErrInvalid)
	}
	c.Notes = strings.TrimSpace(c.Notes)
	if c.Notes == "" {
		return fmt.Errorf("%w: notes are required", ErrInvalid)
	}
	c.Date = strings.TrimSpace(c.Date)
	if c.Date == "" {
		c.Date = s.now().Format(DateLayout)
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return err
	}
	s.logger.Info().Int64("consultation_id", c.ID).Int64("patient_id", c.PatientID).Msg("consultation recorded")
	return nil
}

func (s *Service) GetConsultation(ctx context.Context, id int64) (*Consultation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) DeleteConsultation(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
