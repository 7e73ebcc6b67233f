package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func normalize(p *Patient) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.NationalID = strings.TrimSpace(p.NationalID)
	p.BirthDate = strings.TrimSpace(p.BirthDate)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	return nil
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := normalize(p); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	s.logger.Info().Int64("patient_id", p.ID).Msg("patient registered")
	return nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if err := normalize(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// DeletePatient removes the patient together with their consultations and
// prescriptions.
func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("patient_id", id).Msg("patient deleted")
	return nil
}

func (s *Service) ListPatients(ctx context.Context, name string, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, strings.TrimSpace(name), limit, offset)
}
