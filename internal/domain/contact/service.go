package contact

import (
	"context"

	"github.com/odonto/clinica/pkg/pagination"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, in *Input) (*Contact, error) {
	if err := in.Validate(false).Err(); err != nil {
		return nil, err
	}
	c := &Contact{}
	in.Apply(c)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateForPatient creates a contact and links it to patientID. Callers
// that need both writes to commit together run it inside a transaction.
func (s *Service) CreateForPatient(ctx context.Context, patientID int64, in *Input) (*Contact, error) {
	c, err := s.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AttachToPatient(ctx, patientID, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in *Input, partial bool) (*Contact, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(partial).Err(); err != nil {
		return nil, err
	}
	in.Apply(c)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*Contact, int, error) {
	return s.repo.List(ctx, f, p)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*Contact, error) {
	return s.repo.ListByPatient(ctx, patientID)
}
