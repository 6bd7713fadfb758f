package anamnesis

import (
	"context"

	"github.com/odonto/clinica/pkg/pagination"
)

type Service struct {
	repo     Repository
	patients PatientChecker
}

func NewService(repo Repository, patients PatientChecker) *Service {
	return &Service{repo: repo, patients: patients}
}

// validate runs the payload checks and then resolves the patient
// reference, so a dangling id is reported as a field error.
func (s *Service) validate(ctx context.Context, in *Input, partial bool) error {
	e := in.Validate(partial)
	if in.Paciente.Set && !in.Paciente.Null && len(e["paciente"]) == 0 {
		ok, err := s.patients.Exists(ctx, in.Paciente.Value)
		if err != nil {
			return err
		}
		if !ok {
			e.Add("paciente", msgNoPatient(in.Paciente.Value))
		}
	}
	return e.Err()
}

func (s *Service) Create(ctx context.Context, in *Input) (*Anamnesis, error) {
	if err := s.validate(ctx, in, false); err != nil {
		return nil, err
	}
	a := &Anamnesis{}
	in.Apply(a)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Anamnesis, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByPatient returns db.ErrNotFound when the patient has no anamnesis.
func (s *Service) GetByPatient(ctx context.Context, patientID int64) (*Anamnesis, error) {
	return s.repo.GetByPatient(ctx, patientID)
}

func (s *Service) Update(ctx context.Context, id int64, in *Input, partial bool) (*Anamnesis, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, partial); err != nil {
		return nil, err
	}
	in.Apply(a)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) DeleteByPatient(ctx context.Context, patientID int64) error {
	return s.repo.DeleteByPatient(ctx, patientID)
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*Anamnesis, int, error) {
	return s.repo.List(ctx, f, p)
}

