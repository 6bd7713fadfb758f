package address

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

func (s *Service) Create(ctx context.Context, in *Input) (*Address, error) {
	if err := in.Validate(false).Err(); err != nil {
		return nil, err
	}
	a := &Address{}
	in.Apply(a)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Address, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies in to an existing address. With partial false every
// required key must be present.
func (s *Service) Update(ctx context.Context, id int64, in *Input, partial bool) (*Address, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(partial).Err(); err != nil {
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

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*Address, int, error) {
	return s.repo.List(ctx, f, p)
}
