package patient

import (
	"context"

	"github.com/odonto/clinica/pkg/pagination"
)

type Filter struct {
	// Search matches nome, email or cpf.
	Search string
}

// Repository persists the pacientes row only. Related rows are owned by
// their own packages.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	SetAddress(ctx context.Context, id, addressID int64) error
	// Delete removes the patient's contact links and then the patient.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, p pagination.Params) ([]*Patient, int, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
}
