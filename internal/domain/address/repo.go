package address

import (
	"context"

	"github.com/odonto/clinica/pkg/pagination"
)

type Filter struct {
	// Search matches logradouro, bairro or cidade.
	Search string
}

type Repository interface {
	Create(ctx context.Context, a *Address) error
	GetByID(ctx context.Context, id int64) (*Address, error)
	Update(ctx context.Context, a *Address) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, p pagination.Params) ([]*Address, int, error)
}
