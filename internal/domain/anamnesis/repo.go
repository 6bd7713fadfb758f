package anamnesis

import (
	"context"

	"github.com/odonto/clinica/pkg/pagination"
)

type Filter struct {
	PatientID *int64
}

type Repository interface {
	Create(ctx context.Context, a *Anamnesis) error
	GetByID(ctx context.Context, id int64) (*Anamnesis, error)
	GetByPatient(ctx context.Context, patientID int64) (*Anamnesis, error)
	Update(ctx context.Context, a *Anamnesis) error
	Delete(ctx context.Context, id int64) error
	DeleteByPatient(ctx context.Context, patientID int64) error
	List(ctx context.Context, f Filter, p pagination.Params) ([]*Anamnesis, int, error)
}
