package contact

import (
	"context"

	"github.com/odonto/clinica/pkg/pagination"
)

type Filter struct {
	// PatientID restricts the list to contacts linked to that patient.
	PatientID *int64
}

type Repository interface {
	Create(ctx context.Context, c *Contact) error
	GetByID(ctx context.Context, id int64) (*Contact, error)
	Update(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, p pagination.Params) ([]*Contact, int, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*Contact, error)
	// AttachToPatient links an existing contact; linking twice is a no-op.
	AttachToPatient(ctx context.Context, patientID, contactID int64) error
}
