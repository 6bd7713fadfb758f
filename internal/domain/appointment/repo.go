package appointment

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/odonto/clinica/pkg/pagination"
)

// Filter combines the list query parameters; zero values are ignored.
type Filter struct {
	Data   pgtype.Date
	Status string
	// Busca matches the patient name or the tipo, case-insensitively.
	Busca string
}

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	DeleteByPatient(ctx context.Context, patientID int64) error
	List(ctx context.Context, f Filter, p pagination.Params) ([]*Appointment, int, error)
	// CountOnDay counts the appointments on day, restricted to statuses
	// when any are given.
	CountOnDay(ctx context.Context, day pgtype.Date, statuses ...string) (int, error)
}
