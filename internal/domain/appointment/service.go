package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/odonto/clinica/internal/domain/patient"
	"github.com/odonto/clinica/internal/platform/validation"
	"github.com/odonto/clinica/pkg/pagination"
)

// ErrBadDate is returned by ParseDay for input it cannot read as a date.
var ErrBadDate = errors.New("invalid date")

const MsgBadDate = "Formato de data inválido. Use YYYY-MM-DD."

// Patients is the part of the patient service appointments read from.
type Patients interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id int64) (*patient.Patient, error)
}

// StatusRecorder observes status changes; *metrics.Metrics satisfies it.
type StatusRecorder interface {
	RecordStatusChange(status string)
}

type Service struct {
	repo     Repository
	patients Patients
	recorder StatusRecorder
	loc      *time.Location
	now      func() time.Time
}

// NewService builds the service. loc defines "today" for the daily totals;
// recorder may be nil.
func NewService(repo Repository, patients Patients, recorder StatusRecorder, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, patients: patients, recorder: recorder, loc: loc, now: time.Now}
}

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

func (s *Service) Create(ctx context.Context, in *Input) (*Appointment, error) {
	if err := s.validate(ctx, in, false); err != nil {
		return nil, err
	}
	a := &Appointment{Status: StatusAgendado, Duracao: DefaultDuracao}
	in.Apply(a)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, a.ID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in *Input, partial bool) (*Appointment, error) {
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
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) DeleteByPatient(ctx context.Context, patientID int64) error {
	return s.repo.DeleteByPatient(ctx, patientID)
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*Appointment, int, error) {
	return s.repo.List(ctx, f, p)
}

// UpdateStatus changes only the status. A missing or null status and a
// value outside Statuses are rejected with a detail message, leaving the
// appointment unchanged.
func (s *Service) UpdateStatus(ctx context.Context, id int64, in *StatusInput) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !in.Status.Set || in.Status.Null {
		return nil, &DetailError{Msg: MsgStatusRequired}
	}
	status, ok := in.Status.Value.(string)
	if !ok || !Statuses.Valid(status) {
		return nil, &DetailError{Msg: msgInvalidStatus()}
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	if s.recorder != nil {
		s.recorder.RecordStatusChange(status)
	}
	a.Status = status
	return a, nil
}

// Detail composes the appointment with its patient, the patient's contacts
// and the relevant part of the anamnesis, which is null when absent.
func (s *Service) Detail(ctx context.Context, id int64) (*Detail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.patients.Get(ctx, a.PatientID)
	if err != nil {
		return nil, err
	}
	return newDetail(a, p), nil
}

// DailyTotals counts the appointments on day, the pending ones among them,
// and every patient. A nil day means today in the service's location.
func (s *Service) DailyTotals(ctx context.Context, day *time.Time) (*Totals, error) {
	d := s.Today()
	if day != nil {
		d = *day
	}
	date := pgtype.Date{Time: d, Valid: true}

	total, err := s.repo.CountOnDay(ctx, date)
	if err != nil {
		return nil, err
	}
	pending, err := s.repo.CountOnDay(ctx, date, PendingStatuses...)
	if err != nil {
		return nil, err
	}
	patients, err := s.patients.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Totals{
		Data:                   d.Format(validation.DateLayout),
		TotalAgendamentosNoDia: total,
		TotalPacientes:         patients,
		TotalPendentesNoDia:    pending,
	}, nil
}

// Today returns the current calendar date in the service's location, as
// midnight UTC.
func (s *Service) Today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var dayLayouts = []string{
	validation.DateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

// ParseDay reads a YYYY-MM-DD date or an ISO 8601 datetime, keeping only
// its calendar date as written.
func ParseDay(s string) (time.Time, error) {
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, ErrBadDate
}

// DetailError is a client error rendered as {"detail": Msg} with 400.
type DetailError struct {
	Msg string
}

func (e *DetailError) Error() string { return e.Msg }
