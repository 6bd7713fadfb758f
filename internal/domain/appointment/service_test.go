package appointment

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/odonto/clinica/internal/domain/anamnesis"
	"github.com/odonto/clinica/internal/domain/contact"
	"github.com/odonto/clinica/internal/domain/patient"
	"github.com/odonto/clinica/internal/platform/db"
	"github.com/odonto/clinica/internal/platform/validation"
	"github.com/odonto/clinica/pkg/pagination"
)

// -- Mock Repository --

type mockRepo struct {
	items    map[int64]*Appointment
	nextID   int64
	patients *fakePatients
}

func (m *mockRepo) withName(a *Appointment) *Appointment {
	cp := *a
	if p, ok := m.patients.items[a.PatientID]; ok {
		cp.PacienteNome = p.Nome
	}
	return &cp
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	m.nextID++
	a.ID = m.nextID
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Appointment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return m.withName(a), nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.items[a.ID]; !ok {
		return db.ErrNotFound
	}
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	a, ok := m.items[id]
	if !ok {
		return db.ErrNotFound
	}
	a.Status = status
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return db.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) DeleteByPatient(_ context.Context, patientID int64) error {
	for id, a := range m.items {
		if a.PatientID == patientID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter, _ pagination.Params) ([]*Appointment, int, error) {
	out := []*Appointment{}
	busca := strings.ToLower(f.Busca)
	for _, a := range m.items {
		a = m.withName(a)
		if f.Data.Valid && !a.Data.Time.Equal(f.Data.Time) {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if busca != "" && !strings.Contains(strings.ToLower(a.PacienteNome), busca) &&
			!strings.Contains(strings.ToLower(a.Tipo), busca) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Data.Time.Equal(out[j].Data.Time) {
			return out[i].Data.Time.Before(out[j].Data.Time)
		}
		return out[i].Horario < out[j].Horario
	})
	return out, len(out), nil
}

func (m *mockRepo) CountOnDay(_ context.Context, day pgtype.Date, statuses ...string) (int, error) {
	n := 0
	for _, a := range m.items {
		if !a.Data.Time.Equal(day.Time) {
			continue
		}
		if len(statuses) > 0 {
			match := false
			for _, s := range statuses {
				if a.Status == s {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		n++
	}
	return n, nil
}

// -- patients --

type fakePatients struct {
	items map[int64]*patient.Patient
}

func (f *fakePatients) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.items[id]
	return ok, nil
}

func (f *fakePatients) Count(context.Context) (int, error) {
	return len(f.items), nil
}

func (f *fakePatients) Get(_ context.Context, id int64) (*patient.Patient, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return p, nil
}

type statusCounter map[string]int

func (s statusCounter) RecordStatusChange(status string) { s[status]++ }

func date(s string) pgtype.Date {
	t, _ := time.Parse("2006-01-02", s)
	return pgtype.Date{Time: t, Valid: true}
}

func newTestService() (*Service, *mockRepo, *fakePatients) {
	sexo := "F"
	patients := &fakePatients{items: map[int64]*patient.Patient{
		1: {ID: 1, Nome: "Maria Silva", CPF: "12345678901", Sexo: &sexo},
		2: {ID: 2, Nome: "João Souza", CPF: "10987654321"},
	}}
	repo := &mockRepo{items: map[int64]*Appointment{}, patients: patients}
	return NewService(repo, patients, nil, time.UTC), repo, patients
}

func seed(repo *mockRepo, patientID int64, day, horario, tipo, status string) *Appointment {
	a := &Appointment{PatientID: patientID, Data: date(day), Horario: horario, Tipo: tipo, Status: status, Duracao: 30}
	repo.Create(context.Background(), a)
	return a
}

func TestService_CreateDefaults(t *testing.T) {
	svc, _, _ := newTestService()
	a, err := svc.Create(context.Background(), &Input{
		Paciente: validation.Of[int64](1),
		Data:     validation.Of("2024-06-10"),
		Horario:  validation.Of("09:30"),
		Tipo:     validation.Of("Limpeza"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Status != StatusAgendado || a.Duracao != DefaultDuracao {
		t.Errorf("unexpected defaults %+v", a)
	}
	if a.PacienteNome != "Maria Silva" {
		t.Errorf("expected paciente_nome, got %q", a.PacienteNome)
	}
}

func TestService_CreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), &Input{
		Paciente: validation.Of[int64](99),
		Data:     validation.Of("10/06/2024"),
		Horario:  validation.Of("09:30:00.000"),
		Status:   validation.Of("pendente"),
	})
	var verr validation.Errors
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	for _, field := range []string{"paciente", "data", "horario", "tipo", "status"} {
		if len(verr[field]) == 0 {
			t.Errorf("expected error on %s, got %v", field, verr)
		}
	}
}

func TestService_UpdateStatusInvalidLeavesStatus(t *testing.T) {
	svc, repo, _ := newTestService()
	a := seed(repo, 1, "2024-06-10", "09:00", "Consulta", "agendado")

	_, err := svc.UpdateStatus(context.Background(), a.ID, &StatusInput{Status: validation.Of[interface{}]("xyz")})
	var de *DetailError
	if !errors.As(err, &de) {
		t.Fatalf("expected DetailError, got %v", err)
	}
	want := "Status inválido. Valores válidos: ['agendado', 'cancelado', 'concluido', 'confirmado', 'em_andamento', 'nao_compareceu', 'remarcado']"
	if de.Msg != want {
		t.Errorf("message = %q, want %q", de.Msg, want)
	}
	if repo.items[a.ID].Status != "agendado" {
		t.Errorf("status changed to %q", repo.items[a.ID].Status)
	}
}

func TestService_UpdateStatusMissingAndNonString(t *testing.T) {
	svc, repo, _ := newTestService()
	a := seed(repo, 1, "2024-06-10", "09:00", "Consulta", "agendado")
	ctx := context.Background()

	var de *DetailError
	if _, err := svc.UpdateStatus(ctx, a.ID, &StatusInput{}); !errors.As(err, &de) || de.Msg != MsgStatusRequired {
		t.Errorf("expected required message, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, a.ID, &StatusInput{Status: validation.Null[interface{}]()}); !errors.As(err, &de) || de.Msg != MsgStatusRequired {
		t.Errorf("expected required message for null, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, a.ID, &StatusInput{Status: validation.Of[interface{}](float64(3))}); !errors.As(err, &de) || !strings.HasPrefix(de.Msg, "Status inválido") {
		t.Errorf("expected invalid message for number, got %v", err)
	}
}

func TestService_UpdateStatus(t *testing.T) {
	_, repo, patients := newTestService()
	counter := statusCounter{}
	svc := NewService(repo, patients, counter, time.UTC)
	a := seed(repo, 1, "2024-06-10", "09:00", "Consulta", "agendado")

	got, err := svc.UpdateStatus(context.Background(), a.ID, &StatusInput{Status: validation.Of[interface{}]("confirmado")})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != "confirmado" || repo.items[a.ID].Status != "confirmado" {
		t.Errorf("status not updated: %+v", got)
	}
	if counter["confirmado"] != 1 {
		t.Errorf("expected status change recorded, got %v", counter)
	}
}

func TestService_UpdateStatusUnknown(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.UpdateStatus(context.Background(), 404, &StatusInput{Status: validation.Of[interface{}]("xyz")})
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected not found before validation, got %v", err)
	}
}

func TestService_DailyTotals(t *testing.T) {
	svc, repo, patients := newTestService()
	patients.items[3] = &patient.Patient{ID: 3}
	patients.items[4] = &patient.Patient{ID: 4}
	patients.items[5] = &patient.Patient{ID: 5}
	seed(repo, 1, "2024-06-10", "09:00", "Consulta", "agendado")
	seed(repo, 2, "2024-06-10", "10:00", "Consulta", "agendado")
	seed(repo, 3, "2024-06-10", "11:00", "Limpeza", "concluido")
	seed(repo, 4, "2024-06-11", "09:00", "Consulta", "confirmado")

	day, _ := ParseDay("2024-06-10")
	totals, err := svc.DailyTotals(context.Background(), &day)
	if err != nil {
		t.Fatalf("DailyTotals: %v", err)
	}
	want := Totals{Data: "2024-06-10", TotalAgendamentosNoDia: 3, TotalPacientes: 5, TotalPendentesNoDia: 2}
	if *totals != want {
		t.Errorf("got %+v, want %+v", *totals, want)
	}
}

func TestService_DailyTotalsDefaultsToToday(t *testing.T) {
	svc, repo, _ := newTestService()
	loc := time.FixedZone("BRT", -3*3600)
	svc.loc = loc
	// 01:30 UTC on the 11th is still the 10th at UTC-3.
	svc.now = func() time.Time { return time.Date(2024, 6, 11, 1, 30, 0, 0, time.UTC) }
	seed(repo, 1, "2024-06-10", "22:00", "Consulta", "confirmado")

	totals, err := svc.DailyTotals(context.Background(), nil)
	if err != nil {
		t.Fatalf("DailyTotals: %v", err)
	}
	if totals.Data != "2024-06-10" || totals.TotalAgendamentosNoDia != 1 || totals.TotalPendentesNoDia != 1 {
		t.Errorf("unexpected totals %+v", totals)
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-06-10", "2024-06-10", false},
		{"2024-06-10T23:15:00", "2024-06-10", false},
		{"2024-06-10T23:15:00-03:00", "2024-06-10", false},
		{"2024-06-10 08:00", "2024-06-10", false},
		{"10/06/2024", "", true},
		{"2024-13-01", "", true},
		{"hoje", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDay(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBadDate) {
					t.Errorf("expected ErrBadDate, got %v", err)
				}
				return
			}
			if err != nil || got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseDay(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}

func TestService_DetailWithoutAnamnesis(t *testing.T) {
	svc, repo, _ := newTestService()
	a := seed(repo, 1, "2024-06-10", "09:00", "Consulta", "em_andamento")

	d, err := svc.Detail(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if d.Anamnese != nil {
		t.Error("expected null anamnese")
	}
	if d.Agendamento.StatusDisplay != "Em Andamento" || d.Agendamento.ID != a.ID {
		t.Errorf("unexpected agendamento section %+v", d.Agendamento)
	}
	if d.Paciente.Nome != "Maria Silva" || d.Paciente.Sexo == nil || *d.Paciente.Sexo != "Feminino" {
		t.Errorf("unexpected paciente section %+v", d.Paciente)
	}
	if d.Paciente.Contatos == nil {
		t.Error("contatos must render as an array")
	}
}

func TestService_DetailWithAnamnesis(t *testing.T) {
	svc, repo, patients := newTestService()
	alergias := "dipirona"
	patients.items[2].Anamnese = &anamnesis.Anamnesis{Alergias: &alergias, Diabetes: true}
	patients.items[2].Contatos = []*contact.Contact{{ID: 1, Tipo: "celular", TipoDisplay: "Celular", Numero: "1"}}
	a := seed(repo, 2, "2024-06-10", "09:00", "Consulta", "agendado")

	d, err := svc.Detail(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if d.Anamnese == nil || !d.Anamnese.Diabetes || *d.Anamnese.Alergias != "dipirona" {
		t.Errorf("unexpected anamnese %+v", d.Anamnese)
	}
	if d.Paciente.Sexo != nil {
		t.Error("unset sexo must be null")
	}
	if len(d.Paciente.Contatos) != 1 {
		t.Errorf("expected 1 contact, got %d", len(d.Paciente.Contatos))
	}
}

func TestService_ListBusca(t *testing.T) {
	svc, repo, _ := newTestService()
	seed(repo, 1, "2024-06-10", "09:00", "Consulta", "agendado")
	seed(repo, 2, "2024-06-10", "10:00", "Avaliação Silva", "agendado")
	seed(repo, 2, "2024-06-11", "10:00", "Limpeza", "agendado")

	items, _, err := svc.List(context.Background(), Filter{Busca: "silva"}, pagination.Params{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(items))
	}
	for _, a := range items {
		if !strings.Contains(strings.ToLower(a.PacienteNome+a.Tipo), "silva") {
			t.Errorf("unexpected match %+v", a)
		}
	}
}
