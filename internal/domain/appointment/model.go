package appointment

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/odonto/clinica/internal/platform/validation"
)

var Statuses = validation.Choices{
	{Value: "agendado", Label: "Agendado"},
	{Value: "confirmado", Label: "Confirmado"},
	{Value: "em_andamento", Label: "Em Andamento"},
	{Value: "concluido", Label: "Concluído"},
	{Value: "cancelado", Label: "Cancelado"},
	{Value: "remarcado", Label: "Remarcado"},
	{Value: "nao_compareceu", Label: "Não Compareceu"},
}

const (
	StatusAgendado   = "agendado"
	StatusConfirmado = "confirmado"

	DefaultDuracao = 30
)

// PendingStatuses are the statuses counted as pending in the daily totals.
var PendingStatuses = []string{StatusAgendado, StatusConfirmado}

// Appointment maps to the agendamentos table. PacienteNome is read from the
// patient row.
type Appointment struct {
	ID           int64       `json:"id"`
	PatientID    int64       `json:"paciente"`
	PacienteNome string      `json:"paciente_nome"`
	Data         pgtype.Date `json:"data"`
	Horario      string      `json:"horario"`
	Tipo         string      `json:"tipo"`
	Status       string      `json:"status"`
	Observacoes  *string     `json:"observacoes"`
	Duracao      int         `json:"duracao"`
}

type Input struct {
	Paciente    validation.Field[int64]  `json:"paciente"`
	Data        validation.Field[string] `json:"data"`
	Horario     validation.Field[string] `json:"horario"`
	Tipo        validation.Field[string] `json:"tipo"`
	Status      validation.Field[string] `json:"status"`
	Observacoes validation.Field[string] `json:"observacoes"`
	Duracao     validation.Field[int]    `json:"duracao"`
}

func (in *Input) Validate(partial bool) validation.Errors {
	e := validation.New()
	validation.Present(e, "paciente", in.Paciente, partial)
	e.Date("data", &in.Data, partial, validation.Rule{Required: true})
	e.Text("horario", &in.Horario, partial, validation.Rule{Required: true, Max: 10})
	e.Text("tipo", &in.Tipo, partial, validation.Rule{Required: true, Max: 100})
	if in.Status.Set {
		validation.NotNull(e, "status", in.Status)
		if !in.Status.Null {
			e.Choice("status", in.Status.Value, Statuses.Values())
		}
	}
	e.Text("observacoes", &in.Observacoes, partial, validation.Rule{Nullable: true, AllowBlank: true})
	if in.Duracao.Set {
		validation.NotNull(e, "duracao", in.Duracao)
		switch {
		case in.Duracao.Null:
		case in.Duracao.Value > math.MaxInt32:
			e.Add("duracao", fmt.Sprintf("Certifique-se de que este valor seja inferior ou igual a %d.", math.MaxInt32))
		case in.Duracao.Value < math.MinInt32:
			e.Add("duracao", fmt.Sprintf("Certifique-se de que este valor seja superior ou igual a %d.", math.MinInt32))
		}
	}
	return e
}

func (in *Input) Apply(a *Appointment) {
	if in.Paciente.Set {
		a.PatientID = in.Paciente.Value
	}
	if in.Data.Set {
		a.Data = validation.DateValue(in.Data)
	}
	if in.Horario.Set {
		a.Horario = in.Horario.Value
	}
	if in.Tipo.Set {
		a.Tipo = in.Tipo.Value
	}
	if in.Status.Set && !in.Status.Null {
		a.Status = in.Status.Value
	}
	if in.Observacoes.Set {
		a.Observacoes = in.Observacoes.Ptr()
	}
	if in.Duracao.Set && !in.Duracao.Null {
		a.Duracao = in.Duracao.Value
	}
}

// StatusInput is the body of the status-only update. Status is left untyped
// so that a non-string value is reported as an invalid status.
type StatusInput struct {
	Status validation.Field[interface{}] `json:"status"`
}

const MsgStatusRequired = `Campo "status" é obrigatório.`

// msgInvalidStatus lists the valid statuses sorted, formatted as a list
// literal: ['agendado', 'cancelado', ...].
func msgInvalidStatus() string {
	values := Statuses.Values()
	sort.Strings(values)
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return "Status inválido. Valores válidos: [" + strings.Join(quoted, ", ") + "]"
}

func msgNoPatient(id int64) string {
	return fmt.Sprintf("Pk inválido \"%d\" - objeto não existe.", id)
}
