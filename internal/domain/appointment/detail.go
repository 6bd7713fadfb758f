package appointment

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/odonto/clinica/internal/domain/anamnesis"
	"github.com/odonto/clinica/internal/domain/contact"
	"github.com/odonto/clinica/internal/domain/patient"
)

// Detail is the composite read served by /agendamentos/:id/detalhes/.
type Detail struct {
	Agendamento DetailAppointment `json:"agendamento"`
	Paciente    DetailPatient     `json:"paciente"`
	Anamnese    *DetailAnamnesis  `json:"anamnese"`
}

type DetailAppointment struct {
	ID            int64       `json:"id"`
	Data          pgtype.Date `json:"data"`
	Horario       string      `json:"horario"`
	Tipo          string      `json:"tipo"`
	Status        string      `json:"status"`
	StatusDisplay string      `json:"status_display"`
	Duracao       int         `json:"duracao"`
	Observacoes   *string     `json:"observacoes"`
}

type DetailPatient struct {
	ID             int64              `json:"id"`
	Nome           string             `json:"nome"`
	CPF            string             `json:"cpf"`
	DataNascimento pgtype.Date        `json:"data_nascimento"`
	Sexo           *string            `json:"sexo"`
	Email          *string            `json:"email"`
	Contatos       []*contact.Contact `json:"contatos"`
}

// DetailAnamnesis carries the clinically relevant subset of the anamnesis.
type DetailAnamnesis struct {
	Alergias           *string `json:"alergias"`
	Medicamentos       *string `json:"medicamentos"`
	ProblemasSaude     *string `json:"problemas_saude"`
	Diabetes           bool    `json:"diabetes"`
	Hipertensao        bool    `json:"hipertensao"`
	ProblemasCardiacos bool    `json:"problemas_cardiacos"`
	Gestante           bool    `json:"gestante"`
}

func newDetail(a *Appointment, p *patient.Patient) *Detail {
	d := &Detail{
		Agendamento: DetailAppointment{
			ID:            a.ID,
			Data:          a.Data,
			Horario:       a.Horario,
			Tipo:          a.Tipo,
			Status:        a.Status,
			StatusDisplay: Statuses.Label(a.Status),
			Duracao:       a.Duracao,
			Observacoes:   a.Observacoes,
		},
		Paciente: DetailPatient{
			ID:             p.ID,
			Nome:           p.Nome,
			CPF:            p.CPF,
			DataNascimento: p.DataNascimento,
			Sexo:           p.SexoDisplay(),
			Email:          p.Email,
			Contatos:       p.Contatos,
		},
	}
	if d.Paciente.Contatos == nil {
		d.Paciente.Contatos = []*contact.Contact{}
	}
	if p.Anamnese != nil {
		d.Anamnese = summarize(p.Anamnese)
	}
	return d
}

func summarize(an *anamnesis.Anamnesis) *DetailAnamnesis {
	return &DetailAnamnesis{
		Alergias:           an.Alergias,
		Medicamentos:       an.Medicamentos,
		ProblemasSaude:     an.ProblemasSaude,
		Diabetes:           an.Diabetes,
		Hipertensao:        an.Hipertensao,
		ProblemasCardiacos: an.ProblemasCardiacos,
		Gestante:           an.Gestante,
	}
}

// Totals is the body of /agendamentos/totais-diarios/.
type Totals struct {
	Data                   string `json:"data"`
	TotalAgendamentosNoDia int    `json:"total_agendamentos_no_dia"`
	TotalPacientes         int    `json:"total_pacientes"`
	TotalPendentesNoDia    int    `json:"total_pendentes_no_dia"`
}
