package anamnesis

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/odonto/clinica/internal/platform/validation"
)

// Anamnesis maps to the anamneses table. DataAtualizacao is set by the
// database on every write and never taken from the client.
type Anamnesis struct {
	ID                     int64       `json:"id"`
	PatientID              int64       `json:"paciente"`
	DataAtualizacao        time.Time   `json:"data_atualizacao"`
	ProblemasSaude         *string     `json:"problemas_saude"`
	Medicamentos           *string     `json:"medicamentos"`
	Alergias               *string     `json:"alergias"`
	Cirurgias              *string     `json:"cirurgias"`
	UltimaConsultaDentista pgtype.Date `json:"ultima_consulta_dentista"`
	MotivoUltimaConsulta   *string     `json:"motivo_ultima_consulta"`
	ExperienciaTratamento  *string     `json:"experiencia_tratamento"`
	Fumante                bool        `json:"fumante"`
	Alcool                 bool        `json:"alcool"`
	FrequenciaEscovacao    *string     `json:"frequencia_escovacao"`
	UsaFioDental           bool        `json:"usa_fio_dental"`
	SensibilidadeDental    bool        `json:"sensibilidade_dental"`
	SangramentoGengival    bool        `json:"sangramento_gengival"`
	RangerDentes           bool        `json:"ranger_dentes"`
	DoresArticulacao       bool        `json:"dores_articulacao"`
	Gestante               bool        `json:"gestante"`
	Diabetes               bool        `json:"diabetes"`
	Hipertensao            bool        `json:"hipertensao"`
	ProblemasCardiacos     bool        `json:"problemas_cardiacos"`
	Observacoes            *string     `json:"observacoes"`
}

type Input struct {
	Paciente               validation.Field[int64]  `json:"paciente"`
	ProblemasSaude         validation.Field[string] `json:"problemas_saude"`
	Medicamentos           validation.Field[string] `json:"medicamentos"`
	Alergias               validation.Field[string] `json:"alergias"`
	Cirurgias              validation.Field[string] `json:"cirurgias"`
	UltimaConsultaDentista validation.Field[string] `json:"ultima_consulta_dentista"`
	MotivoUltimaConsulta   validation.Field[string] `json:"motivo_ultima_consulta"`
	ExperienciaTratamento  validation.Field[string] `json:"experiencia_tratamento"`
	Fumante                validation.Field[bool]   `json:"fumante"`
	Alcool                 validation.Field[bool]   `json:"alcool"`
	FrequenciaEscovacao    validation.Field[string] `json:"frequencia_escovacao"`
	UsaFioDental           validation.Field[bool]   `json:"usa_fio_dental"`
	SensibilidadeDental    validation.Field[bool]   `json:"sensibilidade_dental"`
	SangramentoGengival    validation.Field[bool]   `json:"sangramento_gengival"`
	RangerDentes           validation.Field[bool]   `json:"ranger_dentes"`
	DoresArticulacao       validation.Field[bool]   `json:"dores_articulacao"`
	Gestante               validation.Field[bool]   `json:"gestante"`
	Diabetes               validation.Field[bool]   `json:"diabetes"`
	Hipertensao            validation.Field[bool]   `json:"hipertensao"`
	ProblemasCardiacos     validation.Field[bool]   `json:"problemas_cardiacos"`
	Observacoes            validation.Field[string] `json:"observacoes"`
}

var freeText = validation.Rule{Nullable: true, AllowBlank: true}

func (in *Input) flags() map[string]validation.Field[bool] {
	return map[string]validation.Field[bool]{
		"fumante":              in.Fumante,
		"alcool":               in.Alcool,
		"usa_fio_dental":       in.UsaFioDental,
		"sensibilidade_dental": in.SensibilidadeDental,
		"sangramento_gengival": in.SangramentoGengival,
		"ranger_dentes":        in.RangerDentes,
		"dores_articulacao":    in.DoresArticulacao,
		"gestante":             in.Gestante,
		"diabetes":             in.Diabetes,
		"hipertensao":          in.Hipertensao,
		"problemas_cardiacos":  in.ProblemasCardiacos,
	}
}

// Validate checks the payload shape. Whether the referenced patient exists
// is checked by the service.
func (in *Input) Validate(partial bool) validation.Errors {
	e := validation.New()
	validation.Present(e, "paciente", in.Paciente, partial)
	e.Text("problemas_saude", &in.ProblemasSaude, partial, freeText)
	e.Text("medicamentos", &in.Medicamentos, partial, freeText)
	e.Text("alergias", &in.Alergias, partial, freeText)
	e.Text("cirurgias", &in.Cirurgias, partial, freeText)
	e.Date("ultima_consulta_dentista", &in.UltimaConsultaDentista, partial, validation.Rule{Nullable: true})
	e.Text("motivo_ultima_consulta", &in.MotivoUltimaConsulta, partial, validation.Rule{Nullable: true, AllowBlank: true, Max: 255})
	e.Text("experiencia_tratamento", &in.ExperienciaTratamento, partial, freeText)
	e.Text("frequencia_escovacao", &in.FrequenciaEscovacao, partial, validation.Rule{Nullable: true, AllowBlank: true, Max: 50})
	e.Text("observacoes", &in.Observacoes, partial, freeText)
	for name, f := range in.flags() {
		validation.NotNull(e, name, f)
	}
	return e
}

func (in *Input) Apply(a *Anamnesis) {
	if in.Paciente.Set {
		a.PatientID = in.Paciente.Value
	}
	setText(&a.ProblemasSaude, in.ProblemasSaude)
	setText(&a.Medicamentos, in.Medicamentos)
	setText(&a.Alergias, in.Alergias)
	setText(&a.Cirurgias, in.Cirurgias)
	if in.UltimaConsultaDentista.Set {
		a.UltimaConsultaDentista = validation.DateValue(in.UltimaConsultaDentista)
	}
	setText(&a.MotivoUltimaConsulta, in.MotivoUltimaConsulta)
	setText(&a.ExperienciaTratamento, in.ExperienciaTratamento)
	setText(&a.FrequenciaEscovacao, in.FrequenciaEscovacao)
	setText(&a.Observacoes, in.Observacoes)

	setFlag(&a.Fumante, in.Fumante)
	setFlag(&a.Alcool, in.Alcool)
	setFlag(&a.UsaFioDental, in.UsaFioDental)
	setFlag(&a.SensibilidadeDental, in.SensibilidadeDental)
	setFlag(&a.SangramentoGengival, in.SangramentoGengival)
	setFlag(&a.RangerDentes, in.RangerDentes)
	setFlag(&a.DoresArticulacao, in.DoresArticulacao)
	setFlag(&a.Gestante, in.Gestante)
	setFlag(&a.Diabetes, in.Diabetes)
	setFlag(&a.Hipertensao, in.Hipertensao)
	setFlag(&a.ProblemasCardiacos, in.ProblemasCardiacos)
}

func setText(dst **string, f validation.Field[string]) {
	if f.Set {
		*dst = f.Ptr()
	}
}

func setFlag(dst *bool, f validation.Field[bool]) {
	if f.Set && !f.Null {
		*dst = f.Value
	}
}

// PatientChecker reports whether a patient exists.
type PatientChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// msgNoPatient mirrors the message for a dangling primary-key reference.
func msgNoPatient(id int64) string {
	return fmt.Sprintf("Pk inválido \"%d\" - objeto não existe.", id)
}
