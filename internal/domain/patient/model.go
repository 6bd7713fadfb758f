package patient

import (
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/odonto/clinica/internal/domain/address"
	"github.com/odonto/clinica/internal/domain/anamnesis"
	"github.com/odonto/clinica/internal/domain/contact"
	"github.com/odonto/clinica/internal/platform/validation"
)

var Sexos = validation.Choices{
	{Value: "M", Label: "Masculino"},
	{Value: "F", Label: "Feminino"},
	{Value: "O", Label: "Outro"},
}

var Statuses = validation.Choices{
	{Value: "ativo", Label: "Ativo"},
	{Value: "inativo", Label: "Inativo"},
}

const (
	StatusAtivo = "ativo"

	MsgCPF = "CPF deve conter exatamente 11 dígitos numéricos"
)

var cpfPattern = regexp.MustCompile(`^\d{11}$`)

// Patient maps to the pacientes table. Endereco, Contatos and Anamnese are
// read models filled in by the service.
type Patient struct {
	ID             int64                `json:"id"`
	Nome           string               `json:"nome"`
	CPF            string               `json:"cpf"`
	RG             *string              `json:"rg"`
	DataNascimento pgtype.Date          `json:"data_nascimento"`
	Sexo           *string              `json:"sexo"`
	Email          *string              `json:"email"`
	Contatos       []*contact.Contact   `json:"contatos"`
	Endereco       *address.Address     `json:"endereco"`
	Profissao      *string              `json:"profissao"`
	Observacoes    *string              `json:"observacoes"`
	Alergias       *string              `json:"alergias"`
	Status         string               `json:"status"`
	DataCadastro   time.Time            `json:"data_cadastro"`
	Anamnese       *anamnesis.Anamnesis `json:"anamnese"`

	AddressID *int64 `json:"-"`
}

// SexoDisplay returns the label for Sexo, or nil when it is unset.
func (p *Patient) SexoDisplay() *string {
	if p.Sexo == nil || *p.Sexo == "" {
		return nil
	}
	label := Sexos.Label(*p.Sexo)
	return &label
}

type Input struct {
	Nome           validation.Field[string]        `json:"nome"`
	CPF            validation.Field[string]        `json:"cpf"`
	RG             validation.Field[string]        `json:"rg"`
	DataNascimento validation.Field[string]        `json:"data_nascimento"`
	Sexo           validation.Field[string]        `json:"sexo"`
	Email          validation.Field[string]        `json:"email"`
	Endereco       validation.Field[address.Input] `json:"endereco"`
	Profissao      validation.Field[string]        `json:"profissao"`
	Observacoes    validation.Field[string]        `json:"observacoes"`
	Alergias       validation.Field[string]        `json:"alergias"`
	Status         validation.Field[string]        `json:"status"`
}

var freeText = validation.Rule{Nullable: true, AllowBlank: true}

// Validate checks the patient keys and the embedded address. hasAddress
// tells whether the patient already points at an address: only then can a
// partial write send a partial address, since otherwise a new row is
// created from it.
func (in *Input) Validate(partial, hasAddress bool) validation.Errors {
	e := validation.New()
	e.Text("nome", &in.Nome, partial, validation.Rule{Required: true, Max: 255})
	e.Text("cpf", &in.CPF, partial, validation.Rule{Required: true, Max: 11})
	if in.CPF.Set && !in.CPF.Null && in.CPF.Value != "" {
		e.Match("cpf", in.CPF.Value, cpfPattern, MsgCPF)
	}
	e.Text("rg", &in.RG, partial, validation.Rule{Nullable: true, AllowBlank: true, Max: 20})
	e.Date("data_nascimento", &in.DataNascimento, partial, validation.Rule{Nullable: true})
	if e.Text("sexo", &in.Sexo, partial, validation.Rule{Nullable: true, AllowBlank: true}) &&
		in.Sexo.Set && !in.Sexo.Null && in.Sexo.Value != "" {
		e.Choice("sexo", in.Sexo.Value, Sexos.Values())
	}
	if e.Text("email", &in.Email, partial, validation.Rule{Nullable: true, AllowBlank: true, Max: 254}) &&
		in.Email.Set && !in.Email.Null && in.Email.Value != "" {
		e.Email("email", in.Email.Value)
	}
	e.Text("profissao", &in.Profissao, partial, validation.Rule{Nullable: true, AllowBlank: true, Max: 100})
	e.Text("observacoes", &in.Observacoes, partial, freeText)
	e.Text("alergias", &in.Alergias, partial, freeText)
	if in.Status.Set {
		validation.NotNull(e, "status", in.Status)
		if !in.Status.Null {
			e.Choice("status", in.Status.Value, Statuses.Values())
		}
	}
	if in.Endereco.Set && !in.Endereco.Null {
		e.Merge("endereco", in.Endereco.Value.Validate(partial && hasAddress))
	}
	return e
}

// WantsAddress reports whether the payload carries address keys to write.
// A missing, null or empty endereco leaves the reference untouched.
func (in *Input) WantsAddress() bool {
	return in.Endereco.Set && !in.Endereco.Null && !in.Endereco.Value.Empty()
}

// Apply copies the supplied patient keys onto p. The embedded address is
// handled by the service.
func (in *Input) Apply(p *Patient) {
	if in.Nome.Set {
		p.Nome = in.Nome.Value
	}
	if in.CPF.Set {
		p.CPF = in.CPF.Value
	}
	setText(&p.RG, in.RG)
	if in.DataNascimento.Set {
		p.DataNascimento = validation.DateValue(in.DataNascimento)
	}
	if in.Sexo.Set {
		p.Sexo = in.Sexo.Ptr()
		if p.Sexo != nil && *p.Sexo == "" {
			p.Sexo = nil
		}
	}
	setText(&p.Email, in.Email)
	setText(&p.Profissao, in.Profissao)
	setText(&p.Observacoes, in.Observacoes)
	setText(&p.Alergias, in.Alergias)
	if in.Status.Set && !in.Status.Null {
		p.Status = in.Status.Value
	}
}

func setText(dst **string, f validation.Field[string]) {
	if f.Set {
		*dst = f.Ptr()
	}
}
