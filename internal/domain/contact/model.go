package contact

import (
	"github.com/odonto/clinica/internal/platform/validation"
)

// Tipos lists the accepted contact kinds in display order.
var Tipos = validation.Choices{
	{Value: "celular", Label: "Celular"},
	{Value: "residencial", Label: "Telefone Residencial"},
	{Value: "trabalho", Label: "Telefone Trabalho"},
	{Value: "outro", Label: "Outro"},
}

// Contact maps to the contatos table. TipoDisplay is derived from Tipo.
type Contact struct {
	ID          int64   `json:"id"`
	Tipo        string  `json:"tipo"`
	TipoDisplay string  `json:"tipo_display"`
	Numero      string  `json:"numero"`
	IsWhatsapp  bool    `json:"is_whatsapp"`
	Observacao  *string `json:"observacao"`
}

type Input struct {
	Tipo       validation.Field[string] `json:"tipo"`
	Numero     validation.Field[string] `json:"numero"`
	IsWhatsapp validation.Field[bool]   `json:"is_whatsapp"`
	Observacao validation.Field[string] `json:"observacao"`
}

func (in *Input) Validate(partial bool) validation.Errors {
	e := validation.New()
	if validation.Present(e, "tipo", in.Tipo, partial) {
		e.Choice("tipo", in.Tipo.Value, Tipos.Values())
	}
	e.Text("numero", &in.Numero, partial, validation.Rule{Required: true, Max: 20})
	validation.NotNull(e, "is_whatsapp", in.IsWhatsapp)
	e.Text("observacao", &in.Observacao, partial, validation.Rule{Nullable: true, AllowBlank: true, Max: 100})
	return e
}

func (in *Input) Apply(c *Contact) {
	if in.Tipo.Set {
		c.Tipo = in.Tipo.Value
	}
	if in.Numero.Set {
		c.Numero = in.Numero.Value
	}
	if in.IsWhatsapp.Set {
		c.IsWhatsapp = in.IsWhatsapp.Value
	}
	if in.Observacao.Set {
		c.Observacao = in.Observacao.Ptr()
	}
	c.TipoDisplay = Tipos.Label(c.Tipo)
}
