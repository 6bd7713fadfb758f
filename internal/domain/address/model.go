package address

import (
	"github.com/odonto/clinica/internal/platform/validation"
)

// Address maps to the enderecos table.
type Address struct {
	ID          int64   `json:"id"`
	CEP         string  `json:"cep"`
	Logradouro  string  `json:"logradouro"`
	Numero      string  `json:"numero"`
	Complemento *string `json:"complemento"`
	Bairro      string  `json:"bairro"`
	Cidade      string  `json:"cidade"`
	Estado      string  `json:"estado"`
}

// Input is the writable part of an Address as sent by the client.
type Input struct {
	CEP         validation.Field[string] `json:"cep"`
	Logradouro  validation.Field[string] `json:"logradouro"`
	Numero      validation.Field[string] `json:"numero"`
	Complemento validation.Field[string] `json:"complemento"`
	Bairro      validation.Field[string] `json:"bairro"`
	Cidade      validation.Field[string] `json:"cidade"`
	Estado      validation.Field[string] `json:"estado"`
}

// Validate checks every supplied key; with partial false the required keys
// must all be present.
func (in *Input) Validate(partial bool) validation.Errors {
	e := validation.New()
	e.Text("cep", &in.CEP, partial, validation.Rule{Required: true, Max: 8})
	e.Text("logradouro", &in.Logradouro, partial, validation.Rule{Required: true, Max: 255})
	e.Text("numero", &in.Numero, partial, validation.Rule{Required: true, Max: 20})
	e.Text("complemento", &in.Complemento, partial, validation.Rule{Nullable: true, AllowBlank: true, Max: 255})
	e.Text("bairro", &in.Bairro, partial, validation.Rule{Required: true, Max: 100})
	e.Text("cidade", &in.Cidade, partial, validation.Rule{Required: true, Max: 100})
	e.Text("estado", &in.Estado, partial, validation.Rule{Required: true, Max: 2})
	return e
}

// Apply copies the supplied keys onto a, leaving the rest untouched.
func (in *Input) Apply(a *Address) {
	if in.CEP.Set {
		a.CEP = in.CEP.Value
	}
	if in.Logradouro.Set {
		a.Logradouro = in.Logradouro.Value
	}
	if in.Numero.Set {
		a.Numero = in.Numero.Value
	}
	if in.Complemento.Set {
		a.Complemento = in.Complemento.Ptr()
	}
	if in.Bairro.Set {
		a.Bairro = in.Bairro.Value
	}
	if in.Cidade.Set {
		a.Cidade = in.Cidade.Value
	}
	if in.Estado.Set {
		a.Estado = in.Estado.Value
	}
}

// Empty reports whether the client sent no keys at all.
func (in *Input) Empty() bool {
	return !in.CEP.Set && !in.Logradouro.Set && !in.Numero.Set && !in.Complemento.Set &&
		!in.Bairro.Set && !in.Cidade.Set && !in.Estado.Set
}
