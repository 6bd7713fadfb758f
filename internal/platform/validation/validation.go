// Package validation collects per-field input errors. Errors renders as the
// {"field": ["message", ...]} body returned with 400 responses.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Messages shared by every resource.
const (
	MsgRequired = "Este campo é obrigatório."
	MsgBlank    = "Este campo não pode ser em branco."
	MsgNull     = "Este campo não pode ser nulo."
	MsgEmail    = "Insira um endereço de email válido."
	MsgDate     = "Formato inválido para data. Use um dos formatos a seguir: YYYY-MM-DD."
)

type Errors map[string][]string

func New() Errors {
	return Errors{}
}

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Merge copies other's messages under prefix.field, or field when prefix is empty.
func (e Errors) Merge(prefix string, other Errors) {
	for field, msgs := range other {
		key := field
		if prefix != "" {
			key = prefix + "." + field
		}
		e[key] = append(e[key], msgs...)
	}
}

// Err returns nil when no errors were recorded.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e[f], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Required records an error when value is blank.
func (e Errors) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.Add(field, MsgBlank)
		return false
	}
	return true
}

// MaxLen records an error when value is longer than n characters.
func (e Errors) MaxLen(field, value string, n int) {
	if utf8.RuneCountInString(value) > n {
		e.Add(field, fmt.Sprintf("Certifique-se de que este campo não tenha mais de %d caracteres.", n))
	}
}

// OptionalMaxLen is MaxLen for nullable columns.
func (e Errors) OptionalMaxLen(field string, value *string, n int) {
	if value != nil {
		e.MaxLen(field, *value, n)
	}
}

// Choice records an error when value is not one of choices.
func (e Errors) Choice(field, value string, choices []string) {
	for _, c := range choices {
		if value == c {
			return
		}
	}
	e.Add(field, fmt.Sprintf("\"%s\" não é um escolha válido.", value))
}

// Match records msg when value does not match re.
func (e Errors) Match(field, value string, re *regexp.Regexp, msg string) {
	if !re.MatchString(value) {
		e.Add(field, msg)
	}
}

// Email records an error when value is not a bare address.
func (e Errors) Email(field, value string) {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value[strings.LastIndex(value, "@")+1:], ".") {
		e.Add(field, MsgEmail)
	}
}

// Choices is an ordered set of value/label pairs.
type Choices []Choice

type Choice struct {
	Value string
	Label string
}

func (c Choices) Values() []string {
	out := make([]string, len(c))
	for i, ch := range c {
		out[i] = ch.Value
	}
	return out
}

// Label returns the human-readable label for value, or value itself when unknown.
func (c Choices) Label(value string) string {
	for _, ch := range c {
		if ch.Value == value {
			return ch.Label
		}
	}
	return value
}

func (c Choices) Valid(value string) bool {
	for _, ch := range c {
		if ch.Value == value {
			return true
		}
	}
	return false
}
