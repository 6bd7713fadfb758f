package validation

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Field records whether a JSON key was present, and whether it was null, so
// that partial updates only touch the keys the client sent.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		var zero T
		f.Null, f.Value = true, zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(b, &f.Value)
}

// Ptr returns nil for null, otherwise a pointer to a copy of the value.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}

// Of builds a present, non-null field. Mostly useful in tests.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null builds a present field holding JSON null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Rule describes a text column.
type Rule struct {
	Required   bool
	Nullable   bool
	AllowBlank bool
	Max        int
}

// Text trims f and checks it against r. When partial is true a missing key
// is never an error. It reports whether the value may be applied.
func (e Errors) Text(field string, f *Field[string], partial bool, r Rule) bool {
	if !f.Set {
		if r.Required && !partial {
			e.Add(field, MsgRequired)
			return false
		}
		return true
	}
	if f.Null {
		if !r.Nullable {
			e.Add(field, MsgNull)
			return false
		}
		return true
	}

	f.Value = strings.TrimSpace(f.Value)
	if f.Value == "" {
		if !r.AllowBlank {
			e.Add(field, MsgBlank)
			return false
		}
		return true
	}
	if r.Max > 0 {
		before := len(e[field])
		e.MaxLen(field, f.Value, r.Max)
		return len(e[field]) == before
	}
	return true
}

// NotNull rejects an explicit null for a non-text field.
func NotNull[T any](e Errors, field string, f Field[T]) {
	if f.Set && f.Null {
		e.Add(field, MsgNull)
	}
}

// Present requires a key on full writes and rejects null.
func Present[T any](e Errors, field string, f Field[T], partial bool) bool {
	if !f.Set {
		if !partial {
			e.Add(field, MsgRequired)
		}
		return false
	}
	if f.Null {
		e.Add(field, MsgNull)
		return false
	}
	return true
}

// DateLayout is the only date format accepted on input.
const DateLayout = "2006-01-02"

// Date checks a YYYY-MM-DD field. On nullable fields a blank string is
// stored as null.
func (e Errors) Date(field string, f *Field[string], partial bool, r Rule) bool {
	if !f.Set {
		if r.Required && !partial {
			e.Add(field, MsgRequired)
			return false
		}
		return true
	}
	f.Value = strings.TrimSpace(f.Value)
	if f.Null && !r.Nullable {
		e.Add(field, MsgNull)
		return false
	}
	if f.Null || (f.Value == "" && r.Nullable) {
		f.Null, f.Value = true, ""
		return true
	}
	if _, err := time.Parse(DateLayout, f.Value); err != nil {
		e.Add(field, MsgDate)
		return false
	}
	return true
}

// DateValue converts a field already checked by Date. Null becomes an
// invalid (SQL NULL) date.
func DateValue(f Field[string]) pgtype.Date {
	if f.Null {
		return pgtype.Date{}
	}
	t, err := time.Parse(DateLayout, f.Value)
	if err != nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}
