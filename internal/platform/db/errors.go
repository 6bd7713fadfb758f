package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrReferenced is returned by repositories when a delete is blocked by rows
// that still point at the target.
var ErrReferenced = errors.New("still referenced")

// SQLSTATE codes the API distinguishes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// NotFound maps pgx.ErrNoRows to ErrNotFound and passes other errors through.
func NotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// returning the violated constraint name.
func IsUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// IsForeignKeyViolation reports whether err is a foreign key violation,
// returning the violated constraint name.
func IsForeignKeyViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// UniqueField derives the offending field from a "<table>_<column>_key"
// constraint name, dropping an "_id" suffix so foreign keys read as their
// JSON field ("paciente_id" -> "paciente").
func UniqueField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return "", false
	}
	field := strings.TrimSuffix(pgErr.ConstraintName, "_key")
	field = strings.TrimPrefix(field, pgErr.TableName+"_")
	field = strings.TrimSuffix(field, "_id")
	if field == "" {
		field = "non_field_errors"
	}
	return field, true
}

// Referenced maps a foreign key violation to ErrReferenced. Only call it on
// deletes, where the violation can only mean the row is still in use; the
// server's message text is locale dependent and is not inspected.
func Referenced(err error) error {
	if _, ok := IsForeignKeyViolation(err); ok {
		return ErrReferenced
	}
	return err
}
