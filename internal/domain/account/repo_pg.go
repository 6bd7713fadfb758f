package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odonto/clinica/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const cols = `id, username, email, first_name, password, is_active, date_joined`

func scan(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.PasswordHash, &u.IsActive, &u.DateJoined); err != nil {
		return nil, db.NotFound(err)
	}
	return &u, nil
}

func (r *repoPG) Create(ctx context.Context, u *User) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO auth_user (username, email, first_name, password, is_active, date_joined)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, date_joined`,
		u.Username, u.Email, u.FirstName, u.PasswordHash, u.IsActive,
	).Scan(&u.ID, &u.DateJoined)
	if err != nil {
		return fmt.Errorf("insert auth_user: %w", err)
	}
	return nil
}

func (r *repoPG) GetByUsername(ctx context.Context, username string) (*User, error) {
	return scan(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+cols+` FROM auth_user WHERE username = $1`, username))
}
