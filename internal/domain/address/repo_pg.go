package address

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odonto/clinica/internal/platform/db"
	"github.com/odonto/clinica/pkg/pagination"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const cols = `id, cep, logradouro, numero, complemento, bairro, cidade, estado`

func scan(row pgx.Row) (*Address, error) {
	var a Address
	err := row.Scan(&a.ID, &a.CEP, &a.Logradouro, &a.Numero, &a.Complemento, &a.Bairro, &a.Cidade, &a.Estado)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Address) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO enderecos (cep, logradouro, numero, complemento, bairro, cidade, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		a.CEP, a.Logradouro, a.Numero, a.Complemento, a.Bairro, a.Cidade, a.Estado,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert endereco: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Address, error) {
	return scan(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+cols+` FROM enderecos WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Address) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE enderecos SET
			cep = $2, logradouro = $3, numero = $4, complemento = $5,
			bairro = $6, cidade = $7, estado = $8
		WHERE id = $1`,
		a.ID, a.CEP, a.Logradouro, a.Numero, a.Complemento, a.Bairro, a.Cidade, a.Estado,
	)
	if err != nil {
		return fmt.Errorf("update endereco %d: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// Delete fails with db.ErrReferenced while a patient still points at the
// address.
func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM enderecos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete endereco %d: %w", id, db.Referenced(err))
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, p pagination.Params) ([]*Address, int, error) {
	q := db.NewQuery("enderecos", cols)
	q.AddSearch(f.Search, "logradouro", "bairro", "cidade")
	q.OrderBy("id")

	conn := db.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, q.CountSQL(), q.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count enderecos: %w", err)
	}

	rows, err := conn.Query(ctx, q.DataSQL(p), q.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list enderecos: %w", err)
	}
	defer rows.Close()

	items := []*Address{}
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}
