package patient

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

const cols = `id, nome, cpf, rg, data_nascimento, sexo, email, endereco_id,
	profissao, observacoes, alergias, status, data_cadastro`

func scan(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID, &p.Nome, &p.CPF, &p.RG, &p.DataNascimento, &p.Sexo, &p.Email, &p.AddressID,
		&p.Profissao, &p.Observacoes, &p.Alergias, &p.Status, &p.DataCadastro,
	)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO pacientes (nome, cpf, rg, data_nascimento, sexo, email, endereco_id,
			profissao, observacoes, alergias, status, data_cadastro)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id, data_cadastro`,
		p.Nome, p.CPF, p.RG, p.DataNascimento, p.Sexo, p.Email, p.AddressID,
		p.Profissao, p.Observacoes, p.Alergias, p.Status,
	).Scan(&p.ID, &p.DataCadastro)
	if err != nil {
		return fmt.Errorf("insert paciente: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	return scan(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+cols+` FROM pacientes WHERE id = $1`, id))
}

// Update writes every column except data_cadastro, which is set once.
func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE pacientes SET
			nome = $2, cpf = $3, rg = $4, data_nascimento = $5, sexo = $6, email = $7,
			endereco_id = $8, profissao = $9, observacoes = $10, alergias = $11, status = $12
		WHERE id = $1`,
		p.ID, p.Nome, p.CPF, p.RG, p.DataNascimento, p.Sexo, p.Email,
		p.AddressID, p.Profissao, p.Observacoes, p.Alergias, p.Status,
	)
	if err != nil {
		return fmt.Errorf("update paciente %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoPG) SetAddress(ctx context.Context, id, addressID int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE pacientes SET endereco_id = $2 WHERE id = $1`, id, addressID)
	if err != nil {
		return fmt.Errorf("set endereco of paciente %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	conn := db.Conn(ctx, r.pool)
	if _, err := conn.Exec(ctx, `DELETE FROM pacientes_contatos WHERE paciente_id = $1`, id); err != nil {
		return fmt.Errorf("unlink contatos of paciente %d: %w", id, err)
	}
	tag, err := conn.Exec(ctx, `DELETE FROM pacientes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete paciente %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, p pagination.Params) ([]*Patient, int, error) {
	q := db.NewQuery("pacientes", cols)
	q.AddSearch(f.Search, "nome", "email", "cpf")
	q.OrderBy("nome, id")

	conn := db.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, q.CountSQL(), q.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pacientes: %w", err)
	}

	rows, err := conn.Query(ctx, q.DataSQL(p), q.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pacientes: %w", err)
	}
	defer rows.Close()

	items := []*Patient{}
	for rows.Next() {
		pt, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, pt)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM pacientes WHERE id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check paciente %d: %w", id, err)
	}
	return ok, nil
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT COUNT(*) FROM pacientes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pacientes: %w", err)
	}
	return n, nil
}
