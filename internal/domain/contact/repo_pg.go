package contact

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

const cols = `c.id, c.tipo, c.numero, c.is_whatsapp, c.observacao`

func scan(row pgx.Row) (*Contact, error) {
	var c Contact
	if err := row.Scan(&c.ID, &c.Tipo, &c.Numero, &c.IsWhatsapp, &c.Observacao); err != nil {
		return nil, db.NotFound(err)
	}
	c.TipoDisplay = Tipos.Label(c.Tipo)
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Contact) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO contatos (tipo, numero, is_whatsapp, observacao)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		c.Tipo, c.Numero, c.IsWhatsapp, c.Observacao,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert contato: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Contact, error) {
	return scan(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+cols+` FROM contatos c WHERE c.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, c *Contact) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE contatos SET tipo = $2, numero = $3, is_whatsapp = $4, observacao = $5
		WHERE id = $1`,
		c.ID, c.Tipo, c.Numero, c.IsWhatsapp, c.Observacao,
	)
	if err != nil {
		return fmt.Errorf("update contato %d: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// Delete removes the contact; its patient links go with it through the
// join table's cascade.
func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM contatos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contato %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, p pagination.Params) ([]*Contact, int, error) {
	q := db.NewQuery("contatos c", cols)
	if f.PatientID != nil {
		q.Add("c.id IN (SELECT contato_id FROM pacientes_contatos WHERE paciente_id = $%d)", *f.PatientID)
	}
	q.OrderBy("c.id")

	conn := db.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, q.CountSQL(), q.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contatos: %w", err)
	}

	rows, err := conn.Query(ctx, q.DataSQL(p), q.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contatos: %w", err)
	}
	items, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID int64) ([]*Contact, error) {
	rows, err := db.Conn(ctx, r.pool).Query(ctx, `
		SELECT `+cols+`
		FROM contatos c
		JOIN pacientes_contatos pc ON pc.contato_id = c.id
		WHERE pc.paciente_id = $1
		ORDER BY c.id`, patientID)
	if err != nil {
		return nil, fmt.Errorf("list contatos of paciente %d: %w", patientID, err)
	}
	return collect(rows)
}

func (r *repoPG) AttachToPatient(ctx context.Context, patientID, contactID int64) error {
	_, err := db.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO pacientes_contatos (paciente_id, contato_id)
		VALUES ($1, $2)
		ON CONFLICT (paciente_id, contato_id) DO NOTHING`, patientID, contactID)
	if err != nil {
		return fmt.Errorf("attach contato %d to paciente %d: %w", contactID, patientID, err)
	}
	return nil
}

func collect(rows pgx.Rows) ([]*Contact, error) {
	defer rows.Close()
	items := []*Contact{}
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
