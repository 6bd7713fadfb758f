package appointment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
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

const (
	from = `agendamentos a JOIN pacientes p ON p.id = a.paciente_id`
	cols = `a.id, a.paciente_id, p.nome, a.data, a.horario, a.tipo, a.status, a.observacoes, a.duracao`
)

func scan(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.PacienteNome, &a.Data, &a.Horario, &a.Tipo, &a.Status, &a.Observacoes, &a.Duracao)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO agendamentos (paciente_id, data, horario, tipo, status, observacoes, duracao)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		a.PatientID, a.Data, a.Horario, a.Tipo, a.Status, a.Observacoes, a.Duracao,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert agendamento: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Appointment, error) {
	return scan(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+cols+` FROM `+from+` WHERE a.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `
		UPDATE agendamentos SET
			paciente_id = $2, data = $3, horario = $4, tipo = $5,
			status = $6, observacoes = $7, duracao = $8
		WHERE id = $1`,
		a.ID, a.PatientID, a.Data, a.Horario, a.Tipo, a.Status, a.Observacoes, a.Duracao,
	)
	if err != nil {
		return fmt.Errorf("update agendamento %d: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `UPDATE agendamentos SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update status of agendamento %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM agendamentos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete agendamento %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID int64) error {
	if _, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM agendamentos WHERE paciente_id = $1`, patientID); err != nil {
		return fmt.Errorf("delete agendamentos of paciente %d: %w", patientID, err)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, p pagination.Params) ([]*Appointment, int, error) {
	q := db.NewQuery(from, cols)
	if f.Data.Valid {
		q.AddEquals("a.data", f.Data)
	}
	if f.Status != "" {
		q.AddEquals("a.status", f.Status)
	}
	if f.Busca != "" {
		q.Add("(p.nome ILIKE $%d OR a.tipo ILIKE $%d)", "%"+db.EscapeLike(f.Busca)+"%", "%"+db.EscapeLike(f.Busca)+"%")
	}
	q.OrderBy("a.data, a.horario, a.id")

	conn := db.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, q.CountSQL(), q.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count agendamentos: %w", err)
	}

	rows, err := conn.Query(ctx, q.DataSQL(p), q.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list agendamentos: %w", err)
	}
	defer rows.Close()

	items := []*Appointment{}
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) CountOnDay(ctx context.Context, day pgtype.Date, statuses ...string) (int, error) {
	sql := `SELECT COUNT(*) FROM agendamentos WHERE data = $1`
	args := []interface{}{day}
	if len(statuses) > 0 {
		sql += ` AND status = ANY($2)`
		args = append(args, statuses)
	}
	var n int
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count agendamentos on %s: %w", day.Time.Format("2006-01-02"), err)
	}
	return n, nil
}
