package anamnesis

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

const cols = `id, paciente_id, data_atualizacao,
	problemas_saude, medicamentos, alergias, cirurgias,
	ultima_consulta_dentista, motivo_ultima_consulta, experiencia_tratamento,
	fumante, alcool, frequencia_escovacao, usa_fio_dental,
	sensibilidade_dental, sangramento_gengival, ranger_dentes, dores_articulacao,
	gestante, diabetes, hipertensao, problemas_cardiacos, observacoes`

func scan(row pgx.Row) (*Anamnesis, error) {
	var a Anamnesis
	err := row.Scan(
		&a.ID, &a.PatientID, &a.DataAtualizacao,
		&a.ProblemasSaude, &a.Medicamentos, &a.Alergias, &a.Cirurgias,
		&a.UltimaConsultaDentista, &a.MotivoUltimaConsulta, &a.ExperienciaTratamento,
		&a.Fumante, &a.Alcool, &a.FrequenciaEscovacao, &a.UsaFioDental,
		&a.SensibilidadeDental, &a.SangramentoGengival, &a.RangerDentes, &a.DoresArticulacao,
		&a.Gestante, &a.Diabetes, &a.Hipertensao, &a.ProblemasCardiacos, &a.Observacoes,
	)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &a, nil
}

// values lists the writable columns in the order used by Create and Update.
func values(a *Anamnesis) []interface{} {
	return []interface{}{
		a.PatientID,
		a.ProblemasSaude, a.Medicamentos, a.Alergias, a.Cirurgias,
		a.UltimaConsultaDentista, a.MotivoUltimaConsulta, a.ExperienciaTratamento,
		a.Fumante, a.Alcool, a.FrequenciaEscovacao, a.UsaFioDental,
		a.SensibilidadeDental, a.SangramentoGengival, a.RangerDentes, a.DoresArticulacao,
		a.Gestante, a.Diabetes, a.Hipertensao, a.ProblemasCardiacos, a.Observacoes,
	}
}

func (r *repoPG) Create(ctx context.Context, a *Anamnesis) error {
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO anamneses (paciente_id,
			problemas_saude, medicamentos, alergias, cirurgias,
			ultima_consulta_dentista, motivo_ultima_consulta, experiencia_tratamento,
			fumante, alcool, frequencia_escovacao, usa_fio_dental,
			sensibilidade_dental, sangramento_gengival, ranger_dentes, dores_articulacao,
			gestante, diabetes, hipertensao, problemas_cardiacos, observacoes,
			data_atualizacao)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, NOW())
		RETURNING id, data_atualizacao`,
		values(a)...,
	).Scan(&a.ID, &a.DataAtualizacao)
	if err != nil {
		return fmt.Errorf("insert anamnese: %w", err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Anamnesis, error) {
	return scan(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+cols+` FROM anamneses WHERE id = $1`, id))
}

func (r *repoPG) GetByPatient(ctx context.Context, patientID int64) (*Anamnesis, error) {
	return scan(db.Conn(ctx, r.pool).QueryRow(ctx, `SELECT `+cols+` FROM anamneses WHERE paciente_id = $1`, patientID))
}

// Update rewrites every column and refreshes data_atualizacao.
func (r *repoPG) Update(ctx context.Context, a *Anamnesis) error {
	args := append([]interface{}{a.ID}, values(a)...)
	err := db.Conn(ctx, r.pool).QueryRow(ctx, `
		UPDATE anamneses SET
			paciente_id = $2,
			problemas_saude = $3, medicamentos = $4, alergias = $5, cirurgias = $6,
			ultima_consulta_dentista = $7, motivo_ultima_consulta = $8, experiencia_tratamento = $9,
			fumante = $10, alcool = $11, frequencia_escovacao = $12, usa_fio_dental = $13,
			sensibilidade_dental = $14, sangramento_gengival = $15, ranger_dentes = $16, dores_articulacao = $17,
			gestante = $18, diabetes = $19, hipertensao = $20, problemas_cardiacos = $21, observacoes = $22,
			data_atualizacao = NOW()
		WHERE id = $1
		RETURNING data_atualizacao`,
		args...,
	).Scan(&a.DataAtualizacao)
	if err != nil {
		return db.NotFound(fmt.Errorf("update anamnese %d: %w", a.ID, err))
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM anamneses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete anamnese %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (r *repoPG) DeleteByPatient(ctx context.Context, patientID int64) error {
	if _, err := db.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM anamneses WHERE paciente_id = $1`, patientID); err != nil {
		return fmt.Errorf("delete anamnese of paciente %d: %w", patientID, err)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, p pagination.Params) ([]*Anamnesis, int, error) {
	q := db.NewQuery("anamneses", cols)
	if f.PatientID != nil {
		q.AddEquals("paciente_id", *f.PatientID)
	}
	q.OrderBy("id")

	conn := db.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, q.CountSQL(), q.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count anamneses: %w", err)
	}

	rows, err := conn.Query(ctx, q.DataSQL(p), q.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list anamneses: %w", err)
	}
	defer rows.Close()

	items := []*Anamnesis{}
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}
