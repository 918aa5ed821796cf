package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uphomesco-hub/mvptypist-sub001/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type reportRepoPG struct{ pool *pgxpool.Pool }

func NewReportRepoPG(pool *pgxpool.Pool) ReportRepository {
	return &reportRepoPG{pool: pool}
}

func (r *reportRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const reportCols = `id, patient_name, patient_sex, study_date, gender, template_id,
	overrides, organ_states, suppress,
	rendered_text, sections_detected, sections_replaced,
	used_fallback_detection, forced_canonical_fallback, fallback_reason,
	status, version_id, finalized_at, created_at, updated_at`

func (r *reportRepoPG) scanRow(row pgx.Row) (*Report, error) {
	var rep Report
	var overrides, organStates, suppress []byte
	err := row.Scan(&rep.ID, &rep.PatientName, &rep.PatientSex, &rep.StudyDate, &rep.Gender, &rep.TemplateID,
		&overrides, &organStates, &suppress,
		&rep.RenderedText, &rep.SectionsDetected, &rep.SectionsReplaced,
		&rep.UsedFallbackDetection, &rep.ForcedCanonicalFallback, &rep.FallbackReason,
		&rep.Status, &rep.VersionID, &rep.FinalizedAt, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &rep.Overrides); err != nil {
			return nil, err
		}
	}
	if len(organStates) > 0 {
		if err := json.Unmarshal(organStates, &rep.OrganStates); err != nil {
			return nil, err
		}
	}
	if len(suppress) > 0 {
		if err := json.Unmarshal(suppress, &rep.Suppress); err != nil {
			return nil, err
		}
	}
	return &rep, nil
}

func marshalInputs(rep *Report) (overrides, organStates, suppress []byte, err error) {
	if overrides, err = json.Marshal(rep.Overrides); err != nil {
		return
	}
	if organStates, err = json.Marshal(rep.OrganStates); err != nil {
		return
	}
	suppress, err = json.Marshal(rep.Suppress)
	return
}

func (r *reportRepoPG) Create(ctx context.Context, rep *Report) error {
	rep.ID = uuid.New()
	overrides, organStates, suppress, err := marshalInputs(rep)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO report (id, patient_name, patient_sex, study_date, gender, template_id,
			overrides, organ_states, suppress,
			rendered_text, sections_detected, sections_replaced,
			used_fallback_detection, forced_canonical_fallback, fallback_reason, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		rep.ID, rep.PatientName, rep.PatientSex, rep.StudyDate, rep.Gender, rep.TemplateID,
		overrides, organStates, suppress,
		rep.RenderedText, rep.SectionsDetected, rep.SectionsReplaced,
		rep.UsedFallbackDetection, rep.ForcedCanonicalFallback, rep.FallbackReason, rep.Status)
	return err
}

func (r *reportRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+reportCols+` FROM report WHERE id = $1`, id))
}

func (r *reportRepoPG) Update(ctx context.Context, rep *Report) error {
	overrides, organStates, suppress, err := marshalInputs(rep)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		UPDATE report SET patient_name=$2, patient_sex=$3, study_date=$4, gender=$5, template_id=$6,
			overrides=$7, organ_states=$8, suppress=$9,
			rendered_text=$10, sections_detected=$11, sections_replaced=$12,
			used_fallback_detection=$13, forced_canonical_fallback=$14, fallback_reason=$15,
			status=$16, version_id=$17, finalized_at=$18, updated_at=NOW()
		WHERE id = $1`,
		rep.ID, rep.PatientName, rep.PatientSex, rep.StudyDate, rep.Gender, rep.TemplateID,
		overrides, organStates, suppress,
		rep.RenderedText, rep.SectionsDetected, rep.SectionsReplaced,
		rep.UsedFallbackDetection, rep.ForcedCanonicalFallback, rep.FallbackReason,
		rep.Status, rep.VersionID, rep.FinalizedAt)
	return err
}

func (r *reportRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM report WHERE id = $1`, id)
	return err
}

func (r *reportRepoPG) List(ctx context.Context, status, patient string, limit, offset int) ([]*Report, int, error) {
	var conds []string
	var args []interface{}
	if status != "" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if patient != "" {
		args = append(args, "%"+patient+"%")
		conds = append(conds, fmt.Sprintf("patient_name ILIKE $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = ` WHERE ` + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM report`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM report%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		reportCols, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Report
	for rows.Next() {
		rep, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rep)
	}
	return items, total, nil
}
