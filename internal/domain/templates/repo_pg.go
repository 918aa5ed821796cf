package templates

import (
	"context"
	"encoding/json"

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

// -- Template repository --

type templateRepoPG struct{ pool *pgxpool.Pool }

func NewTemplateRepoPG(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepoPG{pool: pool}
}

func (r *templateRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const tplCols = `id, name, gender, body, mapping, active, version_id, created_at, updated_at`

func (r *templateRepoPG) scanRow(row pgx.Row) (*Template, error) {
	var t Template
	var mapping []byte
	err := row.Scan(&t.ID, &t.Name, &t.Gender, &t.Body, &mapping,
		&t.Active, &t.VersionID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(mapping) > 0 {
		if err := json.Unmarshal(mapping, &t.Mapping); err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func (r *templateRepoPG) Create(ctx context.Context, t *Template) error {
	t.ID = uuid.New()
	mapping, err := json.Marshal(t.Mapping)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO template (id, name, gender, body, mapping, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		t.ID, t.Name, t.Gender, t.Body, mapping, t.Active)
	return err
}

func (r *templateRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+tplCols+` FROM template WHERE id = $1`, id))
}

func (r *templateRepoPG) Update(ctx context.Context, t *Template) error {
	mapping, err := json.Marshal(t.Mapping)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		UPDATE template SET name=$2, gender=$3, body=$4, mapping=$5, active=$6,
			version_id=version_id+1, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.Name, t.Gender, t.Body, mapping, t.Active)
	return err
}

func (r *templateRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM template WHERE id = $1`, id)
	return err
}

func (r *templateRepoPG) List(ctx context.Context, gender string, limit, offset int) ([]*Template, int, error) {
	where := ""
	args := []interface{}{}
	if gender != "" {
		where = ` WHERE gender = $1`
		args = append(args, gender)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM template`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + tplCols + ` FROM template` + where + ` ORDER BY created_at DESC`
	if gender != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Template
	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, nil
}

// -- Profile repository --

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepoPG{pool: pool}
}

func (r *profileRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const profCols = `id, name, schema, version, approved, created_at, updated_at`

func (r *profileRepoPG) scanRow(row pgx.Row) (*Profile, error) {
	var p Profile
	var schema []byte
	err := row.Scan(&p.ID, &p.Name, &schema, &p.Version, &p.Approved, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Schema = schema
	return &p, nil
}

func (r *profileRepoPG) Create(ctx context.Context, p *Profile) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO profile (id, name, schema, version, approved)
		VALUES ($1,$2,$3,$4,$5)`,
		p.ID, p.Name, []byte(p.Schema), p.Version, p.Approved)
	return err
}

func (r *profileRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return r.scanRow(r.conn(ctx).QueryRow(ctx, `SELECT `+profCols+` FROM profile WHERE id = $1`, id))
}

func (r *profileRepoPG) Update(ctx context.Context, p *Profile) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE profile SET name=$2, schema=$3, version=$4, approved=$5, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, []byte(p.Schema), p.Version, p.Approved)
	return err
}

func (r *profileRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM profile WHERE id = $1`, id)
	return err
}

func (r *profileRepoPG) List(ctx context.Context, limit, offset int) ([]*Profile, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM profile`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+profCols+` FROM profile ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Profile
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}
