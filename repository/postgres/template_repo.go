package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/repository"
)

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository returns a Postgres-backed TemplateRepository.
func NewTemplateRepository(pool *pgxpool.Pool) repository.TemplateRepository {
	return &templateRepository{pool: pool}
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	const query = `
	SELECT id, scope_id, name, description, html, created_at, updated_at, deleted_at
	FROM contract_templates
	WHERE id = $1 AND deleted_at IS NULL
	`
	return scanTemplate(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *templateRepository) List(ctx context.Context, filter repository.TemplateFilter) ([]domain.Template, error) {
	const query = `
	SELECT id, scope_id, name, description, html, created_at, updated_at, deleted_at
	FROM contract_templates
	WHERE deleted_at IS NULL
	  AND ($1 = '' OR scope_id::text = $1)
	  AND ($2 = '' OR name ILIKE '%' || $2 || '%')
	ORDER BY name ASC
	LIMIT $3 OFFSET $4
	`
	rows, err := conn(ctx, r.pool).Query(ctx, query, filter.ScopeID, filter.Search, clampLimit(filter.Limit), filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.Template
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *tpl)
	}
	return templates, rows.Err()
}

func (r *templateRepository) Create(ctx context.Context, tpl *domain.Template) error {
	if tpl == nil {
		return domain.ErrInvalidPayload
	}
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO contract_templates (id, scope_id, name, description, html)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`
	return conn(ctx, r.pool).QueryRow(ctx, query,
		tpl.ID,
		tpl.ScopeID,
		tpl.Name,
		tpl.Description,
		tpl.HTML,
	).Scan(&tpl.CreatedAt, &tpl.UpdatedAt)
}

func (r *templateRepository) Update(ctx context.Context, tpl *domain.Template) error {
	if tpl == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE contract_templates
	SET scope_id = $2,
		name = $3,
		description = $4,
		html = $5,
		updated_at = NOW()
	WHERE id = $1 AND deleted_at IS NULL
	RETURNING updated_at
	`
	if err := conn(ctx, r.pool).QueryRow(ctx, query,
		tpl.ID,
		tpl.ScopeID,
		tpl.Name,
		tpl.Description,
		tpl.HTML,
	).Scan(&tpl.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTemplateNotFound
		}
		return err
	}
	return nil
}

func (r *templateRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE contract_templates SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	tag, err := conn(ctx, r.pool).Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *templateRepository) NameTaken(ctx context.Context, scopeID *string, name, excludeID string) (bool, error) {
	const query = `
	SELECT EXISTS (
		SELECT 1
		FROM contract_templates
		WHERE deleted_at IS NULL
		  AND lower(name) = lower($1)
		  AND scope_id IS NOT DISTINCT FROM $2::uuid
		  AND ($3 = '' OR id::text <> $3)
	)
	`
	var taken bool
	if err := conn(ctx, r.pool).QueryRow(ctx, query, name, scopeID, excludeID).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

func scanTemplate(row scanner) (*domain.Template, error) {
	var tpl domain.Template
	if err := row.Scan(
		&tpl.ID,
		&tpl.ScopeID,
		&tpl.Name,
		&tpl.Description,
		&tpl.HTML,
		&tpl.CreatedAt,
		&tpl.UpdatedAt,
		&tpl.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	return &tpl, nil
}
