package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/repository"
)

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) repository.ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const query = `
	SELECT p.id, p.customer_id, p.name, p.description, p.status, p.stage, p.start_date,
		p.has_signed_contract, p.created_at, p.updated_at,
		COALESCE(ARRAY(SELECT m.user_id::text FROM project_members m WHERE m.project_id = p.id), '{}')
	FROM projects p
	WHERE p.id = $1
	`
	var p domain.Project
	if err := conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.CustomerID,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.Stage,
		&p.StartDate,
		&p.HasSignedContract,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.MemberIDs,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *projectRepository) SetHasSignedContract(ctx context.Context, id string, value bool) error {
	const query = `
	UPDATE projects
	SET has_signed_contract = $2, updated_at = NOW()
	WHERE id = $1
	`
	tag, err := conn(ctx, r.pool).Exec(ctx, query, id, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

type scopeRepository struct {
	pool *pgxpool.Pool
}

// NewScopeRepository returns a Postgres-backed ScopeRepository.
func NewScopeRepository(pool *pgxpool.Pool) repository.ScopeRepository {
	return &scopeRepository{pool: pool}
}

func (r *scopeRepository) GetByID(ctx context.Context, id string) (*domain.Scope, error) {
	const query = `
	SELECT id, project_id, title, version, html, created_at, updated_at
	FROM scopes
	WHERE id = $1
	`
	var s domain.Scope
	if err := conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.ProjectID,
		&s.Title,
		&s.Version,
		&s.HTML,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScopeNotFound
		}
		return nil, err
	}
	return &s, nil
}
