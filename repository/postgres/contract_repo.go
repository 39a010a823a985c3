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

const contractColumns = `
	id, title, project_id, customer_id, collaborator_user_id, template_id, scope_id, created_by,
	status, is_locked, external_signature_document_id,
	template_html_snapshot, scope_html_snapshot, contract_html, variables_json, unresolved_placeholders,
	monthly_value::float8, months_count, first_payment_day,
	created_at, updated_at, deleted_at
`

type contractRepository struct {
	pool *pgxpool.Pool
}

// NewContractRepository returns a Postgres-backed ContractRepository.
func NewContractRepository(pool *pgxpool.Pool) repository.ContractRepository {
	return &contractRepository{pool: pool}
}

func (r *contractRepository) GetByID(ctx context.Context, id string) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1 AND deleted_at IS NULL`
	return scanContract(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *contractRepository) GetForUpdate(ctx context.Context, id string) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return scanContract(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *contractRepository) GetByExternalDocumentID(ctx context.Context, documentID string) (*domain.Contract, error) {
	query := `SELECT ` + contractColumns + `
	FROM contracts
	WHERE external_signature_document_id = $1 AND deleted_at IS NULL`
	return scanContract(conn(ctx, r.pool).QueryRow(ctx, query, documentID))
}

func (r *contractRepository) List(ctx context.Context, filter repository.ContractFilter) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + `
	FROM contracts
	WHERE deleted_at IS NULL
	  AND ($1 = '' OR project_id::text = $1)
	  AND ($2 = '' OR customer_id::text = $2)
	  AND ($3 = '' OR collaborator_user_id::text = $3)
	  AND ($4 = '' OR status = $4)
	ORDER BY created_at DESC
	LIMIT $5 OFFSET $6`

	rows, err := conn(ctx, r.pool).Query(ctx, query,
		filter.ProjectID,
		filter.CustomerID,
		filter.CollaboratorUserID,
		string(filter.Status),
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, *contract)
	}
	return contracts, rows.Err()
}

func (r *contractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	if contract == nil {
		return domain.ErrInvalidPayload
	}
	if contract.ID == "" {
		contract.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO contracts (
		id, title, project_id, customer_id, collaborator_user_id, template_id, scope_id, created_by,
		status, is_locked, external_signature_document_id,
		template_html_snapshot, scope_html_snapshot, contract_html, variables_json, unresolved_placeholders,
		monthly_value, months_count, first_payment_day, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		COALESCE($20, NOW()), NOW())
	RETURNING created_at, updated_at
	`

	return conn(ctx, r.pool).QueryRow(ctx, query,
		contract.ID,
		contract.Title,
		contract.ProjectID,
		contract.CustomerID,
		contract.CollaboratorUserID,
		contract.TemplateID,
		contract.ScopeID,
		contract.CreatedBy,
		string(contract.Status),
		contract.IsLocked,
		contract.ExternalSignatureDocumentID,
		contract.TemplateHTMLSnapshot,
		contract.ScopeHTMLSnapshot,
		contract.ContractHTML,
		marshalMap(contract.Variables),
		contract.UnresolvedPlaceholders,
		contract.MonthlyValue,
		contract.MonthsCount,
		contract.FirstPaymentDay,
		nullTime(contract.CreatedAt),
	).Scan(&contract.CreatedAt, &contract.UpdatedAt)
}

func (r *contractRepository) Update(ctx context.Context, contract *domain.Contract) error {
	if contract == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE contracts
	SET title = $2,
		project_id = $3,
		customer_id = $4,
		collaborator_user_id = $5,
		template_id = $6,
		scope_id = $7,
		status = $8,
		is_locked = $9,
		external_signature_document_id = $10,
		template_html_snapshot = $11,
		scope_html_snapshot = $12,
		contract_html = $13,
		variables_json = $14,
		unresolved_placeholders = $15,
		monthly_value = $16,
		months_count = $17,
		first_payment_day = $18,
		updated_at = NOW()
	WHERE id = $1 AND deleted_at IS NULL
	RETURNING updated_at
	`

	if err := conn(ctx, r.pool).QueryRow(ctx, query,
		contract.ID,
		contract.Title,
		contract.ProjectID,
		contract.CustomerID,
		contract.CollaboratorUserID,
		contract.TemplateID,
		contract.ScopeID,
		string(contract.Status),
		contract.IsLocked,
		contract.ExternalSignatureDocumentID,
		contract.TemplateHTMLSnapshot,
		contract.ScopeHTMLSnapshot,
		contract.ContractHTML,
		marshalMap(contract.Variables),
		contract.UnresolvedPlaceholders,
		contract.MonthlyValue,
		contract.MonthsCount,
		contract.FirstPaymentDay,
	).Scan(&contract.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrContractNotFound
		}
		return err
	}
	return nil
}

func (r *contractRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE contracts SET deleted_at = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	tag, err := conn(ctx, r.pool).Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrContractNotFound
	}
	return nil
}

func (r *contractRepository) CountSigned(ctx context.Context, projectID string) (int, error) {
	const query = `
	SELECT COUNT(*)
	FROM contracts
	WHERE project_id = $1 AND status = 'signed' AND deleted_at IS NULL
	`
	var count int
	if err := conn(ctx, r.pool).QueryRow(ctx, query, projectID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanContract(row scanner) (*domain.Contract, error) {
	var (
		c         domain.Contract
		status    string
		variables []byte
	)

	if err := row.Scan(
		&c.ID,
		&c.Title,
		&c.ProjectID,
		&c.CustomerID,
		&c.CollaboratorUserID,
		&c.TemplateID,
		&c.ScopeID,
		&c.CreatedBy,
		&status,
		&c.IsLocked,
		&c.ExternalSignatureDocumentID,
		&c.TemplateHTMLSnapshot,
		&c.ScopeHTMLSnapshot,
		&c.ContractHTML,
		&variables,
		&c.UnresolvedPlaceholders,
		&c.MonthlyValue,
		&c.MonthsCount,
		&c.FirstPaymentDay,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.DeletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContractNotFound
		}
		return nil, err
	}

	c.Status = domain.ContractStatus(status)
	c.Variables = unmarshalMap(variables)
	return &c, nil
}

type contractEventRepository struct {
	pool *pgxpool.Pool
}

// NewContractEventRepository returns the audit trail writer.
func NewContractEventRepository(pool *pgxpool.Pool) repository.ContractEventRepository {
	return &contractEventRepository{pool: pool}
}

func (r *contractEventRepository) Append(ctx context.Context, event domain.ContractEvent) error {
	const query = `
	INSERT INTO contract_events (id, contract_id, name, actor_id, payload, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
	`

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	var payload []byte
	if len(event.Payload) > 0 {
		payload = []byte(event.Payload)
	}

	_, err := conn(ctx, r.pool).Exec(ctx, query,
		event.ID,
		event.ContractID,
		event.Name,
		event.ActorID,
		payload,
		marshalMap(event.Metadata),
		nullTime(event.CreatedAt),
	)
	return err
}
