package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
		SELECT id, name, email, tax_id, phone, role, status, address, metadata, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	row := conn(ctx, r.pool).QueryRow(ctx, query, id)

	var user domain.User
	var address, metadata []byte

	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.TaxID,
		&user.Phone,
		&user.Role,
		&user.Status,
		&address,
		&metadata,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if len(address) > 0 {
		var a domain.Address
		if err := json.Unmarshal(address, &a); err == nil {
			user.Address = &a
		}
	}
	user.Metadata = unmarshalMap(metadata)

	return &user, nil
}

func (r *userRepository) ListAdminIDs(ctx context.Context) ([]string, error) {
	const query = `
		SELECT id::text
		FROM users
		WHERE role = $1 AND status = $2
		ORDER BY created_at
	`
	rows, err := conn(ctx, r.pool).Query(ctx, query, domain.RoleAdmin, domain.UserStatusLive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
