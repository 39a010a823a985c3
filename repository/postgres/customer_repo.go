package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/repository"
)

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a Postgres-backed CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) repository.CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	q := conn(ctx, r.pool)

	const query = `
	SELECT id, kind, status, email, phone, created_at, updated_at
	FROM customers
	WHERE id = $1
	`
	var (
		c    domain.Customer
		kind string
	)
	if err := q.QueryRow(ctx, query, id).Scan(&c.ID, &kind, &c.Status, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, err
	}
	c.Kind = domain.CustomerKind(kind)

	var err error
	if c.Addresses, err = loadAddresses(ctx, q, c.ID); err != nil {
		return nil, err
	}

	switch c.Kind {
	case domain.CustomerPerson:
		if c.Person, err = loadPerson(ctx, q, c.ID); err != nil {
			return nil, err
		}
	case domain.CustomerCompany:
		if c.Company, err = loadCompany(ctx, q, c.ID); err != nil {
			return nil, err
		}
	}

	return &c, nil
}

func (r *customerRepository) ActivateCascade(ctx context.Context, id string) ([]string, error) {
	const query = `
	WITH RECURSIVE targets AS (
		SELECT $1::uuid AS id
		UNION
		SELECT cp.person_customer_id
		FROM company_people cp
		JOIN targets t ON cp.company_customer_id = t.id
	)
	UPDATE customers
	SET status = 'active', updated_at = NOW()
	WHERE id IN (SELECT id FROM targets) AND status <> 'active'
	RETURNING id::text
	`
	rows, err := conn(ctx, r.pool).Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activated []string
	for rows.Next() {
		var customerID string
		if err := rows.Scan(&customerID); err != nil {
			return nil, err
		}
		activated = append(activated, customerID)
	}
	return activated, rows.Err()
}

func loadPerson(ctx context.Context, q querier, customerID string) (*domain.Person, error) {
	const query = `
	SELECT id, name, tax_id, id_number, nationality, marital_status, profession, birth_date, email, phone
	FROM persons
	WHERE customer_id = $1
	`
	var p domain.Person
	if err := q.QueryRow(ctx, query, customerID).Scan(
		&p.ID,
		&p.Name,
		&p.TaxID,
		&p.IDNumber,
		&p.Nationality,
		&p.MaritalStatus,
		&p.Profession,
		&p.BirthDate,
		&p.Email,
		&p.Phone,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func loadCompany(ctx context.Context, q querier, customerID string) (*domain.Company, error) {
	const query = `
	SELECT id, legal_name, trade_name, tax_id, state_registration
	FROM companies
	WHERE customer_id = $1
	`
	var co domain.Company
	if err := q.QueryRow(ctx, query, customerID).Scan(
		&co.ID,
		&co.LegalName,
		&co.TradeName,
		&co.TaxID,
		&co.StateRegistration,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	const linked = `
	SELECT person_customer_id::text, role, is_legal_representative, is_primary
	FROM company_people
	WHERE company_customer_id = $1
	ORDER BY is_legal_representative DESC, is_primary DESC, person_customer_id
	`
	rows, err := q.Query(ctx, linked, customerID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var lp domain.LinkedPerson
		if err := rows.Scan(&lp.CustomerID, &lp.Role, &lp.IsLegalRepresentative, &lp.IsPrimary); err != nil {
			rows.Close()
			return nil, err
		}
		co.LinkedPeople = append(co.LinkedPeople, lp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range co.LinkedPeople {
		lp := &co.LinkedPeople[i]
		if lp.Person, err = loadPerson(ctx, q, lp.CustomerID); err != nil {
			return nil, err
		}
		if lp.Addresses, err = loadAddresses(ctx, q, lp.CustomerID); err != nil {
			return nil, err
		}
	}

	return &co, nil
}

func loadAddresses(ctx context.Context, q querier, customerID string) ([]domain.Address, error) {
	const query = `
	SELECT street, number, complement, district, city, state, postal_code, is_primary
	FROM customer_addresses
	WHERE customer_id = $1
	ORDER BY is_primary DESC, id
	`
	rows, err := q.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.Street, &a.Number, &a.Complement, &a.District, &a.City, &a.State, &a.PostalCode, &a.IsPrimary); err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}
