package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bluewall/userdir-server/internal/account"
)

const defaultRealm = "useraccounts"

// Realm becomes part of table names, so restrict it to identifier chars.
var realmPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s (
    principal_id UUID PRIMARY KEY,
    scope_id UUID NOT NULL,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    user_flags INTEGER NOT NULL DEFAULT 0,
    user_level INTEGER NOT NULL DEFAULT 0,
    user_title TEXT NOT NULL DEFAULT '',
    home_uri TEXT NOT NULL DEFAULT '',
    gatekeeper_uri TEXT NOT NULL DEFAULT '',
    inventory_uri TEXT NOT NULL DEFAULT '',
    asset_uri TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_%[1]s_name ON %[1]s(scope_id, first_name, last_name);
CREATE INDEX IF NOT EXISTS idx_%[1]s_email ON %[1]s(email);
CREATE TABLE IF NOT EXISTS %[2]s (
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    food TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (first_name, last_name)
);
`

// PostgresStore implements Backend using PostgreSQL.
type PostgresStore struct {
	pool     *pgxpool.Pool
	accounts string
	names    string
}

func openPostgres(ctx context.Context, connString, realm string) (Backend, error) {
	return NewPostgresStore(ctx, connString, realm)
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
// The realm names the account table; legacy names live in a sibling
// table derived from it.
func NewPostgresStore(ctx context.Context, connString, realm string) (*PostgresStore, error) {
	if connString == "" {
		return nil, errors.New("empty connection string")
	}
	if realm == "" {
		realm = defaultRealm
	}
	if !realmPattern.MatchString(realm) {
		return nil, fmt.Errorf("invalid realm %q", realm)
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	s := &PostgresStore{
		pool:     pool,
		accounts: realm,
		names:    realm + "_names",
	}

	if _, err := pool.Exec(ctx, fmt.Sprintf(schemaTemplate, s.accounts, s.names)); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *PostgresStore) selectAccounts() string {
	return fmt.Sprintf(
		`SELECT principal_id, scope_id, first_name, last_name, email,
		        user_flags, user_level, user_title,
		        home_uri, gatekeeper_uri, inventory_uri, asset_uri, created_at
		 FROM %s`, s.accounts)
}

// GetByID looks up an account by principal ID.
func (s *PostgresStore) GetByID(ctx context.Context, scopeID, principalID uuid.UUID) (*account.Account, error) {
	row := s.pool.QueryRow(ctx,
		s.selectAccounts()+` WHERE principal_id = $1 AND (scope_id = $2 OR scope_id = $3)`,
		principalID, scopeID, account.GlobalScope)
	return scanAccount(row)
}

// GetByName looks up an account by its first/last name pair.
func (s *PostgresStore) GetByName(ctx context.Context, scopeID uuid.UUID, firstName, lastName string) (*account.Account, error) {
	row := s.pool.QueryRow(ctx,
		s.selectAccounts()+` WHERE first_name = $1 AND last_name = $2 AND (scope_id = $3 OR scope_id = $4)`,
		firstName, lastName, scopeID, account.GlobalScope)
	return scanAccount(row)
}

// GetByEmail looks up an account by email address.
func (s *PostgresStore) GetByEmail(ctx context.Context, scopeID uuid.UUID, email string) (*account.Account, error) {
	row := s.pool.QueryRow(ctx,
		s.selectAccounts()+` WHERE email = $1 AND (scope_id = $2 OR scope_id = $3)`,
		email, scopeID, account.GlobalScope)
	return scanAccount(row)
}

// Search returns accounts whose name or email contains the query text.
func (s *PostgresStore) Search(ctx context.Context, scopeID uuid.UUID, query string) ([]*account.Account, error) {
	rows, err := s.pool.Query(ctx,
		s.selectAccounts()+
			` WHERE (scope_id = $1 OR scope_id = $2)
			  AND (first_name ILIKE '%' || $3 || '%'
			    OR last_name ILIKE '%' || $3 || '%'
			    OR email ILIKE '%' || $3 || '%')
			  ORDER BY last_name, first_name`,
		scopeID, account.GlobalScope, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

// Put upserts an account keyed by principal ID.
func (s *PostgresStore) Put(ctx context.Context, acc *account.Account) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (principal_id, scope_id, first_name, last_name, email,
		                 user_flags, user_level, user_title,
		                 home_uri, gatekeeper_uri, inventory_uri, asset_uri, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (principal_id) DO UPDATE SET
		     scope_id = EXCLUDED.scope_id,
		     first_name = EXCLUDED.first_name,
		     last_name = EXCLUDED.last_name,
		     email = EXCLUDED.email,
		     user_flags = EXCLUDED.user_flags,
		     user_level = EXCLUDED.user_level,
		     user_title = EXCLUDED.user_title,
		     home_uri = EXCLUDED.home_uri,
		     gatekeeper_uri = EXCLUDED.gatekeeper_uri,
		     inventory_uri = EXCLUDED.inventory_uri,
		     asset_uri = EXCLUDED.asset_uri`, s.accounts),
		acc.PrincipalID, acc.ScopeID, acc.FirstName, acc.LastName, acc.Email,
		acc.UserFlags, acc.UserLevel, acc.UserTitle,
		acc.ServiceURLs.Home, acc.ServiceURLs.Gatekeeper,
		acc.ServiceURLs.Inventory, acc.ServiceURLs.Asset, acc.Created)
	return err
}

// StoreName upserts a legacy name record.
func (s *PostgresStore) StoreName(ctx context.Context, n *account.Name) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (first_name, last_name, food) VALUES ($1, $2, $3)
		 ON CONFLICT (first_name, last_name) DO UPDATE SET food = EXCLUDED.food`, s.names),
		n.FirstName, n.LastName, n.Food)
	return err
}

// ListNames returns all legacy name records.
func (s *PostgresStore) ListNames(ctx context.Context) ([]account.Name, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(
		`SELECT first_name, last_name, food FROM %s ORDER BY last_name, first_name`, s.names))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []account.Name
	for rows.Next() {
		var n account.Name
		if err := rows.Scan(&n.FirstName, &n.LastName, &n.Food); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	err := row.Scan(&acc.PrincipalID, &acc.ScopeID, &acc.FirstName, &acc.LastName, &acc.Email,
		&acc.UserFlags, &acc.UserLevel, &acc.UserTitle,
		&acc.ServiceURLs.Home, &acc.ServiceURLs.Gatekeeper,
		&acc.ServiceURLs.Inventory, &acc.ServiceURLs.Asset, &acc.Created)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
