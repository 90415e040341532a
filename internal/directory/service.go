// Package directory implements the account-directory business logic on
// top of a pluggable storage backend.
package directory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bluewall/userdir-server/internal/account"
	"github.com/bluewall/userdir-server/internal/store"
)

var (
	// ErrAlreadyExists is returned when a create collides with an
	// existing (scope, first, last) pair.
	ErrAlreadyExists = errors.New("account already exists")
	// ErrNotFound is returned when an update targets an absent account.
	ErrNotFound = errors.New("account not found")
	// ErrInvalidName is returned when a name component is empty.
	ErrInvalidName = errors.New("first and last name must not be empty")
)

// Service mediates between the method handlers and the storage backend.
// It holds no state beyond the store references and is safe for
// concurrent use.
type Service struct {
	accounts store.AccountStore
	names    store.NameStore
}

// NewService creates a directory service over the given backend.
func NewService(backend store.Backend) *Service {
	return &Service{accounts: backend, names: backend}
}

// CreateUser creates an account. The (scope, first, last) pair must not
// already exist; the principal ID is assigned here. The zero ServiceURLs
// value carries the four well-known endpoints, all empty.
func (s *Service) CreateUser(ctx context.Context, firstName, lastName, email string, scopeID uuid.UUID, userFlags, userLevel int, userTitle string, urls account.ServiceURLs) (*account.Account, error) {
	if firstName == "" || lastName == "" {
		return nil, ErrInvalidName
	}

	existing, err := s.accounts.GetByName(ctx, scopeID, firstName, lastName)
	if err != nil {
		return nil, fmt.Errorf("check existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyExists
	}

	acc := account.New(scopeID, firstName, lastName, email)
	acc.UserFlags = userFlags
	acc.UserLevel = userLevel
	acc.UserTitle = userTitle
	acc.ServiceURLs = urls

	if err := s.accounts.Put(ctx, acc); err != nil {
		return nil, fmt.Errorf("store account: %w", err)
	}

	slog.Info("created user", "principal_id", acc.PrincipalID, "first_name", firstName, "last_name", lastName)
	return acc, nil
}

// UpdateUser replaces every mutable field of an existing account. The
// account must already exist by principal ID; this is a full replace,
// not a partial patch.
func (s *Service) UpdateUser(ctx context.Context, principalID uuid.UUID, firstName, lastName, email string, scopeID uuid.UUID, userFlags, userLevel int, userTitle string, urls account.ServiceURLs) (*account.Account, error) {
	if firstName == "" || lastName == "" {
		return nil, ErrInvalidName
	}

	acc, err := s.accounts.GetByID(ctx, scopeID, principalID)
	if err != nil {
		return nil, fmt.Errorf("look up account: %w", err)
	}
	if acc == nil {
		return nil, ErrNotFound
	}

	acc.FirstName = firstName
	acc.LastName = lastName
	acc.Email = email
	acc.ScopeID = scopeID
	acc.UserFlags = userFlags
	acc.UserLevel = userLevel
	acc.UserTitle = userTitle
	acc.ServiceURLs = urls

	if err := s.accounts.Put(ctx, acc); err != nil {
		return nil, fmt.Errorf("store account: %w", err)
	}

	slog.Info("updated user", "principal_id", principalID, "first_name", firstName, "last_name", lastName)
	return acc, nil
}

// GetUserByName looks up an account by its first/last name pair.
// Returns (nil, nil) when no account matches.
func (s *Service) GetUserByName(ctx context.Context, firstName, lastName string, scopeID uuid.UUID) (*account.Account, error) {
	return s.accounts.GetByName(ctx, scopeID, firstName, lastName)
}

// GetUserByEmail looks up an account by email address.
func (s *Service) GetUserByEmail(ctx context.Context, email string, scopeID uuid.UUID) (*account.Account, error) {
	return s.accounts.GetByEmail(ctx, scopeID, email)
}

// GetUserByID looks up an account by principal ID.
func (s *Service) GetUserByID(ctx context.Context, principalID, scopeID uuid.UUID) (*account.Account, error) {
	return s.accounts.GetByID(ctx, scopeID, principalID)
}

// GetUsersByQuery returns accounts matching a free-text query. An empty
// result is not an error at this layer.
func (s *Service) GetUsersByQuery(ctx context.Context, query string, scopeID uuid.UUID) ([]*account.Account, error) {
	return s.accounts.Search(ctx, scopeID, query)
}

// StoreName stores a legacy demo name record.
func (s *Service) StoreName(ctx context.Context, n *account.Name) error {
	return s.names.StoreName(ctx, n)
}

// ListNames lists all legacy demo name records.
func (s *Service) ListNames(ctx context.Context) ([]account.Name, error) {
	return s.names.ListNames(ctx)
}
