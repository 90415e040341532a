package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bluewall/userdir-server/internal/account"
)

// AccountStore defines the interface for persistent account storage.
// Lookups return (nil, nil) when no record matches. Accounts stored in
// the global scope are visible to lookups in any scope.
type AccountStore interface {
	// GetByID looks up an account by principal ID.
	GetByID(ctx context.Context, scopeID, principalID uuid.UUID) (*account.Account, error)
	// GetByName looks up an account by its first/last name pair.
	GetByName(ctx context.Context, scopeID uuid.UUID, firstName, lastName string) (*account.Account, error)
	// GetByEmail looks up an account by email address.
	GetByEmail(ctx context.Context, scopeID uuid.UUID, email string) (*account.Account, error)
	// Search returns accounts whose name or email contains the query text.
	Search(ctx context.Context, scopeID uuid.UUID, query string) ([]*account.Account, error)
	// Put upserts an account keyed by principal ID.
	Put(ctx context.Context, acc *account.Account) error
}

// NameStore is the legacy demo capability. Records have no identity
// key; StoreName overwrites on a repeated (first, last) pair.
type NameStore interface {
	// StoreName upserts a legacy name record.
	StoreName(ctx context.Context, n *account.Name) error
	// ListNames returns all legacy name records.
	ListNames(ctx context.Context) ([]account.Name, error)
}

// Backend is what a registered storage implementation provides.
type Backend interface {
	AccountStore
	NameStore
	// Close releases storage resources.
	Close() error
}

// Factory constructs a backend from a connection string and a realm
// (table-namespace) qualifier.
type Factory func(ctx context.Context, connString, realm string) (Backend, error)

var backends = map[string]Factory{
	"postgres": openPostgres,
	"memory":   openMemory,
}

// Open resolves a backend by its configured name and constructs it.
// Unknown names are a startup error; callers must not serve requests
// without a working backend.
func Open(ctx context.Context, name, connString, realm string) (Backend, error) {
	factory, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown storage backend %q", name)
	}
	backend, err := factory(ctx, connString, realm)
	if err != nil {
		return nil, fmt.Errorf("open storage backend %q: %w", name, err)
	}
	return backend, nil
}
