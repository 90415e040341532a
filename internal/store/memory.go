package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bluewall/userdir-server/internal/account"
)

// MemoryStore implements Backend with in-process maps. Used for
// development and tests; contents are lost on shutdown.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*account.Account
	names    map[string]account.Name
}

func openMemory(_ context.Context, _, _ string) (Backend, error) {
	return NewMemoryStore(), nil
}

// NewMemoryStore creates an empty in-memory backend.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[uuid.UUID]*account.Account),
		names:    make(map[string]account.Name),
	}
}

func scopeMatches(acc *account.Account, scopeID uuid.UUID) bool {
	return acc.ScopeID == scopeID || acc.ScopeID == account.GlobalScope
}

// GetByID looks up an account by principal ID.
func (m *MemoryStore) GetByID(_ context.Context, scopeID, principalID uuid.UUID) (*account.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[principalID]
	if !ok || !scopeMatches(acc, scopeID) {
		return nil, nil
	}
	return copyAccount(acc), nil
}

// GetByName looks up an account by its first/last name pair.
func (m *MemoryStore) GetByName(_ context.Context, scopeID uuid.UUID, firstName, lastName string) (*account.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, acc := range m.accounts {
		if acc.FirstName == firstName && acc.LastName == lastName && scopeMatches(acc, scopeID) {
			return copyAccount(acc), nil
		}
	}
	return nil, nil
}

// GetByEmail looks up an account by email address.
func (m *MemoryStore) GetByEmail(_ context.Context, scopeID uuid.UUID, email string) (*account.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, acc := range m.accounts {
		if acc.Email == email && scopeMatches(acc, scopeID) {
			return copyAccount(acc), nil
		}
	}
	return nil, nil
}

// Search returns accounts whose name or email contains the query text.
func (m *MemoryStore) Search(_ context.Context, scopeID uuid.UUID, query string) ([]*account.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query = strings.ToLower(query)
	var matches []*account.Account
	for _, acc := range m.accounts {
		if !scopeMatches(acc, scopeID) {
			continue
		}
		if strings.Contains(strings.ToLower(acc.FirstName), query) ||
			strings.Contains(strings.ToLower(acc.LastName), query) ||
			strings.Contains(strings.ToLower(acc.Email), query) {
			matches = append(matches, copyAccount(acc))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].LastName != matches[j].LastName {
			return matches[i].LastName < matches[j].LastName
		}
		return matches[i].FirstName < matches[j].FirstName
	})
	return matches, nil
}

// Put upserts an account keyed by principal ID.
func (m *MemoryStore) Put(_ context.Context, acc *account.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts[acc.PrincipalID] = copyAccount(acc)
	return nil
}

// StoreName upserts a legacy name record.
func (m *MemoryStore) StoreName(_ context.Context, n *account.Name) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.names[n.FirstName+" "+n.LastName] = *n
	return nil
}

// ListNames returns all legacy name records.
func (m *MemoryStore) ListNames(_ context.Context) ([]account.Name, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]account.Name, 0, len(m.names))
	for _, n := range m.names {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		if names[i].LastName != names[j].LastName {
			return names[i].LastName < names[j].LastName
		}
		return names[i].FirstName < names[j].FirstName
	})
	return names, nil
}

// Close releases storage resources.
func (m *MemoryStore) Close() error {
	return nil
}

func copyAccount(acc *account.Account) *account.Account {
	dup := *acc
	return &dup
}
