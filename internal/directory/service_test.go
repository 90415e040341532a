package directory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluewall/userdir-server/internal/account"
	"github.com/bluewall/userdir-server/internal/store"
)

func newTestService() *Service {
	return NewService(store.NewMemoryStore())
}

func TestCreateUser(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	acc, err := svc.CreateUser(ctx, "Jane", "Doe", "jane@example.com",
		account.GlobalScope, 0, 0, "", account.ServiceURLs{})
	require.NoError(t, err)
	require.NotNil(t, acc)

	assert.NotEqual(t, uuid.Nil, acc.PrincipalID)
	assert.Equal(t, "Jane", acc.FirstName)
	assert.Equal(t, "jane@example.com", acc.Email)
}

func TestCreateUser_AlreadyExists(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "Jane", "Doe", "jane@example.com",
		account.GlobalScope, 0, 0, "", account.ServiceURLs{})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "Jane", "Doe", "other@example.com",
		account.GlobalScope, 0, 0, "", account.ServiceURLs{})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateUser_SameNameDifferentScope(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	scopeA := uuid.New()
	scopeB := uuid.New()

	_, err := svc.CreateUser(ctx, "Jane", "Doe", "jane@example.com",
		scopeA, 0, 0, "", account.ServiceURLs{})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "Jane", "Doe", "jane@example.com",
		scopeB, 0, 0, "", account.ServiceURLs{})
	require.NoError(t, err)
}

func TestCreateUser_EmptyName(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateUser(context.Background(), "", "Doe", "jane@example.com",
		account.GlobalScope, 0, 0, "", account.ServiceURLs{})
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.UpdateUser(context.Background(), uuid.New(), "Jane", "Doe", "jane@example.com",
		account.GlobalScope, 0, 0, "", account.ServiceURLs{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser_FullReplace(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "Jane", "Doe", "jane@example.com",
		account.GlobalScope, 1, 2, "Agent", account.ServiceURLs{Home: "https://home.example.com"})
	require.NoError(t, err)

	// Update replaces every mutable field, including ones left at
	// their zero value in the request.
	updated, err := svc.UpdateUser(ctx, created.PrincipalID, "Janet", "Doe", "janet@example.com",
		account.GlobalScope, 0, 0, "", account.ServiceURLs{})
	require.NoError(t, err)

	found, err := svc.GetUserByID(ctx, created.PrincipalID, account.GlobalScope)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, "Janet", found.FirstName)
	assert.Equal(t, "janet@example.com", found.Email)
	assert.Zero(t, found.UserFlags)
	assert.Zero(t, found.UserLevel)
	assert.Empty(t, found.UserTitle)
	assert.Empty(t, found.ServiceURLs.Home)
	assert.Equal(t, updated.PrincipalID, found.PrincipalID)
}

func TestGetUserByName(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "Jane", "Doe", "jane@example.com",
		account.GlobalScope, 0, 0, "", account.ServiceURLs{})
	require.NoError(t, err)

	found, err := svc.GetUserByName(ctx, "Jane", "Doe", account.GlobalScope)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "jane@example.com", found.Email)

	missing, err := svc.GetUserByName(ctx, "John", "Doe", account.GlobalScope)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetUserByEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "Jane", "Doe", "jane@example.com",
		account.GlobalScope, 0, 0, "", account.ServiceURLs{})
	require.NoError(t, err)

	found, err := svc.GetUserByEmail(ctx, "jane@example.com", account.GlobalScope)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.PrincipalID, found.PrincipalID)
}

func TestGetUsersByQuery(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "Jane", "Doe", "jane@example.com",
		account.GlobalScope, 0, 0, "", account.ServiceURLs{})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "John", "Doe", "john@example.com",
		account.GlobalScope, 0, 0, "", account.ServiceURLs{})
	require.NoError(t, err)

	matches, err := svc.GetUsersByQuery(ctx, "doe", account.GlobalScope)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	// No matches is an empty slice at this layer, not an error.
	matches, err = svc.GetUsersByQuery(ctx, "nobody", account.GlobalScope)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStoreAndListNames(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.StoreName(ctx, &account.Name{FirstName: "Jane", LastName: "Doe", Food: "pizza"}))

	names, err := svc.ListNames(ctx)
	require.NoError(t, err)
	require.Len(t, names, 1)
	assert.Equal(t, "pizza", names[0].Food)
}
