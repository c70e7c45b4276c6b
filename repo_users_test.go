package identity_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	identity "github.com/goliatone/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersGetByUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := identity.NewUsersRepository(db)
	ctx := context.Background()

	seeded := seedUser(t, db, "goliatone", "secretPassword1")

	user, err := repo.GetByUsername(ctx, "goliatone")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)
	assert.Equal(t, "goliatone", user.Username)
	assert.Equal(t, identity.SystemActor, user.CreatedBy)
	assert.Equal(t, identity.SystemActor, user.LastModifiedBy)
}

func TestUsersGetByUsernameCaseSensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := identity.NewUsersRepository(db)
	ctx := context.Background()

	seedUser(t, db, "Alice", "secretPassword1")

	// exact match only, "alice" is a different account
	_, err := repo.GetByUsername(ctx, "alice")
	require.Error(t, err)
	assert.True(t, goerrors.IsNotFound(err))

	user, err := repo.GetByUsername(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Username)
}

func TestUsersGetByUsernameNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := identity.NewUsersRepository(db)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, goerrors.IsNotFound(err))

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, identity.TextCodeUserNotFound, richErr.TextCode)
}

func TestUsersGetByID(t *testing.T) {
	db := setupTestDB(t)
	repo := identity.NewUsersRepository(db)
	ctx := context.Background()

	seeded := seedUser(t, db, "goliatone", "secretPassword1")

	user, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "goliatone", user.Username)

	_, err = repo.GetByID(ctx, seeded.ID+100)
	require.Error(t, err)
	assert.True(t, goerrors.IsNotFound(err))
}

func TestUsersUsernameExists(t *testing.T) {
	db := setupTestDB(t)
	repo := identity.NewUsersRepository(db)
	ctx := context.Background()

	seedUser(t, db, "goliatone", "secretPassword1")

	exists, err := repo.UsernameExists(ctx, "goliatone")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UsernameExists(ctx, "Goliatone")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUsersCreateDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := identity.NewUsersRepository(db)
	ctx := context.Background()

	seedUser(t, db, "goliatone", "secretPassword1")

	_, err := repo.Create(ctx, &identity.User{
		Username:     "goliatone",
		FirstName:    "Other",
		PasswordHash: identity.RandomPasswordHash(),
		IsActive:     true,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrUsernameTaken)
}
