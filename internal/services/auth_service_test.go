package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myfood/myfood-backend/internal/auth"
	"github.com/myfood/myfood-backend/internal/core"
	"github.com/myfood/myfood-backend/internal/domain"
	"github.com/myfood/myfood-backend/internal/services"
	"github.com/myfood/myfood-backend/internal/storage"
)

func registration(email string) domain.Registration {
	return domain.Registration{
		Email:           email,
		Password:        "secret",
		ConfirmPassword: "secret",
		Name:            "Ana",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := setup(t)
	svc := services.NewAuthService(f.users, auth.NewSession())
	ctx := context.Background()

	user, err := svc.Register(ctx, registration(" A@B.com "))
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", user.Email)
	assert.NotEqual(t, "secret", user.Password, "only the hash is stored")
	assert.Equal(t, user.ID, svc.Session().Get().ID, "registering signs in")

	svc.Logout()
	assert.Nil(t, svc.Session().Get())

	t.Run("correct password", func(t *testing.T) {
		got, err := svc.Login(ctx, "a@b.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.ID, svc.Session().Get().ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "a@b.com", "wrong")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@b.com", "secret")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}

func TestRegister_DuplicateEmailKeepsOneRow(t *testing.T) {
	f := setup(t)
	svc := services.NewAuthService(f.users, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, registration("a@b.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registration("A@b.com"))
	assert.ErrorIs(t, err, services.ErrUserExists)

	count, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegister_Validation(t *testing.T) {
	f := setup(t)
	svc := services.NewAuthService(f.users, nil)

	mismatch := registration("a@b.com")
	mismatch.ConfirmPassword = "other"
	noName := registration("a@b.com")
	noName.Name = "  "

	for name, reg := range map[string]domain.Registration{
		"password mismatch": mismatch,
		"blank name":        noName,
		"bad email":         registration("not-an-email"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), reg)
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}
}

func TestUpdateUser(t *testing.T) {
	f := setup(t)
	svc := services.NewAuthService(f.users, auth.NewSession())
	ctx := context.Background()

	bruno, err := svc.Register(ctx, registration("bruno@b.com"))
	require.NoError(t, err)
	ana, err := svc.Register(ctx, registration("ana@b.com"))
	require.NoError(t, err)

	t.Run("email taken by another user", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, ana.ID, domain.UserPatch{Email: ptr("bruno@b.com")})
		assert.ErrorIs(t, err, services.ErrEmailInUse)
	})

	t.Run("keeping own email is fine", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, ana.ID, domain.UserPatch{Email: ptr("ANA@b.com"), Weight: ptr(61.0)})
		require.NoError(t, err)
	})

	t.Run("session follows the current user", func(t *testing.T) {
		updated, err := svc.UpdateUser(ctx, ana.ID, domain.UserPatch{Name: ptr("Ana Maria")})
		require.NoError(t, err)
		assert.Equal(t, "Ana Maria", updated.Name)
		assert.Equal(t, "Ana Maria", svc.Session().Get().Name)

		_, err = svc.UpdateUser(ctx, bruno.ID, domain.UserPatch{Name: ptr("Bruno B")})
		require.NoError(t, err)
		assert.Equal(t, ana.ID, svc.Session().Get().ID, "updating someone else leaves the session alone")
	})

	t.Run("new password is hashed", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, ana.ID, domain.UserPatch{Password: ptr("n3w")})
		require.NoError(t, err)

		_, err = svc.Login(ctx, "ana@b.com", "secret")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		_, err = svc.Login(ctx, "ana@b.com", "n3w")
		assert.NoError(t, err)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, 9999, domain.UserPatch{Name: ptr("x")})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestGetCurrentUser(t *testing.T) {
	f := setup(t)
	svc := services.NewAuthService(f.users, auth.NewSession())
	ctx := context.Background()

	_, err := svc.GetCurrentUser(ctx)
	assert.ErrorIs(t, err, services.ErrNoCurrentUser)

	first, err := svc.Register(ctx, registration("first@b.com"))
	require.NoError(t, err)
	second, err := svc.Register(ctx, registration("second@b.com"))
	require.NoError(t, err)

	current, err := svc.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID, "the session wins")

	svc.Logout()
	current, err = svc.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID, "falls back to the first account")

	got, err := svc.GetUser(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "second@b.com", got.Email)

	_, err = svc.GetUser(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
