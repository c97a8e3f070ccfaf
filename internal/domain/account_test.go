package domain_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/ranfdev/mascotas/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var testAdmin = domain.AdminCredential{Username: "admin", Password: "1234"}

func newAccounts() (*domain.AccountService, *memUsers) {
	users := &memUsers{}
	return domain.NewAccountService(users, testAdmin, bcrypt.MinCost), users
}

func TestRegister(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	accounts, users := newAccounts()

	user, err := accounts.Register(ctx, "pippo", "segreto")
	require.Nil(err)
	require.NotZero(user.ID)
	require.Equal(domain.RoleUser, user.Role)
	require.NotEqual("segreto", user.PasswdHash)
	require.Nil(bcrypt.CompareHashAndPassword([]byte(users.users[0].PasswdHash), []byte("segreto")))

	_, err = accounts.Register(ctx, "pippo", "altro")
	require.ErrorIs(err, domain.ErrDuplicateUsername)
	require.Len(users.users, 1)
}

func TestRegisterValidation(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	accounts, users := newAccounts()

	var validationErr *domain.ValidationError
	_, err := accounts.Register(ctx, "   ", "segreto")
	require.ErrorAs(err, &validationErr)
	require.Equal("username", validationErr.Field)

	_, err = accounts.Register(ctx, "pippo", "")
	require.ErrorAs(err, &validationErr)
	require.Equal("password", validationErr.Field)

	_, err = accounts.Register(ctx, strings.Repeat("p", 81), "segreto")
	require.ErrorAs(err, &validationErr)
	require.Equal("username", validationErr.Field)

	_, err = accounts.Register(ctx, strings.Repeat("ñ", 80), "segreto")
	require.Nil(err)
	require.Len(users.users, 1)
}

func TestAuthenticate(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	accounts, _ := newAccounts()

	user, err := accounts.Register(ctx, "pippo", "segreto")
	require.Nil(err)

	s, err := accounts.Authenticate(ctx, "pippo", "segreto")
	require.Nil(err)
	require.NotNil(s.UserID)
	require.Equal(user.ID, *s.UserID)
	require.Equal("pippo", s.Username)
	require.False(s.IsAdmin)

	_, err = accounts.Authenticate(ctx, "pippo", "sbagliato")
	require.ErrorIs(err, domain.ErrInvalidCredentials)
	_, err = accounts.Authenticate(ctx, "nessuno", "segreto")
	require.ErrorIs(err, domain.ErrInvalidCredentials)
}

func TestAuthenticateAdmin(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	accounts, _ := newAccounts()

	s, err := accounts.Authenticate(ctx, "admin", "1234")
	require.Nil(err)
	require.True(s.IsAdmin)
	require.Equal(domain.RoleAdmin, s.Role)
	require.Nil(s.UserID)

	_, err = accounts.Authenticate(ctx, "admin", "12345")
	require.ErrorIs(err, domain.ErrInvalidCredentials)

	// An empty credential disables the admin login
	noAdmin := domain.NewAccountService(&memUsers{}, domain.AdminCredential{}, bcrypt.MinCost)
	_, err = noAdmin.Authenticate(ctx, "", "")
	require.ErrorIs(err, domain.ErrInvalidCredentials)
}
