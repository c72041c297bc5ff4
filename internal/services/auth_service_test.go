package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"comanda/internal/apperr"
	"comanda/internal/domain"
	"comanda/internal/repos"
	"comanda/internal/services"
)

const seededPassword = "Passw0rd!"

func newAuthService(t *testing.T) *services.AuthService {
	t.Helper()
	e := newEnv(t)
	return services.NewAuthService(repos.NewUserRepo(e.db), "test-secret")
}

func TestLoginAndVerify(t *testing.T) {
	svc := newAuthService(t)

	tok, u, err := svc.Login("marta", seededPassword)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.Equal(t, domain.RoleWaiter, u.Role)

	back, err := svc.VerifyToken(tok)
	require.NoError(t, err)
	require.Equal(t, u.ID, back.ID)
	require.Equal(t, u.Username, back.Username)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newAuthService(t)

	_, _, err := svc.Login("marta", "wrong")
	require.ErrorIs(t, err, services.ErrBadCreds)

	_, _, err = svc.Login("nobody", seededPassword)
	require.ErrorIs(t, err, services.ErrBadCreds)
}

func TestVerifyToken_Garbage(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.VerifyToken("not.a.token")
	require.Error(t, err)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	e := newEnv(t)
	users := repos.NewUserRepo(e.db)
	issuer := services.NewAuthService(users, "secret-a")
	verifier := services.NewAuthService(users, "secret-b")

	tok, _, err := issuer.Login("marta", seededPassword)
	require.NoError(t, err)

	_, err = verifier.VerifyToken(tok)
	require.Error(t, err)
}

func TestCreateUser(t *testing.T) {
	svc := newAuthService(t)

	u, err := svc.CreateUser(services.UserInput{
		Username: "paula", Name: "Paula", Password: "s3cretpass", Role: domain.RoleWaiter,
	})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)

	tok, _, err := svc.Login("paula", "s3cretpass")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
}

func TestCreateUser_Validation(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.CreateUser(services.UserInput{Username: "", Password: "x12345678", Role: domain.RoleWaiter})
	require.True(t, apperr.IsInvalid(err))

	_, err = svc.CreateUser(services.UserInput{Username: "paula", Password: "", Role: domain.RoleWaiter})
	require.True(t, apperr.IsInvalid(err))

	_, err = svc.CreateUser(services.UserInput{Username: "paula", Password: "x12345678", Role: "CHEF"})
	require.True(t, apperr.IsInvalid(err))

	// seeded username
	_, err = svc.CreateUser(services.UserInput{Username: "marta", Password: "x12345678", Role: domain.RoleWaiter})
	require.True(t, apperr.IsConflict(err))
}

func TestUpdateUser(t *testing.T) {
	svc := newAuthService(t)

	u, err := svc.CreateUser(services.UserInput{
		Username: "paula", Name: "Paula", Password: "s3cretpass", Role: domain.RoleWaiter,
	})
	require.NoError(t, err)

	// promote without touching the password
	up, err := svc.UpdateUser(u.ID, services.UpdateUserInput{Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, up.Role)
	_, _, err = svc.Login("paula", "s3cretpass")
	require.NoError(t, err)

	// password reset: old one stops working, role is kept
	up, err = svc.UpdateUser(u.ID, services.UpdateUserInput{Password: "n3w-secret"})
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, up.Role)
	_, _, err = svc.Login("paula", "s3cretpass")
	require.ErrorIs(t, err, services.ErrBadCreds)
	_, logged, err := svc.Login("paula", "n3w-secret")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, logged.Role)
}

func TestUpdateUser_Validation(t *testing.T) {
	svc := newAuthService(t)

	u, err := svc.CreateUser(services.UserInput{
		Username: "paula", Name: "Paula", Password: "s3cretpass", Role: domain.RoleWaiter,
	})
	require.NoError(t, err)

	_, err = svc.UpdateUser(u.ID, services.UpdateUserInput{})
	require.True(t, apperr.IsInvalid(err))

	_, err = svc.UpdateUser(u.ID, services.UpdateUserInput{Role: "CHEF"})
	require.True(t, apperr.IsInvalid(err))

	_, err = svc.UpdateUser("missing", services.UpdateUserInput{Role: domain.RoleAdmin})
	require.True(t, apperr.IsNotFound(err))
}

func TestDeleteUser(t *testing.T) {
	svc := newAuthService(t)

	u, err := svc.CreateUser(services.UserInput{
		Username: "paula", Name: "Paula", Password: "s3cretpass", Role: domain.RoleWaiter,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(u.ID))

	_, _, err = svc.Login("paula", "s3cretpass")
	require.ErrorIs(t, err, services.ErrBadCreds)
}
