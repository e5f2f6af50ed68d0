package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopfront-demo/shopfront/internal/models"
)

func registerPayload() map[string]string {
	return map[string]string{
		"firstName": "A",
		"lastName":  "B",
		"email":     "a@b.com",
		"password":  "abcdef",
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/auth/register", registerPayload())
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeJSON[credentialsResponse](t, rec)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "a@b.com", resp.User.Email)
	require.Equal(t, models.RoleCustomer, resp.User.Role)
	require.NotZero(t, resp.User.ID)

	userID, role, err := env.Tokens.Parse(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, userID)
	require.Equal(t, models.RoleCustomer, role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/auth/register", registerPayload())
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	_, c2 := env.doJSONRequest(http.MethodPost, "/auth/register", registerPayload())
	err := env.A.Register(c2)
	requireHTTPError(t, err, http.StatusBadRequest, "Email already exists")
}

func TestRegisterMissingField(t *testing.T) {
	env := newTestEnv(t)

	payload := registerPayload()
	delete(payload, "email")
	_, c := env.doJSONRequest(http.MethodPost, "/auth/register", payload)
	requireHTTPError(t, env.A.Register(c), http.StatusBadRequest, "All fields are required")
}

func TestRegisterShortPassword(t *testing.T) {
	env := newTestEnv(t)

	payload := registerPayload()
	payload["password"] = "abc"
	_, c := env.doJSONRequest(http.MethodPost, "/auth/register", payload)
	requireHTTPError(t, env.A.Register(c), http.StatusBadRequest, "Password must be at least 6 characters")
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/auth/register", registerPayload())
	require.NoError(t, env.A.Register(c))

	rec, c2 := env.doJSONRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    "a@b.com",
		"password": "abcdef",
	})
	require.NoError(t, env.A.Login(c2))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[credentialsResponse](t, rec)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "a@b.com", resp.User.Email)
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/auth/register", registerPayload())
	require.NoError(t, env.A.Register(c))

	_, badPass := env.doJSONRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    "a@b.com",
		"password": "wrong-password",
	})
	requireHTTPError(t, env.A.Login(badPass), http.StatusBadRequest, "Invalid credentials")

	_, badEmail := env.doJSONRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    "nobody@b.com",
		"password": "abcdef",
	})
	requireHTTPError(t, env.A.Login(badEmail), http.StatusBadRequest, "Invalid credentials")
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("me@example.com", models.RoleCustomer)

	rec, c := env.doJSONRequest(http.MethodGet, "/auth/me", nil)
	asUser(c, user)
	require.NoError(t, env.A.Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[models.User](t, rec)
	require.Equal(t, user.ID, resp.ID)
	require.Equal(t, "me@example.com", resp.Email)
}

func TestMeWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/auth/me", nil)
	requireHTTPError(t, env.A.Me(c), http.StatusUnauthorized, "")
}
