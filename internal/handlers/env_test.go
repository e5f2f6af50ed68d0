package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopfront-demo/shopfront/internal/hash"
	"github.com/shopfront-demo/shopfront/internal/models"
	"github.com/shopfront-demo/shopfront/internal/service/token"
	"github.com/shopfront-demo/shopfront/internal/store"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	Store  *store.Store
	Tokens *token.TokenService
	A      *AuthHandler
	P      *ProductHandler
	C      *CartHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.CartItem{}))

	st := store.New(db)
	tokens := &token.TokenService{Secret: []byte("test-secret")}

	env := &testEnv{
		T:      t,
		E:      echo.New(),
		Store:  st,
		Tokens: tokens,
	}
	env.A = &AuthHandler{Store: st, Tokens: tokens}
	env.P = &ProductHandler{Store: st}
	env.C = &CartHandler{Store: st}
	return env
}

func (env *testEnv) seed() {
	require.NoError(env.T, env.Store.Seed(context.Background()))
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createUser(email, role string) *models.User {
	pwhash, err := hash.HashPassword("password123")
	require.NoError(env.T, err)
	user := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: pwhash,
		Role:         role,
	}
	require.NoError(env.T, env.Store.CreateUser(context.Background(), user))
	return user
}

// asUser mimics what the auth gate does after resolving a bearer token.
func asUser(c echo.Context, user *models.User) {
	c.Set("userID", user.ID)
	c.Set("role", user.Role)
}

func requireHTTPError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	require.Equal(t, code, he.Code)
	if message != "" {
		require.Equal(t, message, he.Message)
	}
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
