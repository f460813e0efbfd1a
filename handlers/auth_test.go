package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kitabghar/models"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, 16<<20)

	rec := env.doJSON(http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: testPassword, Role: "author",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var reg AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "author", reg.Role)

	rec = env.doJSON(http.MethodPost, "/api/auth/login", "", LoginRequest{Username: "alice", Password: testPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	var login AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	assert.NotEmpty(t, login.Token)

	// The stored credential is a hash, never the password.
	u, ok := env.store.UserByName("alice")
	require.True(t, ok)
	assert.NotEqual(t, testPassword, u.PasswordHash)
	assert.NotContains(t, u.PasswordHash, testPassword)
}

func TestLoginFailureIsUniform(t *testing.T) {
	env := newTestEnv(t, 16<<20)
	env.newUser("alice", models.RoleReader)

	wrongPass := env.doJSON(http.MethodPost, "/api/auth/login", "", LoginRequest{Username: "alice", Password: "wrong-password"})
	unknownUser := env.doJSON(http.MethodPost, "/api/auth/login", "", LoginRequest{Username: "nobody", Password: testPassword})

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	// No detail leak about which field was wrong.
	assert.Equal(t, unknownUser.Body.String(), wrongPass.Body.String())
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t, 16<<20)
	env.newUser("taken", models.RoleReader)

	tests := []struct {
		name     string
		req      RegisterRequest
		wantCode int
	}{
		{"short username", RegisterRequest{Username: "ab", Password: testPassword}, http.StatusBadRequest},
		{"short password", RegisterRequest{Username: "alice", Password: "hunter2"}, http.StatusBadRequest},
		{"admin role refused", RegisterRequest{Username: "alice", Password: testPassword, Role: "admin"}, http.StatusBadRequest},
		{"unknown role", RegisterRequest{Username: "alice", Password: testPassword, Role: "wizard"}, http.StatusBadRequest},
		{"duplicate username", RegisterRequest{Username: "taken", Password: testPassword}, http.StatusConflict},
		{"default role is reader", RegisterRequest{Username: "bob", Password: testPassword}, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.doJSON(http.MethodPost, "/api/auth/register", "", tt.req)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}

	bob, ok := env.store.UserByName("bob")
	require.True(t, ok)
	assert.Equal(t, models.RoleReader, bob.Role)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t, 16<<20)
	_, token := env.newUser("alice", models.RoleReader)

	rec := env.do(http.MethodGet, "/api/books", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/api/auth/logout", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/books", token, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
