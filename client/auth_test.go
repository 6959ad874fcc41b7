package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/icoltex/storefront/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMe_AdminIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{
			"admin": map[string]any{"email": "ops@icoltex.co", "nombre": "Operaciones"},
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	identity, err := c.Me(context.Background(), "tok-123")
	require.NoError(t, err)

	assert.True(t, identity.IsAdmin())
	assert.False(t, identity.IsUser())
	assert.Equal(t, "ops@icoltex.co", identity.Email())
}

func TestMe_UserIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{
				"id":       "u1",
				"email":    "ana@example.com",
				"nombre":   "Ana",
				"telefono": "+573001234567",
			},
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	identity, err := c.Me(context.Background(), "tok")
	require.NoError(t, err)

	assert.True(t, identity.IsUser())
	assert.False(t, identity.IsAdmin())
	assert.Equal(t, "ana@example.com", identity.Email())
	assert.Equal(t, "Ana", identity.User.FirstName)
}

func TestMe_NeitherPrincipal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	identity, err := c.Me(context.Background(), "tok")
	require.NoError(t, err)

	assert.False(t, identity.IsAdmin())
	assert.False(t, identity.IsUser())
	assert.Equal(t, "", identity.Email())
}

func TestLoginVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login/verify", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])
		assert.Equal(t, "123456", body["code"])

		json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]any{"id": "u1", "email": "ana@example.com"},
			"token": "session-token",
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	result, err := c.LoginVerify(context.Background(), "ana@example.com", "123456")
	require.NoError(t, err)

	assert.Equal(t, "session-token", result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, "u1", result.User.ID)
}

func TestRegisterVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register/verify", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])
		assert.Equal(t, "654321", body["code"])
		assert.Equal(t, "secreto1", body["password"])
		assert.Equal(t, "secreto1", body["confirmPassword"])
		assert.Equal(t, "Ana", body["nombre"])

		json.NewEncoder(w).Encode(map[string]any{"token": "fresh"})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	result, err := c.RegisterVerify(context.Background(), client.RegisterVerifyInput{
		Email:           "ana@example.com",
		Code:            "654321",
		Password:        "secreto1",
		ConfirmPassword: "secreto1",
		FirstName:       "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", result.Token)
}

func TestUpdateProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/auth/profile", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "casa", body["tipoVivienda"])
		assert.Equal(t, false, body["tieneOficina"])

		json.NewEncoder(w).Encode(map[string]any{
			"user":    map[string]any{"id": "u1", "nombre": "Ana María"},
			"message": "Perfil actualizado",
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	account, err := c.UpdateProfile(context.Background(), "tok", client.ProfileUpdate{
		FirstName:   "Ana María",
		HousingType: "casa",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", account.FirstName)
}
