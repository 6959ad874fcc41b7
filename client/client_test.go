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

func TestClient_URLJoining(t *testing.T) {
	c := client.New("http://localhost:3001/")
	assert.Equal(t, "http://localhost:3001/api/auth/me", c.URL("/api/auth/me"))
	assert.Equal(t, "http://localhost:3001/api/products", c.URL("api/products"))
}

func TestClient_SendsJSONAndBearerToken(t *testing.T) {
	var (
		gotAuth        string
		gotContentType string
		gotBody        map[string]string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	err := c.LoginRequest(context.Background(), "ana@example.com", "secreto")
	require.NoError(t, err)

	assert.Equal(t, "", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "ana@example.com", gotBody["email"])
	assert.Equal(t, "secreto", gotBody["password"])
}

func TestClient_ErrorMessageFromErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Credenciales inválidas"}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	err := c.LoginRequest(context.Background(), "ana@example.com", "mal")
	require.Error(t, err)
	assert.Equal(t, "Credenciales inválidas", client.Message(err))
	assert.False(t, client.IsUnauthorized(err))
}

func TestClient_ErrorMessageFromMessageField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"El correo ya está registrado"}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	err := c.RegisterRequest(context.Background(), "ana@example.com")
	require.Error(t, err)
	assert.Equal(t, "El correo ya está registrado", client.Message(err))
}

func TestClient_ErrorMessageFallbackOnGarbageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>nope</html>"))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	err := c.RegisterRequest(context.Background(), "ana@example.com")
	require.Error(t, err)
	assert.Equal(t, "Error 502", client.Message(err))
}

func TestClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"No autorizado"}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.Me(context.Background(), "stale-token")
	require.Error(t, err)
	assert.True(t, client.IsUnauthorized(err))
	assert.Equal(t, "No autorizado", client.Message(err))
}

func TestClient_TransportFailureIsNotUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := client.New(srv.URL)
	_, err := c.Me(context.Background(), "token")
	require.Error(t, err)
	assert.False(t, client.IsUnauthorized(err))
}

func TestClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := client.New(srv.URL)
	_, err := c.Me(ctx, "token")
	require.Error(t, err)
	assert.False(t, client.IsUnauthorized(err))
}
