package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifyd/internal/app/registry"
	"notifyd/internal/configs"
)

func authTestHandler(t *testing.T, reg *registry.Registry, called *bool) http.Handler {
	t.Helper()

	return RequireAuth(reg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true

		caller := CallerFromContext(r.Context())
		require.NotNil(t, caller)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestRequireAuth_ValidCredentials(t *testing.T) {
	reg := registry.New(&configs.AppConfig{MailboxCapacity: 4})
	identity, cerr := reg.Register("alice")
	require.Nil(t, cerr)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(HeaderUserID, identity.ID)
	req.Header.Set(HeaderUserToken, identity.Token)
	rec := httptest.NewRecorder()

	called := false
	authTestHandler(t, reg, &called).ServeHTTP(rec, req)

	assert.True(t, called, "next handler not reached")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_MissingMetadata(t *testing.T) {
	reg := registry.New(&configs.AppConfig{MailboxCapacity: 4})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	called := false
	authTestHandler(t, reg, &called).ServeHTTP(rec, req)

	assert.False(t, called, "handler must not run without credentials")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_MalformedMetadata(t *testing.T) {
	reg := registry.New(&configs.AppConfig{MailboxCapacity: 4})
	identity, cerr := reg.Register("alice")
	require.Nil(t, cerr)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(HeaderUserID, identity.ID)
	req.Header[http.CanonicalHeaderKey(HeaderUserToken)] = []string{"caf\xc3\xa9"}
	rec := httptest.NewRecorder()

	called := false
	authTestHandler(t, reg, &called).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	reg := registry.New(&configs.AppConfig{MailboxCapacity: 4})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(HeaderUserID, "ghost")
	req.Header.Set(HeaderUserToken, "some-token")
	rec := httptest.NewRecorder()

	called := false
	authTestHandler(t, reg, &called).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
