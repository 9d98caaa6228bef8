package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "sheetr-cli", r.PostForm.Get("client_id"))

		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("username") != "sarah" || r.PostForm.Get("password") != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Write([]byte(`{"access_token":"opaque.token.value","token_type":"bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOAuthExchanger_Success(t *testing.T) {
	srv := tokenServer(t)
	ex := &OAuthExchanger{TokenURL: srv.URL, ClientID: "sheetr-cli", HTTPClient: srv.Client()}

	tok, err := ex.Exchange(context.Background(), "sarah", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "opaque.token.value", tok)
}

func TestOAuthExchanger_Rejected(t *testing.T) {
	srv := tokenServer(t)
	ex := &OAuthExchanger{TokenURL: srv.URL, ClientID: "sheetr-cli"}

	_, err := ex.Exchange(context.Background(), "sarah", "wrong")
	assert.ErrorIs(t, err, ErrRejected)
}

func TestOAuthExchanger_NoEndpoint(t *testing.T) {
	_, err := (&OAuthExchanger{}).Exchange(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestSaveAndLoadToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")

	require.NoError(t, SaveToken(path, "abc"))
	tok, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	_, err = LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
