package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"serwer-kont/internal/account"
	"serwer-kont/internal/auth"

	"github.com/stretchr/testify/require"
)

func passwordLogin(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.PasswordLoginHandler).ServeHTTP(rr, req)
	return rr
}

func seedPasswordUser(t *testing.T, address, password string) {
	t.Helper()
	user, err := testServer.provisioner.ResolveOrCreate(context.Background(), address, "1", account.RequestContext{})
	require.NoError(t, err)

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, testServer.store.UpdateUserPassword(context.Background(), user.ID, hash))
}

func TestPasswordLogin_Success(t *testing.T) {
	seedPasswordUser(t, "0xPass111", "correct horse")

	rr := passwordLogin(t, `{"username":"0xpass111","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "0xpass111", resp.User.Username)

	claims, err := auth.VerifySessionToken(resp.Token, testServer.config.JWT.Secret)
	require.NoError(t, err)
	require.Equal(t, auth.CredentialPassword, claims.Credential)
}

func TestPasswordLogin_WrongPassword(t *testing.T) {
	seedPasswordUser(t, "0xPass222", "right")

	rr := passwordLogin(t, `{"username":"0xpass222","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "invalid_credentials", resp.Error.Code)
}

func TestPasswordLogin_UnknownUser(t *testing.T) {
	rr := passwordLogin(t, `{"username":"nobody-here","password":"whatever"}`)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPasswordLogin_WalletOnlyAccountRejected(t *testing.T) {
	// Accounts provisioned through the wallet flow carry no password hash.
	_, err := testServer.provisioner.ResolveOrCreate(context.Background(), "0xPass333", "1", account.RequestContext{})
	require.NoError(t, err)

	rr := passwordLogin(t, `{"username":"0xpass333","password":""}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = passwordLogin(t, `{"username":"0xpass333","password":"anything"}`)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestPasswordLogin_MissingFields(t *testing.T) {
	rr := passwordLogin(t, `{"password":"x"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "field_missing", resp.Error.Code)
	require.Equal(t, "username", resp.Error.Key)
}
