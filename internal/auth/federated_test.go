package auth_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/idilsaglam/todocrm/internal/auth"
	"github.com/idilsaglam/todocrm/internal/config"
)

type signInResult struct {
	sess auth.Session
	err  error
}

// startSignIn runs p.SignIn in the background and returns the printed
// authorization URL.
func startSignIn(t *testing.T, p *auth.Provider) (*url.URL, <-chan signInResult) {
	t.Helper()
	pr, pw := io.Pipe()
	done := make(chan signInResult, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	go func() {
		sess, err := p.SignIn(ctx, pw)
		pw.Close()
		done <- signInResult{sess, err}
	}()

	sc := bufio.NewScanner(pr)
	require.True(t, sc.Scan())
	assert.Equal(t, "Open this URL in your browser:", sc.Text())
	require.True(t, sc.Scan())
	u, err := url.Parse(sc.Text())
	require.NoError(t, err)
	go io.Copy(io.Discard, pr)
	return u, done
}

func tokenServer(t *testing.T, extra map[string]any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.NotEmpty(t, r.PostForm.Get("code_verifier"))

		body := map[string]any{
			"access_token":  "access",
			"token_type":    "Bearer",
			"refresh_token": "refresh",
			"expires_in":    3600,
		}
		for k, v := range extra {
			body[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}))
}

func callback(t *testing.T, authURL *url.URL, code, state string) int {
	t.Helper()
	redirect := authURL.Query().Get("redirect_uri")
	require.NotEmpty(t, redirect)
	resp, err := http.Get(redirect + "?code=" + url.QueryEscape(code) + "&state=" + url.QueryEscape(state))
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestGoogleSignInReadsIDToken(t *testing.T) {
	idToken := signed(t, jwt.MapClaims{
		"sub":     "google-1",
		"email":   "ada@example.com",
		"name":    "Ada",
		"picture": "https://example.com/p.png",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	srv := tokenServer(t, map[string]any{"id_token": idToken})
	defer srv.Close()

	p := auth.Google(config.OAuthClient{ClientID: "cid", ClientSecret: "secret"})
	p.OAuth.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	p.StartPort = 0

	authURL, done := startSignIn(t, p)
	q := authURL.Query()
	assert.Equal(t, "cid", q.Get("client_id"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "offline", q.Get("access_type"))

	assert.Equal(t, http.StatusOK, callback(t, authURL, "the-code", q.Get("state")))

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "google", res.sess.Provider)
	assert.Equal(t, "google-1", res.sess.UserID)
	assert.Equal(t, "Ada", res.sess.DisplayName)
	assert.Equal(t, "https://example.com/p.png", res.sess.PhotoURL)
	assert.Equal(t, idToken, res.sess.IDToken)
	assert.Equal(t, "refresh", res.sess.RefreshToken)
	assert.NotNil(t, res.sess.ExpiresAt)
}

func TestGitHubSignInFetchesUser(t *testing.T) {
	user := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		io.WriteString(w, `{"id":42,"login":"octocat","name":"","email":"octo@example.com","avatar_url":"https://a/42"}`)
	}))
	defer user.Close()
	srv := tokenServer(t, nil)
	defer srv.Close()

	p := auth.GitHub(config.OAuthClient{ClientID: "cid", ClientSecret: "secret"})
	p.OAuth.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	p.StartPort = 0
	p.UserURL = user.URL + "/user"

	authURL, done := startSignIn(t, p)
	callback(t, authURL, "the-code", authURL.Query().Get("state"))

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "github", res.sess.Provider)
	assert.Equal(t, "42", res.sess.UserID)
	assert.Equal(t, "octocat", res.sess.DisplayName)
	assert.Equal(t, "octo@example.com", res.sess.Email)
}

func TestSignInRejectsStateMismatch(t *testing.T) {
	srv := tokenServer(t, nil)
	defer srv.Close()

	p := auth.Google(config.OAuthClient{ClientID: "cid"})
	p.OAuth.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"}
	p.StartPort = 0

	authURL, done := startSignIn(t, p)
	assert.Equal(t, http.StatusBadRequest, callback(t, authURL, "the-code", "forged"))

	res := <-done
	assert.ErrorContains(t, res.err, "state mismatch")
}

func TestProviderByName(t *testing.T) {
	cfg := config.Auth{Google: config.OAuthClient{ClientID: "g"}}

	p, err := auth.ProviderByName("google", cfg)
	require.NoError(t, err)
	assert.Equal(t, "google", p.Name)

	_, err = auth.ProviderByName("github", cfg)
	assert.ErrorIs(t, err, auth.ErrNotConfigured)

	_, err = auth.ProviderByName("myspace", cfg)
	assert.Error(t, err)

	apple, err := auth.ProviderByName("apple", config.Auth{Apple: config.OAuthClient{ClientID: "a"}})
	require.NoError(t, err)
	assert.Contains(t, apple.OAuth.AuthCodeURL("s", apple.Extra...), "response_mode=form_post")
}
