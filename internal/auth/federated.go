package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/idilsaglam/todocrm/internal/config"
)

const (
	// OAuth callback timeout
	callbackTimeout = 5 * time.Minute

	// Token exchange timeout
	exchangeTimeout = 30 * time.Second

	// Starting port for the OAuth callback server
	callbackStartPort = 8085

	// Max port attempts
	callbackMaxPortAttempts = 5

	githubUserURL = "https://api.github.com/user"
)

var appleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://appleid.apple.com/auth/authorize",
	TokenURL: "https://appleid.apple.com/auth/token",
}

var ErrNotConfigured = errors.New("provider is not configured")

// Provider is one federated sign-in option.
type Provider struct {
	Name   string
	OAuth  *oauth2.Config
	Extra  []oauth2.AuthCodeOption
	Client *http.Client

	// StartPort is the first loopback port tried for the callback; 0 asks
	// the OS for any free port.
	StartPort int

	// UserURL is only used by providers without an ID token (GitHub).
	UserURL string

	identity func(ctx context.Context, p *Provider, tok *oauth2.Token) (Session, error)
}

func Google(c config.OAuthClient) *Provider {
	return &Provider{
		Name: "google",
		OAuth: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		Extra:     []oauth2.AuthCodeOption{oauth2.AccessTypeOffline},
		StartPort: callbackStartPort,
		identity:  idTokenIdentity,
	}
}

func Apple(c config.OAuthClient) *Provider {
	return &Provider{
		Name: "apple",
		OAuth: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			Endpoint:     appleEndpoint,
			Scopes:       []string{"name", "email"},
		},
		// Apple posts the code back when name/email scopes are requested.
		Extra:     []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("response_mode", "form_post")},
		StartPort: callbackStartPort,
		identity:  idTokenIdentity,
	}
}

func GitHub(c config.OAuthClient) *Provider {
	return &Provider{
		Name: "github",
		OAuth: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			Endpoint:     github.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		StartPort: callbackStartPort,
		UserURL:   githubUserURL,
		identity:  githubIdentity,
	}
}

// ProviderByName returns the configured provider for google, apple or github.
func ProviderByName(name string, cfg config.Auth) (*Provider, error) {
	var p *Provider
	switch name {
	case "google":
		p = Google(cfg.Google)
	case "apple":
		p = Apple(cfg.Apple)
	case "github":
		p = GitHub(cfg.GitHub)
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	if p.OAuth.ClientID == "" {
		return nil, fmt.Errorf("%s: %w", name, ErrNotConfigured)
	}
	return p, nil
}

// SignIn runs the authorization-code flow with PKCE against a loopback
// callback. The URL to open is written to out.
func (p *Provider) SignIn(ctx context.Context, out io.Writer) (Session, error) {
	listener, port, err := p.listen()
	if err != nil {
		return Session{}, err
	}
	defer listener.Close()

	oauthCfg := *p.OAuth
	oauthCfg.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)

	verifier := oauth2.GenerateVerifier()
	state := uuid.NewString()
	opts := append([]oauth2.AuthCodeOption{oauth2.S256ChallengeOption(verifier)}, p.Extra...)
	authURL := oauthCfg.AuthCodeURL(state, opts...)

	fmt.Fprintln(out, "Open this URL in your browser:")
	fmt.Fprintln(out, authURL)

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		// FormValue covers both query-string and form_post callbacks.
		if r.FormValue("state") != state {
			http.Error(w, "State mismatch", http.StatusBadRequest)
			sendErr(errCh, errors.New("oauth state mismatch"))
			return
		}
		if e := r.FormValue("error"); e != "" {
			http.Error(w, e, http.StatusBadRequest)
			sendErr(errCh, fmt.Errorf("provider error: %s", e))
			return
		}
		code := r.FormValue("code")
		if code == "" {
			http.Error(w, "No code in callback", http.StatusBadRequest)
			sendErr(errCh, errors.New("no code in callback"))
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><h1>Authentication successful</h1><p>You may close this window.</p></body></html>")
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{Handler: mux}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			sendErr(errCh, err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return Session{}, err
	case <-time.After(callbackTimeout):
		return Session{}, errors.New("oauth callback timed out")
	case <-ctx.Done():
		return Session{}, ctx.Err()
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()
	if p.Client != nil {
		exchangeCtx = context.WithValue(exchangeCtx, oauth2.HTTPClient, p.Client)
	}

	tok, err := oauthCfg.Exchange(exchangeCtx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return Session{}, fmt.Errorf("exchange code for token: %w", err)
	}

	sess, err := p.identity(exchangeCtx, p, tok)
	if err != nil {
		return Session{}, err
	}
	sess.Provider = p.Name
	sess.RefreshToken = tok.RefreshToken
	sess.CreatedAt = time.Now()
	if sess.ExpiresAt == nil && !tok.Expiry.IsZero() {
		exp := tok.Expiry
		sess.ExpiresAt = &exp
	}
	return sess, nil
}

func sendErr(ch chan error, err error) {
	select {
	case ch <- err:
	default:
	}
}

// listen binds the callback port, trying StartPort and the next few.
func (p *Provider) listen() (net.Listener, int, error) {
	if p.StartPort == 0 {
		l, err := net.Listen("tcp", "localhost:0")
		if err != nil {
			return nil, 0, fmt.Errorf("could not bind to local port for OAuth callback: %w", err)
		}
		return l, l.Addr().(*net.TCPAddr).Port, nil
	}
	for i := 0; i < callbackMaxPortAttempts; i++ {
		port := p.StartPort + i
		l, err := net.Listen("tcp", "localhost:"+strconv.Itoa(port))
		if err == nil {
			return l, port, nil
		}
	}
	return nil, 0, fmt.Errorf("no available port found")
}

func idTokenIdentity(_ context.Context, _ *Provider, tok *oauth2.Token) (Session, error) {
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return Session{}, errors.New("token response has no id_token")
	}
	claims, err := ParseClaims(raw)
	if err != nil {
		return Session{}, err
	}
	sess := Session{IDToken: raw}
	claims.apply(&sess)
	return sess, nil
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func githubIdentity(ctx context.Context, p *Provider, tok *oauth2.Token) (Session, error) {
	client := p.OAuth.Client(ctx, tok)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserURL, nil)
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("github user: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Session{}, fmt.Errorf("github user: %s", resp.Status)
	}

	var u githubUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return Session{}, fmt.Errorf("decode github user: %w", err)
	}
	name := u.Name
	if name == "" {
		name = u.Login
	}
	return Session{
		UserID:      strconv.FormatInt(u.ID, 10),
		Email:       u.Email,
		DisplayName: name,
		PhotoURL:    u.AvatarURL,
	}, nil
}

// FederatedSignIn returns a sign-in func that resolves providers from cfg.
func FederatedSignIn(cfg config.Auth) func(ctx context.Context, provider string, out io.Writer) (Session, error) {
	return func(ctx context.Context, provider string, out io.Writer) (Session, error) {
		p, err := ProviderByName(provider, cfg)
		if err != nil {
			return Session{}, err
		}
		return p.SignIn(ctx, out)
	}
}
