package viewmodel

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/todocrm/internal/auth"
	"github.com/idilsaglam/todocrm/internal/state"
)

type SignInState = state.RequestState[auth.Session]

// PasswordLogin signs a user in with email and password.
type PasswordLogin interface {
	LogIn(ctx context.Context, email, password string) (auth.Session, error)
}

// FederatedSignIn runs a provider's browser flow, writing the URL to open
// to out.
type FederatedSignIn func(ctx context.Context, provider string, out io.Writer) (auth.Session, error)

// SessionStore persists the signed-in user.
type SessionStore interface {
	Load() (*auth.Session, error)
	Save(s auth.Session) error
}

// Auth drives the login screen.
type Auth struct {
	base
	password  PasswordLogin
	federated FederatedSignIn
	store     SessionStore
	log       logrus.FieldLogger

	mu      sync.RWMutex
	state   SignInState
	authURL string
}

func NewAuth(password PasswordLogin, federated FederatedSignIn, store SessionStore, log logrus.FieldLogger) *Auth {
	return &Auth{
		base:      newBase(),
		password:  password,
		federated: federated,
		store:     store,
		log:       log.WithField("viewmodel", "auth"),
		state:     state.NewIdle[auth.Session](),
	}
}

func (a *Auth) State() SignInState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// AuthURL is the URL a pending federated sign-in is waiting on.
func (a *Auth) AuthURL() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.authURL
}

// Current returns the stored session, if any.
func (a *Auth) Current() (*auth.Session, error) {
	return a.store.Load()
}

// LogIn checks the email locally before calling the identity provider.
// It reports false without starting anything when the email is invalid.
func (a *Auth) LogIn(email, password string) bool {
	email = strings.TrimSpace(email)
	if !auth.ValidEmail(email) {
		a.set(state.NewError[auth.Session](auth.ErrInvalidEmail.Error()), "")
		return false
	}
	if a.password == nil {
		a.set(state.NewError[auth.Session](auth.ErrNoAPIKey.Error()), "")
		return true
	}
	a.run("password", func(ctx context.Context) (auth.Session, error) {
		return a.password.LogIn(ctx, email, password)
	})
	return true
}

// SignInWith starts the browser flow for provider.
func (a *Auth) SignInWith(provider string) {
	if a.federated == nil {
		a.set(state.NewError[auth.Session](auth.ErrNotConfigured.Error()), "")
		return
	}
	a.run(provider, func(ctx context.Context) (auth.Session, error) {
		return a.federated(ctx, provider, urlWriter{a})
	})
}

func (a *Auth) run(provider string, signIn func(ctx context.Context) (auth.Session, error)) {
	a.set(state.NewLoading[auth.Session](), "")

	a.launch(func() {
		sess, err := signIn(a.ctx)
		if err == nil {
			err = a.store.Save(sess)
		}
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				a.log.WithError(err).WithField("provider", provider).Warn("sign-in failed")
			}
			a.set(state.NewError[auth.Session](err.Error()), "")
			return
		}
		a.log.WithField("provider", provider).Info("signed in")
		a.set(state.NewSuccess(sess), "")
	})
}

func (a *Auth) set(s SignInState, authURL string) {
	a.mu.Lock()
	a.state = s
	a.authURL = authURL
	a.mu.Unlock()
	a.changed()
}

// urlWriter captures the authorization URL a provider prints.
type urlWriter struct{ a *Auth }

func (w urlWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			w.a.mu.Lock()
			w.a.authURL = line
			w.a.mu.Unlock()
			w.a.changed()
		}
	}
	return len(p), nil
}
