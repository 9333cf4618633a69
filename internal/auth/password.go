package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidEmail  = errors.New("insert valid email")
	ErrEmptyPassword = errors.New("password is required")
	ErrNoAPIKey      = errors.New("firebase api key is not configured")
)

var emailPattern = regexp.MustCompile(`^[A-Za-z](.*)([@]{1})(.{1,})(\.)(.{1,})`)

// ValidEmail applies the sign-in form's email check.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ProviderError is an error reported by the identity service, such as
// EMAIL_EXISTS or INVALID_PASSWORD.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider: %d %s", e.Code, e.Message)
}

// PasswordClient signs in with email and password against the Firebase
// Identity Toolkit REST API.
type PasswordClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewPasswordClient(baseURL, apiKey string, client *http.Client) *PasswordClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &PasswordClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type passwordResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type providerErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignUp creates an account and returns its session.
func (c *PasswordClient) SignUp(ctx context.Context, email, password string) (Session, error) {
	return c.call(ctx, "accounts:signUp", email, password)
}

// SignIn signs in to an existing account.
func (c *PasswordClient) SignIn(ctx context.Context, email, password string) (Session, error) {
	return c.call(ctx, "accounts:signInWithPassword", email, password)
}

// LogIn creates the account if it does not exist yet and signs in
// otherwise, so one form serves both first-time and returning users.
func (c *PasswordClient) LogIn(ctx context.Context, email, password string) (Session, error) {
	sess, err := c.SignUp(ctx, email, password)
	if err == nil {
		return sess, nil
	}
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return Session{}, err
	}
	return c.SignIn(ctx, email, password)
}

func (c *PasswordClient) call(ctx context.Context, method, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		return Session{}, ErrInvalidEmail
	}
	if password == "" {
		return Session{}, ErrEmptyPassword
	}
	if c.apiKey == "" {
		return Session{}, ErrNoAPIKey
	}

	body, err := json.Marshal(passwordRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return Session{}, err
	}
	endpoint := fmt.Sprintf("%s/%s?key=%s", c.baseURL, method, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var eb providerErrorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err != nil || eb.Error.Message == "" {
			return Session{}, &ProviderError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return Session{}, &ProviderError{Code: eb.Error.Code, Message: eb.Error.Message}
	}

	var pr passwordResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return Session{}, fmt.Errorf("decode %s: %w", method, err)
	}

	sess := Session{
		Provider:     "password",
		UserID:       pr.LocalID,
		Email:        pr.Email,
		DisplayName:  pr.DisplayName,
		IDToken:      pr.IDToken,
		RefreshToken: pr.RefreshToken,
		CreatedAt:    time.Now(),
	}
	if secs, err := strconv.Atoi(pr.ExpiresIn); err == nil && secs > 0 {
		exp := sess.CreatedAt.Add(time.Duration(secs) * time.Second)
		sess.ExpiresAt = &exp
	}
	return sess, nil
}
