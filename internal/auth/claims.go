package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

// Claims are the identity fields read from an OpenID Connect ID token.
type Claims struct {
	Subject   string
	Email     string
	Name      string
	Picture   string
	ExpiresAt *time.Time
	Raw       jwt.MapClaims
}

// ParseClaims decodes an ID token without checking its signature. It is
// for display only; use a Verifier before trusting the result.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("parse id token: %w", err)
	}
	return claimsFromMap(mc), nil
}

func claimsFromMap(mc jwt.MapClaims) Claims {
	c := Claims{Raw: mc}
	c.Subject, _ = mc["sub"].(string)
	c.Email, _ = mc["email"].(string)
	c.Name, _ = mc["name"].(string)
	c.Picture, _ = mc["picture"].(string)
	if exp, ok := mc["exp"].(float64); ok {
		t := time.Unix(int64(exp), 0)
		c.ExpiresAt = &t
	}
	return c
}

func (c Claims) apply(s *Session) {
	if c.Subject != "" {
		s.UserID = c.Subject
	}
	if c.Email != "" {
		s.Email = c.Email
	}
	if c.Name != "" {
		s.DisplayName = c.Name
	}
	if c.Picture != "" {
		s.PhotoURL = c.Picture
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt
	}
}

// Verifier checks ID token signatures and audience.
type Verifier struct {
	keyfunc  jwt.Keyfunc
	audience string
}

func NewVerifier(kf jwt.Keyfunc, audience string) *Verifier {
	return &Verifier{keyfunc: kf, audience: audience}
}

// NewJWKSVerifier fetches signing keys from jwksURL and refreshes them in
// the background until the returned stop func is called.
func NewJWKSVerifier(jwksURL, audience string, log logrus.FieldLogger) (*Verifier, func(), error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			log.WithError(err).Warn("refresh jwks")
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load jwks from %s: %w", jwksURL, err)
	}
	return NewVerifier(jwks.Keyfunc, audience), jwks.EndBackground, nil
}

// Verify checks the signature, expiry and (when configured) audience.
func (v *Verifier) Verify(token string) (Claims, error) {
	parsed, err := jwt.Parse(token, v.keyfunc)
	if err != nil {
		return Claims{}, fmt.Errorf("verify id token: %w", err)
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("the token is not valid")
	}
	if v.audience != "" && !mc.VerifyAudience(v.audience, true) {
		return Claims{}, fmt.Errorf("token audience is not %q", v.audience)
	}
	return claimsFromMap(mc), nil
}
