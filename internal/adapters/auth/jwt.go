// Package auth verifies worker bearer tokens. Tokens are HS256 JWTs issued by
// the identity provider that fronts the mobile client
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Options configures the Verifier
type Options struct {
	Secret   string
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// Verifier checks signatures and standard claims
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

type claims struct {
	Email        string         `json:"email,omitempty"`
	Name         string         `json:"name,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

// ErrNoSecret means the verifier was built without a signing secret
var ErrNoSecret = errors.New("auth secret is not configured")

// New builds a Verifier
func New(o Options) (*Verifier, error) {
	if strings.TrimSpace(o.Secret) == "" {
		return nil, ErrNoSecret
	}
	if o.Leeway <= 0 {
		o.Leeway = 30 * time.Second
	}
	popts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(o.Leeway),
	}
	if o.Issuer != "" {
		popts = append(popts, jwt.WithIssuer(o.Issuer))
	}
	if o.Audience != "" {
		popts = append(popts, jwt.WithAudience(o.Audience))
	}
	return &Verifier{secret: []byte(o.Secret), parser: jwt.NewParser(popts...)}, nil
}

// Parse validates token and returns the subject and a display name. The name
// falls back through name, user_metadata.full_name, user_metadata.name, email
func (v *Verifier) Parse(token string) (userID, userName string, err error) {
	var c claims
	_, err = v.parser.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) { return v.secret, nil })
	if err != nil {
		return "", "", err
	}
	if c.Subject == "" {
		return "", "", errors.New("token has no subject")
	}
	return c.Subject, displayName(c), nil
}

func displayName(c claims) string {
	if n := strings.TrimSpace(c.Name); n != "" {
		return n
	}
	for _, k := range []string{"full_name", "name"} {
		if s, ok := c.UserMetadata[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return c.Email
}
