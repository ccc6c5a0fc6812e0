package google

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

var (
	ErrInvalidIDToken = errors.New("invalid google id token")
	ErrNotConfigured  = errors.New("google sign-in is not configured")
)

// Identity is the subset of ID token claims the portal uses.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

type Verifier interface {
	Verify(ctx context.Context, rawIDToken string) (*Identity, error)
}

// IDTokenVerifier checks signature, expiry, issuer and audience against
// Google's published certificates.
type IDTokenVerifier struct {
	ClientID  string
	validator *idtoken.Validator
}

func NewIDTokenVerifier(ctx context.Context, clientID string) (*IDTokenVerifier, error) {
	v, err := idtoken.NewValidator(ctx, option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("idtoken validator: %w", err)
	}
	return &IDTokenVerifier{ClientID: clientID, validator: v}, nil
}

func (v *IDTokenVerifier) Verify(ctx context.Context, rawIDToken string) (*Identity, error) {
	if rawIDToken == "" {
		return nil, ErrInvalidIDToken
	}

	payload, err := v.validator.Validate(ctx, rawIDToken, v.ClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}

	id := IdentityFromClaims(payload.Subject, payload.Claims)
	if id.Email == "" {
		return nil, fmt.Errorf("%w: token has no email claim", ErrInvalidIDToken)
	}
	return id, nil
}

func IdentityFromClaims(subject string, claims map[string]any) *Identity {
	str := func(k string) string {
		s, _ := claims[k].(string)
		return s
	}
	verified, _ := claims["email_verified"].(bool)

	return &Identity{
		Subject:       subject,
		Email:         str("email"),
		EmailVerified: verified,
		Name:          str("name"),
		Picture:       str("picture"),
	}
}

// Disabled rejects every token; used when GOOGLE_CLIENT_ID is unset.
type Disabled struct{}

func (Disabled) Verify(context.Context, string) (*Identity, error) {
	return nil, ErrNotConfigured
}
