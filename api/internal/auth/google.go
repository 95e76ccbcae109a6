package auth

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/idtoken"
)

// GoogleIdentity is the verified subject of a Google ID token.
type GoogleIdentity struct {
	Subject string
	Email   string
	// EmailVerified is Google's email_verified claim.
	EmailVerified bool
	Name          string
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// IDTokenVerifier validates Google ID tokens for one OAuth client ID.
type IDTokenVerifier struct {
	ClientID string
}

func (v IDTokenVerifier) Verify(ctx context.Context, raw string) (*GoogleIdentity, error) {
	if v.ClientID == "" {
		return nil, errors.New("GOOGLE_CLIENT_ID is empty")
	}
	p, err := idtoken.Validate(ctx, raw, v.ClientID)
	if err != nil {
		return nil, err
	}
	id := &GoogleIdentity{Subject: p.Subject}
	id.Email, _ = p.Claims["email"].(string)
	id.Name, _ = p.Claims["name"].(string)
	id.EmailVerified = claimTrue(p.Claims["email_verified"])
	return id, nil
}

// claimTrue accepts both JSON booleans and the "true" string some issuers send.
func claimTrue(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return strings.EqualFold(x, "true")
	}
	return false
}
