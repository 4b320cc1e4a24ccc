package domain

import "context"

// Identity is a verified caller identity returned by the identity provider.
type Identity struct {
	UID       string `json:"uid"`
	Email     string `json:"email,omitempty"`
	Anonymous bool   `json:"-"`
}

// TokenVerifier validates bearer tokens against an external identity
// provider. A nil identity with a nil error means the token is invalid or
// expired; an error means the provider could not be reached.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
