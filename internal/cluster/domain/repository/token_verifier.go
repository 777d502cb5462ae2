package repository

import "context"

// Principal is the authenticated acting user.
type Principal struct {
	UID   string
	Email string
}

// TokenVerifier resolves a bearer token into a principal. Implementations
// must bound the verification with a timeout rather than hang on a slow
// upstream.
type TokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*Principal, error)
}
