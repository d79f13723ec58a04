package auth

import "context"

// Service is the credential-verification capability guarding the admin
// panel: verify credentials, hand back an identity token. The provider's
// internals stay behind this interface.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
	// Verify checks a token and returns the identity it names.
	Verify(token string) (string, error)
}
