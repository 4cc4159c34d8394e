package domain

import "time"

// Claims are the verified claims of a bearer token.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// TokenVerifier validates bearer tokens issued by the auth provider.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// TokenIssuer signs tokens. Used for local development and tests.
type TokenIssuer interface {
	Issue(userID, email, role string, expiry time.Duration) (string, error)
}
