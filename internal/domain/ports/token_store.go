package ports

import "context"

// TokenStore persists the bearer credential between calls.
// Token returns an empty string when no credential is stored.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}
