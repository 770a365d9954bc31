// Package auth carries the caller's bearer credential through context. The
// engine never mints tokens; it forwards what the external auth collaborator
// issued to the shopper.
package auth

import "context"

type tokenKey struct{}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}
