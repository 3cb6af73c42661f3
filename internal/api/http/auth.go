package httpapi

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ErrInvalidToken is returned by verifiers for unknown or disabled tokens.
var ErrInvalidToken = errors.New("invalid token")

// TokenVerifier checks an access token. Token issuance lives in a separate
// subsystem; the read API only verifies.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) error
}

// StaticTokens verifies against a fixed token set supplied by configuration.
type StaticTokens struct {
	tokens map[string]struct{}
}

// NewStaticTokens creates a StaticTokens verifier.
func NewStaticTokens(tokens []string) *StaticTokens {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return &StaticTokens{tokens: set}
}

func (s *StaticTokens) Verify(_ context.Context, token string) error {
	if _, ok := s.tokens[token]; !ok {
		return ErrInvalidToken
	}
	return nil
}

// RequireToken guards a route group with bearer-token authentication.
func RequireToken(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		if err := verifier.Verify(c.Context(), token); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		return c.Next()
	}
}
