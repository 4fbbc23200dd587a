package i

import (
	"time"
)

// Tokenizer issues and checks the bearer tokens of players.
type Tokenizer interface {
	// Generate signs claims into a token valid for ttl. The exp and iat
	// claims are always set by the tokenizer.
	Generate(claims map[string]interface{}, ttl time.Duration) (string, error)

	// Decode verifies a token and returns its claims. Expired tokens and
	// tokens of another issuer are rejected.
	Decode(token string) (map[string]interface{}, error)
}
