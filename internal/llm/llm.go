// Package llm wraps the model providers behind a small JSON-in/JSON-out
// client interface. The résumé-comparison flow is the only caller; it
// always requests a structured JSON verdict.
package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// DefaultMaxTokens caps a single completion.
const DefaultMaxTokens = 8192

// ErrInvalidJSON is returned when the model produced no usable JSON.
var ErrInvalidJSON = errors.New("llm: model returned invalid JSON")

// Client generates a JSON document from a prompt plus structured input.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error)
	Close() error
}
