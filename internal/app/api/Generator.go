package api

import "context"

// Generator produces text from a prompt. Summaries and action items both go
// through it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
