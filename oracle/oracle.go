// Package oracle wraps the external text-generation service used by the
// recommender. An Oracle is opaque text-in/text-out: callers build the
// prompt and decode the reply themselves. A reply without text is not an
// error here; it fails decoding with ErrNoObject.
package oracle

import (
	"context"
)

// Request is a single completion call.
type Request struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Oracle completes a prompt. Implementations must honour ctx cancellation.
type Oracle interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Func adapts a plain function to the Oracle interface.
type Func func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Static returns an Oracle that always answers with text.
func Static(text string) Oracle {
	return Func(func(ctx context.Context, _ Request) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return text, nil
	})
}

// Usage reports token consumption for a call when the provider exposes it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// usageReporter is implemented by providers that can report the usage of
// their most recent completion alongside the text.
type usageReporter interface {
	completeWithUsage(ctx context.Context, req Request) (string, Usage, error)
}
