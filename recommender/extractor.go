package recommender

import (
	"context"
	"time"

	"github.com/prajjawal-kansara/AIdvisor/oracle"
)

const (
	intentTemperature = 0.1
	intentMaxTokens   = 500
)

// IntentExtractor turns free text into an Intent with one oracle call.
type IntentExtractor struct {
	oracle  oracle.Oracle
	timeout time.Duration
}

// NewIntentExtractor creates an extractor. A zero timeout leaves the call
// bounded only by ctx.
func NewIntentExtractor(o oracle.Oracle, timeout time.Duration) *IntentExtractor {
	return &IntentExtractor{oracle: o, timeout: timeout}
}

// Extract asks the oracle for an Intent. Transport failures and timeouts
// are reported as OutcomeTransportError; undecodable replies yield
// DefaultIntent tagged OutcomeDecodeFallback.
func (e *IntentExtractor) Extract(ctx context.Context, userText string) Result[Intent] {
	callCtx, cancel := withTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.oracle.Complete(callCtx, oracle.Request{
		Prompt:      buildIntentPrompt(userText),
		Temperature: intentTemperature,
		MaxTokens:   intentMaxTokens,
	})
	if err != nil {
		return Failed(DefaultIntent(), err)
	}

	var intent Intent
	if err := intentDecoder.Decode(raw, &intent); err != nil {
		return Fallback(DefaultIntent(), err)
	}
	return Ok(intent.Normalize())
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
