package oracle

import (
	"context"
	"time"

	"github.com/prajjawal-kansara/AIdvisor/internal/logger"
)

// Recorder receives per-call oracle measurements.
type Recorder interface {
	ObserveOracleLatency(provider, model string, duration time.Duration)
	ObserveOracleTokens(provider, model string, prompt, completion int)
	ObserveOracleError(provider, model string)
}

// Instrumented decorates an Oracle with latency, token and error
// reporting.
type Instrumented struct {
	next     Oracle
	provider string
	model    string
	recorder Recorder
}

// Instrument wraps next. A nil recorder only logs.
func Instrument(next Oracle, provider, model string, recorder Recorder) *Instrumented {
	return &Instrumented{next: next, provider: provider, model: model, recorder: recorder}
}

// Complete implements Oracle.
func (o *Instrumented) Complete(ctx context.Context, req Request) (string, error) {
	started := time.Now()

	var (
		text  string
		usage Usage
		err   error
	)
	if reporter, ok := o.next.(usageReporter); ok {
		text, usage, err = reporter.completeWithUsage(ctx, req)
	} else {
		text, err = o.next.Complete(ctx, req)
	}
	elapsed := time.Since(started)

	if o.recorder != nil {
		o.recorder.ObserveOracleLatency(o.provider, o.model, elapsed)
	}

	if err != nil {
		if o.recorder != nil {
			o.recorder.ObserveOracleError(o.provider, o.model)
		}
		logger.Debug("Oracle call failed",
			"provider", o.provider,
			"model", o.model,
			"duration_ms", elapsed.Milliseconds(),
			"error", err)
		return "", err
	}

	if o.recorder != nil {
		o.recorder.ObserveOracleTokens(o.provider, o.model, usage.PromptTokens, usage.CompletionTokens)
	}
	logger.Debug("Oracle call completed",
		"provider", o.provider,
		"model", o.model,
		"duration_ms", elapsed.Milliseconds(),
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens,
		"response_chars", len(text))
	return text, nil
}
