// Package recommender runs the per-request pipeline: intent extraction,
// scoring, assembly and catalog enrichment.
package recommender

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/prajjawal-kansara/AIdvisor/catalog"
	"github.com/prajjawal-kansara/AIdvisor/internal/logger"
	"github.com/prajjawal-kansara/AIdvisor/oracle"
)

// State is the furthest pipeline step a request reached.
type State string

const (
	StateReceived              State = "RECEIVED"
	StateIntentExtracted       State = "INTENT_EXTRACTED"
	StateIntentTransportFailed State = "INTENT_TRANSPORT_FAILED"
	StateScored                State = "SCORED"
	StateAssembled             State = "ASSEMBLED"
	StateMerged                State = "MERGED"
	StateResponded             State = "RESPONDED"
)

const (
	DefaultMaxInFlight   = 32
	DefaultQueueTimeout  = 5 * time.Second
	DefaultOracleTimeout = 30 * time.Second
)

// Observer receives pipeline measurements. *metrics.Metrics implements it.
type Observer interface {
	ObserveStage(stage, outcome string)
	ObservePipeline(state string, duration time.Duration)
	PipelineStarted()
	PipelineFinished()
	PipelineRejected()
}

type nopObserver struct{}

func (nopObserver) ObserveStage(string, string)            {}
func (nopObserver) ObservePipeline(string, time.Duration) {}
func (nopObserver) PipelineStarted()                      {}
func (nopObserver) PipelineFinished()                     {}
func (nopObserver) PipelineRejected()                     {}

// Options tunes a Recommender. Zero values select the defaults.
type Options struct {
	OracleTimeout time.Duration
	MaxInFlight   int64
	QueueTimeout  time.Duration
	TopCandidates int
	Observer      Observer
}

// Response is the outcome of a successful pipeline run.
type Response struct {
	RequestID            string
	Intent               Intent
	Recommendations      []RecommendationItem
	Summary              string
	NextSteps            string
	BudgetConsiderations string
	ImplementationOrder  string
	TotalToolsConsidered int
	ProcessedAt          time.Time
	State                State
	IntentOutcome        Outcome
	AssemblyOutcome      Outcome
	EnrichmentMisses     int
}

// Recommender is safe for concurrent use. The catalog is shared read-only.
type Recommender struct {
	catalog      *catalog.Catalog
	extractor    *IntentExtractor
	assembler    *Assembler
	sem          *semaphore.Weighted
	queueTimeout time.Duration
	observer     Observer
	now          func() time.Time
	newID        func() string
}

// New creates a Recommender over c using o for both oracle stages.
func New(c *catalog.Catalog, o oracle.Oracle, opts Options) *Recommender {
	if opts.OracleTimeout <= 0 {
		opts.OracleTimeout = DefaultOracleTimeout
	}
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = DefaultMaxInFlight
	}
	if opts.QueueTimeout <= 0 {
		opts.QueueTimeout = DefaultQueueTimeout
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}

	return &Recommender{
		catalog:      c,
		extractor:    NewIntentExtractor(o, opts.OracleTimeout),
		assembler:    NewAssembler(o, opts.OracleTimeout, opts.TopCandidates),
		sem:          semaphore.NewWeighted(opts.MaxInFlight),
		queueTimeout: opts.QueueTimeout,
		observer:     opts.Observer,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Catalog returns the catalog the recommender scores against.
func (r *Recommender) Catalog() *catalog.Catalog {
	return r.catalog
}

// Recommend runs the full pipeline for userText. The only errors are
// ErrValidation, ErrOverloaded and ErrIntentTransport (as *Error) or the
// caller's context error while waiting for admission.
func (r *Recommender) Recommend(ctx context.Context, userText string) (*Response, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, ErrValidation
	}

	if err := r.admit(ctx); err != nil {
		return nil, err
	}
	defer func() {
		r.sem.Release(1)
		r.observer.PipelineFinished()
	}()

	started := r.now()
	requestID := r.newID()
	state := StateReceived
	transition := func(next State) {
		state = next
		logger.Trace("Pipeline state", "request_id", requestID, "state", state)
	}
	logger.Debug("Recommendation received", "request_id", requestID, "state", state)

	intentResult := r.extractor.Extract(ctx, userText)
	r.observer.ObserveStage("intent", intentResult.Outcome.String())
	switch intentResult.Outcome {
	case OutcomeTransportError:
		transition(StateIntentTransportFailed)
		r.observer.ObservePipeline(string(state), r.now().Sub(started))
		logger.Error("Intent extraction failed",
			"request_id", requestID,
			"state", state,
			"error", intentResult.Err)
		return nil, newError(CodeIntentTransport, ErrIntentTransport.Detail, intentResult.Err)
	case OutcomeDecodeFallback:
		logger.IntentFallbacks.Add(1)
		logger.Warn("Intent reply could not be decoded, using default intent",
			"request_id", requestID,
			"error", intentResult.Err)
	}
	intent := intentResult.Value
	transition(StateIntentExtracted)

	candidates := Score(r.catalog, intent)
	transition(StateScored)

	assemblyResult := r.assembler.Assemble(ctx, userText, intent, candidates)
	r.observer.ObserveStage("assembly", assemblyResult.Outcome.String())
	if assemblyResult.Outcome != OutcomeOK {
		logger.AssemblyFallbacks.Add(1)
		logger.Warn("Assembly degraded to empty recommendations",
			"request_id", requestID,
			"outcome", assemblyResult.Outcome.String(),
			"error", assemblyResult.Err)
	}
	assembly := assemblyResult.Value
	transition(StateAssembled)

	items, misses := Merge(r.catalog, assembly.Recommendations)
	if misses > 0 {
		logger.EnrichmentMisses.Add(int64(misses))
		logger.Debug("Recommendations without catalog match",
			"request_id", requestID,
			"misses", misses)
	}
	transition(StateMerged)

	resp := &Response{
		RequestID:            requestID,
		Intent:               intent,
		Recommendations:      items,
		Summary:              assembly.Summary,
		NextSteps:            assembly.NextSteps,
		BudgetConsiderations: assembly.BudgetConsiderations,
		ImplementationOrder:  assembly.ImplementationOrder,
		TotalToolsConsidered: len(candidates),
		ProcessedAt:          r.now().UTC(),
		IntentOutcome:        intentResult.Outcome,
		AssemblyOutcome:      assemblyResult.Outcome,
		EnrichmentMisses:     misses,
	}
	transition(StateResponded)
	resp.State = state

	elapsed := r.now().Sub(started)
	r.observer.ObservePipeline(string(state), elapsed)
	logger.Info("Recommendation completed",
		"request_id", requestID,
		"state", state,
		"intent_outcome", intentResult.Outcome.String(),
		"assembly_outcome", assemblyResult.Outcome.String(),
		"candidates", len(candidates),
		"recommendations", len(items),
		"duration_ms", elapsed.Milliseconds())

	return resp, nil
}

// admit waits up to queueTimeout for a pipeline slot.
func (r *Recommender) admit(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, r.queueTimeout)
	defer cancel()

	if err := r.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.observer.PipelineRejected()
		return newError(CodeOverloaded, ErrOverloaded.Detail, err)
	}
	r.observer.PipelineStarted()
	return nil
}
