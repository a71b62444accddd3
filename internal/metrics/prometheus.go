package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for oracle calls and the
// recommendation pipeline.
type Metrics struct {
	oracleLatency    *prometheus.HistogramVec
	oracleTokens     *prometheus.CounterVec
	oracleErrors     *prometheus.CounterVec
	stageOutcomes    *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
	inFlight         prometheus.Gauge
	rejected         prometheus.Counter
}

// New registers the collectors on registerer, or on the default registerer
// when nil.
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Metrics{
		oracleLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aidvisor_oracle_latency_seconds",
				Help:    "Latency of oracle completion calls in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider", "model"},
		),
		oracleTokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aidvisor_oracle_tokens_total",
				Help: "Total number of tokens consumed by oracle calls",
			},
			[]string{"provider", "model", "kind"},
		),
		oracleErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aidvisor_oracle_errors_total",
				Help: "Total number of failed oracle calls",
			},
			[]string{"provider", "model"},
		),
		stageOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "aidvisor_stage_outcomes_total",
				Help: "Outcome of each pipeline stage",
			},
			[]string{"stage", "outcome"},
		),
		pipelineDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aidvisor_pipeline_duration_seconds",
				Help:    "Duration of recommendation pipelines by final state",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"state"},
		),
		inFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "aidvisor_pipelines_in_flight",
				Help: "Current number of admitted recommendation pipelines",
			},
		),
		rejected: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "aidvisor_pipelines_rejected_total",
				Help: "Total number of requests rejected by admission control",
			},
		),
	}
}

func (p *Metrics) ObserveOracleLatency(provider, model string, duration time.Duration) {
	p.oracleLatency.WithLabelValues(provider, model).Observe(duration.Seconds())
}

func (p *Metrics) ObserveOracleTokens(provider, model string, prompt, completion int) {
	if prompt > 0 {
		p.oracleTokens.WithLabelValues(provider, model, "prompt").Add(float64(prompt))
	}
	if completion > 0 {
		p.oracleTokens.WithLabelValues(provider, model, "completion").Add(float64(completion))
	}
}

func (p *Metrics) ObserveOracleError(provider, model string) {
	p.oracleErrors.WithLabelValues(provider, model).Inc()
}

func (p *Metrics) ObserveStage(stage, outcome string) {
	p.stageOutcomes.WithLabelValues(stage, outcome).Inc()
}

func (p *Metrics) ObservePipeline(state string, duration time.Duration) {
	p.pipelineDuration.WithLabelValues(state).Observe(duration.Seconds())
}

func (p *Metrics) PipelineStarted() {
	p.inFlight.Inc()
}

func (p *Metrics) PipelineFinished() {
	p.inFlight.Dec()
}

func (p *Metrics) PipelineRejected() {
	p.rejected.Inc()
}
