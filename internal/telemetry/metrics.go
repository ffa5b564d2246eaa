// Package telemetry records agent call and review batch metrics through the
// OpenTelemetry metrics API.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/dusk-indust/crossreview"

// Metric names.
const (
	MetricAgentCalls        = "crossreview_agent_calls_total"
	MetricAgentCallDuration = "crossreview_agent_call_duration_seconds"
	MetricReviewBatches     = "crossreview_review_batches_total"
)

// Batch outcomes.
const (
	BatchComplete = "complete"
	BatchTimeout  = "timeout"
	BatchCanceled = "canceled"
)

var (
	attrAgent   = attribute.Key("agent")
	attrPhase   = attribute.Key("phase")
	attrOutcome = attribute.Key("outcome")
)

// Recorder holds the metric instruments. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	agentCalls        metric.Int64Counter
	agentCallDuration metric.Float64Histogram
	reviewBatches     metric.Int64Counter
}

// NewRecorder creates the instruments from mp.
func NewRecorder(mp metric.MeterProvider) (*Recorder, error) {
	m := mp.Meter(meterName)

	calls, err := m.Int64Counter(MetricAgentCalls,
		metric.WithDescription("Agent invocations by phase and outcome"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: %s: %w", MetricAgentCalls, err)
	}
	duration, err := m.Float64Histogram(MetricAgentCallDuration,
		metric.WithDescription("Agent invocation duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: %s: %w", MetricAgentCallDuration, err)
	}
	batches, err := m.Int64Counter(MetricReviewBatches,
		metric.WithDescription("Parallel review batches by outcome"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: %s: %w", MetricReviewBatches, err)
	}

	return &Recorder{
		agentCalls:        calls,
		agentCallDuration: duration,
		reviewBatches:     batches,
	}, nil
}

// Global creates a Recorder from the global meter provider. Until a provider
// is installed with otel.SetMeterProvider, recording is a no-op.
func Global() *Recorder {
	r, err := NewRecorder(otel.GetMeterProvider())
	if err != nil {
		return nil
	}
	return r
}

// AgentCall records one agent invocation.
func (r *Recorder) AgentCall(ctx context.Context, agentName, phase string, success bool, elapsed time.Duration) {
	if r == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	r.agentCalls.Add(ctx, 1, metric.WithAttributes(
		attrAgent.String(agentName),
		attrPhase.String(phase),
		attrOutcome.String(outcome),
	))
	r.agentCallDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attrAgent.String(agentName),
		attrPhase.String(phase),
	))
}

// ReviewBatch records the outcome of one parallel review batch.
func (r *Recorder) ReviewBatch(ctx context.Context, outcome string) {
	if r == nil {
		return
	}
	r.reviewBatches.Add(ctx, 1, metric.WithAttributes(attrOutcome.String(outcome)))
}
