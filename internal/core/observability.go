package core

import (
	"context"
	"time"
)

// MetricsRecorder receives operation outcomes with duration for aggregation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan finalizes a span with the operation outcome.
type TraceSpan interface {
	End(err error)
}

// AuditStatus describes the terminal outcome recorded for an operation.
type AuditStatus string

const (
	AuditStatusSucceeded AuditStatus = "succeeded"
	AuditStatusFailed    AuditStatus = "failed"
)

// AuditEntry captures one service operation outcome for the audit trail.
type AuditEntry struct {
	Operation  string         `json:"operation"`
	Status     AuditStatus    `json:"status"`
	Entity     EntityType     `json:"entity"`
	EntityID   string         `json:"entity_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// AuditRecorder records audit entries emitted by the service.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// ServiceOption customises a Service at construction.
type ServiceOption func(*Service)

// WithMetricsRecorder attaches a metrics recorder to the service.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(s *Service) { s.metrics = recorder }
}

// WithTracer attaches a tracer to the service.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) { s.tracer = tracer }
}

// WithAuditRecorder attaches an audit recorder to the service.
func WithAuditRecorder(recorder AuditRecorder) ServiceOption {
	return func(s *Service) { s.audit = recorder }
}

// WithClock overrides the service clock; intended for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// instrument wraps a service operation with tracing, metrics, and auditing.
func (s *Service) instrument(ctx context.Context, operation string, entity EntityType, fn func(context.Context) (string, error)) error {
	start := time.Now()
	spanCtx := ctx
	var span TraceSpan
	if s.tracer != nil {
		spanCtx, span = s.tracer.Start(ctx, operation)
	}
	entityID, err := fn(spanCtx)
	if span != nil {
		span.End(err)
	}
	if s.metrics != nil {
		s.metrics.Observe(ctx, operation, err == nil, time.Since(start))
	}
	if s.audit != nil {
		status := AuditStatusSucceeded
		var details map[string]any
		if err != nil {
			status = AuditStatusFailed
			details = map[string]any{"error": err.Error()}
		}
		s.audit.Record(ctx, AuditEntry{
			Operation:  operation,
			Status:     status,
			Entity:     entity,
			EntityID:   entityID,
			Details:    details,
			OccurredAt: s.nowFn(),
		})
	}
	return err
}
