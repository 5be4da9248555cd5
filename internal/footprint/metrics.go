package footprint

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ecotracker/ecotracker/internal/footprint"

// Metrics holds the footprint domain instruments.
type Metrics struct {
	submissions metric.Int64Counter
	failures    metric.Int64Counter
	totals      metric.Float64Histogram
}

// NewMetrics creates the footprint instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)

	submissions, err := meter.Int64Counter(
		"footprint.submissions",
		metric.WithDescription("Number of persisted footprint records"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"footprint.submission.failures",
		metric.WithDescription("Number of submissions rejected or not persisted"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return nil, err
	}

	totals, err := meter.Float64Histogram(
		"footprint.total",
		metric.WithDescription("Distribution of computed total footprints"),
		metric.WithUnit("kg"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		submissions: submissions,
		failures:    failures,
		totals:      totals,
	}, nil
}

func (m *Metrics) recordSubmission(ctx context.Context, rec *Record) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("footprint.band", string(rec.Band())))
	m.submissions.Add(ctx, 1, attrs)
	m.totals.Record(ctx, rec.TotalFootprint, attrs)
}

func (m *Metrics) recordFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}
