package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// exporters builds the span exporter and metric reader a Provider is wired to.
type exporters struct {
	spans   func(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error)
	metrics func(ctx context.Context, cfg Config) (sdkmetric.Reader, error)
}

// otlpExporters ship both signals to an OTLP collector over insecure gRPC.
var otlpExporters = exporters{
	spans:   otlpSpanExporter,
	metrics: otlpMetricReader,
}

func otlpSpanExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	return exp, nil
}

func otlpMetricReader(ctx context.Context, cfg Config) (sdkmetric.Reader, error) {
	exp, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}
	return sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(cfg.metricInterval())), nil
}
