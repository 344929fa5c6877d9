package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider      *metric.MeterProvider
	meter              otelmetric.Meter
	teamCounter        otelmetric.Int64Counter
	generationDuration otelmetric.Float64Histogram
	agentDuration      otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	teamCounter, _ := meter.Int64Counter(
		"teams.generated",
		otelmetric.WithDescription("Number of team generation requests processed"),
	)

	generationDuration, _ := meter.Float64Histogram(
		"teams.generation.duration",
		otelmetric.WithDescription("End-to-end team generation duration"),
		otelmetric.WithUnit("ms"),
	)

	agentDuration, _ := meter.Float64Histogram(
		"agent.invoke.duration",
		otelmetric.WithDescription("Bedrock agent invocation duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:      provider,
		meter:              meter,
		teamCounter:        teamCounter,
		generationDuration: generationDuration,
		agentDuration:      agentDuration,
	}
}

func (o *Observability) RecordTeamGenerated(ctx context.Context, teamType, status string) {
	if o.teamCounter != nil {
		o.teamCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("team_type", teamType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordGenerationDuration(ctx context.Context, duration time.Duration, teamType string) {
	if o.generationDuration != nil {
		o.generationDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("team_type", teamType),
		))
	}
}

func (o *Observability) RecordAgentDuration(ctx context.Context, duration time.Duration, status string) {
	if o.agentDuration != nil {
		o.agentDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
