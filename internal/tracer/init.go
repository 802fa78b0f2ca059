package tracer

import (
	"context"

	"haruhi-agent-be/internal/config"
	"haruhi-agent-be/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Init installs the global tracer provider and W3C propagator. Tracing stays
// off unless cfg.Tracing.Enabled; the returned func flushes pending spans.
func Init(cfg *config.Config, log logger.ILogger) ShutdownFunc {
	tc := cfg.Tracing
	if !tc.Enabled {
		log.Info("TRACER", "Tracing disabled", map[string]interface{}{"hint": "set OTEL_ENABLED=true"})
		return noop
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(tc.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Warn("TRACER", "Failed to create OTLP exporter, tracing disabled", map[string]interface{}{
			"endpoint": tc.Endpoint,
			"error":    err.Error(),
		})
		return noop
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(clampRatio(tc.SampleRatio)))),
		sdktrace.WithResource(newResource(cfg)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("TRACER", "OpenTelemetry tracer initialized", map[string]interface{}{
		"endpoint":     tc.Endpoint,
		"service":      tc.ServiceName,
		"version":      tc.ServiceVersion,
		"sample_ratio": clampRatio(tc.SampleRatio),
	})
	return tp.Shutdown
}

func newResource(cfg *config.Config) *resource.Resource {
	name := cfg.Tracing.ServiceName
	if name == "" {
		name = "haruhi-agent-be"
	}
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(name),
		semconv.ServiceVersionKey.String(cfg.Tracing.ServiceVersion),
		semconv.DeploymentEnvironmentKey.String(cfg.App.Environment),
	)
}

func clampRatio(r float64) float64 {
	switch {
	case r <= 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
