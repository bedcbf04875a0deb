// Package trace owns the process-wide OpenTelemetry tracer.
package trace

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "trading-assistant"

// Options selects whether spans are recorded and where they go.
type Options struct {
	Version string
	Enabled bool
	Writer  io.Writer
	// SampleRatio is the fraction of root spans kept; <= 0 or >= 1 keeps all.
	SampleRatio float64
}

var (
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	enabled  bool
)

// OptionsFromEnv reads LOG_TRACING_ENABLED and TRACE_SAMPLE_RATIO. Spans go
// to stderr so they stay out of the JSON log stream on stdout.
func OptionsFromEnv(version string) Options {
	o := Options{
		Version: version,
		Enabled: os.Getenv("LOG_TRACING_ENABLED") == "true",
		Writer:  os.Stderr,
	}
	if v := os.Getenv("TRACE_SAMPLE_RATIO"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			o.SampleRatio = r
		}
	}
	return o
}

func Init(version string) error {
	return Setup(OptionsFromEnv(version))
}

// InitWithWriter is Setup with every span kept.
func InitWithWriter(version string, on bool, w io.Writer) error {
	return Setup(Options{Version: version, Enabled: on, Writer: w})
}

// Setup replaces the global tracer. With tracing off every StartSpan call
// hands back the span already on the context.
func Setup(o Options) error {
	enabled = o.Enabled
	if !o.Enabled {
		tracer = nil
		return nil
	}
	if o.Writer == nil {
		o.Writer = os.Stderr
	}

	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint(), stdouttrace.WithWriter(o.Writer))
	if err != nil {
		return fmt.Errorf("span exporter: %w", err)
	}
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(o.Version),
		),
	)
	if err != nil {
		return fmt.Errorf("trace resource: %w", err)
	}

	provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(o.SampleRatio)),
	)
	otel.SetTracerProvider(provider)
	tracer = provider.Tracer(serviceName)
	return nil
}

func sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// Shutdown flushes pending spans.
func Shutdown(ctx context.Context) error {
	if provider == nil {
		return nil
	}
	p := provider
	provider = nil
	return p.Shutdown(ctx)
}

func StartSpan(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !enabled || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName, opts...)
}

// Annotate sets string attributes on the current span, given as key/value
// pairs. A trailing odd key is ignored.
func Annotate(ctx context.Context, kv ...string) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	attrs := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		attrs = append(attrs, attribute.String(kv[i], kv[i+1]))
	}
	span.SetAttributes(attrs...)
}

func Enabled() bool {
	return enabled
}

func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	if !enabled {
		return "", "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}
