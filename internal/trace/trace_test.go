package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestDisabledStartSpanIsNoop(t *testing.T) {
	if err := InitWithWriter("test", false, &bytes.Buffer{}); err != nil {
		t.Fatalf("InitWithWriter: %v", err)
	}
	ctx, span := StartSpan(context.Background(), "noop")
	span.End()
	if _, _, ok := GetTraceFields(ctx); ok {
		t.Error("expected no trace fields while disabled")
	}
	if Enabled() {
		t.Error("expected tracing disabled")
	}
}

func TestEnabledExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter("test", true, &buf); err != nil {
		t.Fatalf("InitWithWriter: %v", err)
	}
	t.Cleanup(func() { _ = InitWithWriter("test", false, &bytes.Buffer{}) })

	ctx, span := StartSpan(context.Background(), "engine.Analyze")
	traceID, spanID, ok := GetTraceFields(ctx)
	if !ok || traceID == "" || spanID == "" {
		t.Errorf("GetTraceFields = %q, %q, %v", traceID, spanID, ok)
	}
	span.End()

	if err := Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !strings.Contains(buf.String(), "engine.Analyze") {
		t.Errorf("exported spans missing name:\n%s", buf.String())
	}
}

func TestSamplerRatioBounds(t *testing.T) {
	for _, r := range []float64{0, -1, 1, 2} {
		if got := sampler(r).Description(); got != "AlwaysOnSampler" {
			t.Errorf("sampler(%v) = %s, want AlwaysOnSampler", r, got)
		}
	}
	if got := sampler(0.25).Description(); !strings.Contains(got, "TraceIDRatioBased") {
		t.Errorf("sampler(0.25) = %s", got)
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "true")
	t.Setenv("TRACE_SAMPLE_RATIO", "0.5")
	o := OptionsFromEnv("1.2.3")
	if !o.Enabled || o.SampleRatio != 0.5 || o.Version != "1.2.3" {
		t.Errorf("OptionsFromEnv = %+v", o)
	}
}

func TestAnnotateIgnoresNonRecordingSpan(t *testing.T) {
	Annotate(context.Background(), "symbol", "INFY", "dangling")
}
