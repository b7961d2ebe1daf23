package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tc := range tests {
		logger, err := NewLogger(tc.in)
		if err != nil {
			t.Fatalf("NewLogger(%q): %v", tc.in, err)
		}
		if !logger.Core().Enabled(tc.want) {
			t.Errorf("NewLogger(%q): expected %s enabled", tc.in, tc.want)
		}
		if tc.want > zapcore.DebugLevel && logger.Core().Enabled(tc.want-1) {
			t.Errorf("NewLogger(%q): expected %s disabled", tc.in, tc.want-1)
		}
	}
}

func TestContextLogger(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatalf("expected no-op logger from empty context")
	}
	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Fatalf("expected stored logger")
	}
}

func TestTraceMiddlewarePassesStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Use(TraceMiddleware("verinum-web"))
	r.Get("/verify", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verify", nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestWizardMetricsNilSafe(t *testing.T) {
	var m *WizardMetrics
	m.Transition(context.Background(), "birthdate", "expiry")
	m.Rejected(context.Background(), "expiry", "format")
	m.Composed(context.Background(), "western")

	m = NewWizardMetrics(noop.NewMeterProvider().Meter("test"), nil)
	m.Transition(context.Background(), "birthdate", "expiry")
	m.Composed(context.Background(), "era")
}

func TestWizardMetricsRecordCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx := context.Background()
	m := NewWizardMetrics(provider.Meter("test"), zap.NewNop())
	m.Transition(ctx, "birthdate", "expiry")
	m.Transition(ctx, "expiry", "security")
	m.Rejected(ctx, "expiry", "expiry_format")
	m.Composed(ctx, "和暦")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	sums := map[string]metricdata.Sum[int64]{}
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			if sum, ok := metric.Data.(metricdata.Sum[int64]); ok {
				sums[metric.Name] = sum
			}
		}
	}

	tests := []struct {
		name  string
		total int64
		attr  attribute.KeyValue
	}{
		{name: "wizard.step.transitions", total: 2, attr: attribute.String("from", "birthdate")},
		{name: "wizard.step.rejections", total: 1, attr: attribute.String("reason", "expiry_format")},
		{name: "wizard.numbers.composed", total: 1, attr: attribute.String("calendar", "和暦")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sum, ok := sums[tc.name]
			if !ok {
				t.Fatalf("counter %s not recorded; got %v", tc.name, sums)
			}
			var total int64
			found := false
			for _, dp := range sum.DataPoints {
				total += dp.Value
				if v, ok := dp.Attributes.Value(tc.attr.Key); ok && v.AsString() == tc.attr.Value.AsString() {
					found = true
				}
			}
			if total != tc.total {
				t.Errorf("expected %d, got %d", tc.total, total)
			}
			if !found {
				t.Errorf("expected a data point with %s=%s", tc.attr.Key, tc.attr.Value.Emit())
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	if got := SanitizePath(""); got != "/" {
		t.Fatalf("expected root path, got %q", got)
	}
	if got := SanitizePath("/verify\n\x00"); got != "/verify" {
		t.Fatalf("expected control characters removed, got %q", got)
	}
	if got := SanitizeMethod("POSTPOSTPOSTPOST"); len(got) != 10 {
		t.Fatalf("expected method truncated to 10, got %q", got)
	}
}
