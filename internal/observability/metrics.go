package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const metricNamespace = "finitefield.org/verinum-web/wizard"

// WizardMetrics counts wizard transitions. A nil receiver records nothing.
type WizardMetrics struct {
	transitions metric.Int64Counter
	rejections  metric.Int64Counter
	completions metric.Int64Counter
}

// NewWizardMetrics registers the wizard counters on meter, or on the global provider when meter is nil.
// Instruments that fail to register are skipped and logged.
func NewWizardMetrics(meter metric.Meter, logger *zap.Logger) *WizardMetrics {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(metricNamespace)
	}
	if logger == nil {
		logger = nopLogger
	}
	m := &WizardMetrics{}
	var err error
	if m.transitions, err = meter.Int64Counter(
		"wizard.step.transitions",
		metric.WithDescription("Count of accepted wizard step transitions"),
	); err != nil {
		logger.Warn("metrics: unable to register transition counter", zap.Error(err))
		m.transitions = nil
	}
	if m.rejections, err = meter.Int64Counter(
		"wizard.step.rejections",
		metric.WithDescription("Count of wizard steps rejected by validation"),
	); err != nil {
		logger.Warn("metrics: unable to register rejection counter", zap.Error(err))
		m.rejections = nil
	}
	if m.completions, err = meter.Int64Counter(
		"wizard.numbers.composed",
		metric.WithDescription("Count of verification numbers composed"),
	); err != nil {
		logger.Warn("metrics: unable to register completion counter", zap.Error(err))
		m.completions = nil
	}
	return m
}

// Transition records a move between two steps.
func (m *WizardMetrics) Transition(ctx context.Context, from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// Rejected records a validation failure on step.
func (m *WizardMetrics) Rejected(ctx context.Context, step, reason string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("reason", reason),
	))
}

// Composed records a finished verification number for the given calendar.
func (m *WizardMetrics) Composed(ctx context.Context, calendar string) {
	if m == nil || m.completions == nil {
		return
	}
	m.completions.Add(ctx, 1, metric.WithAttributes(attribute.String("calendar", calendar)))
}
