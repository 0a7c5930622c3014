package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments for the billing workflow.
type Metrics struct {
	invoicesGenerated metric.Int64Counter
	paymentsRecorded  metric.Int64Counter
	emailsSent        metric.Int64Counter
	rateLimitDenied   metric.Int64Counter
	jobRuns           metric.Int64Counter
	jobDuration       metric.Float64Histogram
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "vendora"
	}
	meter := provider.Meter(name)

	invoicesGenerated, err := meter.Int64Counter("vendora_invoices_generated_total")
	if err != nil {
		return nil, err
	}
	paymentsRecorded, err := meter.Int64Counter("vendora_payments_recorded_total")
	if err != nil {
		return nil, err
	}
	emailsSent, err := meter.Int64Counter("vendora_invoice_emails_sent_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("vendora_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}
	jobRuns, err := meter.Int64Counter("vendora_scheduler_job_runs_total")
	if err != nil {
		return nil, err
	}
	jobDuration, err := meter.Float64Histogram("vendora_scheduler_job_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		invoicesGenerated: invoicesGenerated,
		paymentsRecorded:  paymentsRecorded,
		emailsSent:        emailsSent,
		rateLimitDenied:   rateLimitDenied,
		jobRuns:           jobRuns,
		jobDuration:       jobDuration,
	}, nil
}

// RecordInvoiceGenerated increments invoice generation counts.
func (m *Metrics) RecordInvoiceGenerated(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.invoicesGenerated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", strings.TrimSpace(status))))
}

// RecordPaymentRecorded increments payment counts by method.
func (m *Metrics) RecordPaymentRecorded(ctx context.Context, method string) {
	if m == nil {
		return
	}
	m.paymentsRecorded.Add(ctx, 1, metric.WithAttributes(attribute.String("method", strings.TrimSpace(method))))
}

// RecordEmailSent increments invoice email counts by template kind.
func (m *Metrics) RecordEmailSent(ctx context.Context, kind string, success bool) {
	if m == nil {
		return
	}
	m.emailsSent.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", strings.TrimSpace(kind)),
		attribute.Bool("success", success),
	))
}

// RecordRateLimitDenied increments checkout rate limit denials.
func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", strings.TrimSpace(endpoint))))
}

// ObserveJob records one scheduler job execution.
func (m *Metrics) ObserveJob(ctx context.Context, job string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("job", strings.TrimSpace(job)),
		attribute.Bool("success", err == nil),
	)
	m.jobRuns.Add(ctx, 1, attrs)
	m.jobDuration.Record(ctx, duration.Seconds(), attrs)
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}
