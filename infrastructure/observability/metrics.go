package observability

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"lottogen/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for lottogen
type MetricsProvider struct {
	config        *config.Config
	reader        sdkmetric.Reader // Overrides the configured exporter when set
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	archiveFetchesCounter        metric.Int64Counter
	archiveFetchDurationHist     metric.Float64Histogram
	archiveDrawsLoadedGauge      metric.Int64Gauge
	generationRunsCounter        metric.Int64Counter
	generationDurationHist       metric.Float64Histogram
	ticketsGeneratedCounter      metric.Int64Counter
	natsMessagesPublishedCounter metric.Int64Counter
	httpRequestsCounter          metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// NewMetricsProviderWithReader creates a provider that feeds the given reader
// instead of the configured exporter
func NewMetricsProviderWithReader(cfg *config.Config, reader sdkmetric.Reader) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
		reader: reader,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled && mp.reader == nil {
		log.Debug("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	reader := mp.reader
	if reader == nil {
		var exporter sdkmetric.Exporter
		switch mp.config.OTelExporterType {
		case "console":
			exporter, err = stdoutmetric.New()
			if err != nil {
				return fmt.Errorf("failed to create console exporter: %w", err)
			}
			log.Info("Using console metric exporter")

		case "otlp":
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			exporter, err = otlpmetricgrpc.New(ctx,
				otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
				otlpmetricgrpc.WithInsecure(),
			)
			if err != nil {
				return fmt.Errorf("failed to create OTLP exporter: %w", err)
			}
			log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

		case "none":
			log.Info("Metrics export disabled (exporter_type='none')")
			mp.initialized = true
			return nil

		default:
			return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
		}

		reader = sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
		)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("lottogen")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	// Archive metrics
	mp.archiveFetchesCounter, err = mp.meter.Int64Counter(
		ArchiveFetchesTotal,
		metric.WithDescription("Total number of archive documents requested"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create archive fetches counter: %w", err)
	}

	mp.archiveFetchDurationHist, err = mp.meter.Float64Histogram(
		ArchiveFetchDuration,
		metric.WithDescription("Duration of archive downloads in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create archive fetch duration histogram: %w", err)
	}

	mp.archiveDrawsLoadedGauge, err = mp.meter.Int64Gauge(
		ArchiveDrawsLoaded,
		metric.WithDescription("Number of distinct draws in the last archive load"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create draws loaded gauge: %w", err)
	}

	// Generation metrics
	mp.generationRunsCounter, err = mp.meter.Int64Counter(
		GenerationRunsTotal,
		metric.WithDescription("Total number of generation runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create generation runs counter: %w", err)
	}

	mp.generationDurationHist, err = mp.meter.Float64Histogram(
		GenerationDuration,
		metric.WithDescription("Duration of generation runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create generation duration histogram: %w", err)
	}

	mp.ticketsGeneratedCounter, err = mp.meter.Int64Counter(
		TicketsGeneratedTotal,
		metric.WithDescription("Total number of tickets generated"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create tickets generated counter: %w", err)
	}

	// NATS metrics
	mp.natsMessagesPublishedCounter, err = mp.meter.Int64Counter(
		NATSMessagesPublishedTotal,
		metric.WithDescription("Total number of NATS messages published"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS messages published counter: %w", err)
	}

	// HTTP metrics
	mp.httpRequestsCounter, err = mp.meter.Int64Counter(
		HTTPRequestsTotal,
		metric.WithDescription("Total number of HTTP API requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create HTTP requests counter: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordArchiveFetch records one archive document request
func (mp *MetricsProvider) RecordArchiveFetch(ctx context.Context, source, outcome string, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelSource, source),
		attribute.String(LabelOutcome, outcome),
	)
	mp.archiveFetchesCounter.Add(ctx, 1, attrs)
	if duration > 0 {
		mp.archiveFetchDurationHist.Record(ctx, duration.Seconds(), attrs)
	}
}

// RecordDrawsLoaded records the size of the last draw history load
func (mp *MetricsProvider) RecordDrawsLoaded(ctx context.Context, count int) {
	if !mp.isEnabled() {
		return
	}

	mp.archiveDrawsLoadedGauge.Record(ctx, int64(count))
}

// RecordGeneration records a finished generation run
func (mp *MetricsProvider) RecordGeneration(ctx context.Context, outcome string, produced int, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(attribute.String(LabelOutcome, outcome))
	mp.generationRunsCounter.Add(ctx, 1, attrs)
	mp.generationDurationHist.Record(ctx, duration.Seconds(), attrs)
	if produced > 0 {
		mp.ticketsGeneratedCounter.Add(ctx, int64(produced),
			metric.WithAttributes(attribute.Bool(LabelPartial, outcome == GenerationOutcomePartial)),
		)
	}
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsMessagesPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelEventType, eventType),
		),
	)
}

// RecordHTTPRequest records a served API request
func (mp *MetricsProvider) RecordHTTPRequest(ctx context.Context, method, route string, status int) {
	if !mp.isEnabled() {
		return
	}

	mp.httpRequestsCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String(LabelMethod, method),
			attribute.String(LabelRoute, route),
			attribute.String(LabelStatus, strconv.Itoa(status)),
		),
	)
}

// isEnabled checks if instruments exist
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.meter != nil
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider, nil before initialization.
// Recording on a nil provider is a no-op.
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
