package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter    metric.Int64Counter
	RequestDuration   metric.Float64Histogram
	JobsProcessed     metric.Int64Counter
	ChunksPersisted   metric.Int64Counter
	EmbeddingFailures metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("content-ingestion-service")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	jobsProcessed, err := meter.Int64Counter(
		"ingestion.jobs.total",
		metric.WithDescription("Total ingestion jobs by terminal state"),
	)
	if err != nil {
		return nil, err
	}

	chunksPersisted, err := meter.Int64Counter(
		"ingestion.chunks.persisted",
		metric.WithDescription("Total chunks persisted"),
	)
	if err != nil {
		return nil, err
	}

	embeddingFailures, err := meter.Int64Counter(
		"ingestion.embedding.failures",
		metric.WithDescription("Total embedding requests that failed"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:    requestCounter,
		RequestDuration:   requestDuration,
		JobsProcessed:     jobsProcessed,
		ChunksPersisted:   chunksPersisted,
		EmbeddingFailures: embeddingFailures,
	}, nil
}

// RecordRequest records one handled HTTP request
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	if m == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.String("status", status),
	)
	m.RequestCounter.Add(ctx, 1, attrs)
	m.RequestDuration.Record(ctx, duration, attrs)
}

// RecordJob records one ingestion job reaching a terminal state
func (m *Metrics) RecordJob(state string) {
	if m == nil {
		return
	}
	m.JobsProcessed.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("state", state)))
}

// RecordChunk records the outcome of persisting one chunk
func (m *Metrics) RecordChunk(embeddingFailed bool) {
	if m == nil {
		return
	}
	ctx := context.Background()
	m.ChunksPersisted.Add(ctx, 1)
	if embeddingFailed {
		m.EmbeddingFailures.Add(ctx, 1)
	}
}
