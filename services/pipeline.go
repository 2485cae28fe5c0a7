package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"content-ingestion-service/internal/config"
	"content-ingestion-service/internal/jobs"
	"content-ingestion-service/internal/logger"
	"content-ingestion-service/internal/telemetry"
	"content-ingestion-service/internal/textsplit"
	"content-ingestion-service/models"
)

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor interface {
	Extract(data []byte, filename string) (string, error)
}

// ProfileCreator registers new content with the profile service.
type ProfileCreator interface {
	CreateProfile(ctx context.Context, contentID string) error
}

// EmailResolver looks up the notification address for a user.
type EmailResolver interface {
	ResolveEmail(ctx context.Context, userID string) (string, error)
}

// ValidationError marks a rejection the handler should report as a client
// error rather than a server fault.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UploadRequest is a fully read upload, handed over by the HTTP layer.
type UploadRequest struct {
	UserID       string
	FileName     string
	CustomPrompt string
	Data         []byte
}

// IngestionPipeline accepts uploads, answers with a job id immediately and
// runs the rest of the work on a bounded background pool: extraction,
// metadata enrichment, persistence, chunking, sampling and per-chunk
// enrichment, then job finalization.
type IngestionPipeline struct {
	cfg          *config.Config
	store        ContentStore
	extractor    TextExtractor
	enricher     *MetadataEnricher
	orchestrator *EnrichmentOrchestrator
	profiles     ProfileCreator
	users        EmailResolver
	notifier     Notifier
	tracker      *jobs.Tracker
	metrics      *telemetry.Metrics

	ingestPool *ants.Pool
	seedPool   *ants.Pool
}

func NewIngestionPipeline(
	cfg *config.Config,
	store ContentStore,
	extractor TextExtractor,
	metadata MetadataExtractor,
	embeddings EmbeddingCreator,
	conversations ConversationSeeder,
	profiles ProfileCreator,
	users EmailResolver,
	notifier Notifier,
	metrics *telemetry.Metrics,
) (*IngestionPipeline, error) {
	ingestPool, err := ants.NewPool(cfg.IngestWorkers)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingest pool: %w", err)
	}
	seedPool, err := ants.NewPool(cfg.SeedWorkers)
	if err != nil {
		ingestPool.Release()
		return nil, fmt.Errorf("failed to create seed pool: %w", err)
	}

	return &IngestionPipeline{
		cfg:          cfg,
		store:        store,
		extractor:    extractor,
		enricher:     NewMetadataEnricher(metadata, cfg.MetadataPrefixSize),
		orchestrator: NewEnrichmentOrchestrator(store, embeddings, conversations, seedPool, metrics),
		profiles:     profiles,
		users:        users,
		notifier:     notifier,
		tracker:      jobs.NewTracker(),
		metrics:      metrics,
		ingestPool:   ingestPool,
		seedPool:     seedPool,
	}, nil
}

// Close releases the worker pools. In-flight work is allowed to finish.
func (p *IngestionPipeline) Close() {
	p.ingestPool.Release()
	p.seedPool.Release()
}

// Submit validates the upload, stores the raw file and schedules the
// background job. The returned job id is valid immediately.
func (p *IngestionPipeline) Submit(req UploadRequest) (string, error) {
	if req.UserID == "" {
		return "", &ValidationError{Message: "user_id is required"}
	}
	if req.FileName == "" {
		return "", &ValidationError{Message: "no file provided"}
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.FileName), "."))
	if !p.extensionAllowed(ext) {
		return "", &ValidationError{Message: fmt.Sprintf("file type .%s is not supported", ext)}
	}
	if int64(len(req.Data)) > p.cfg.MaxFileSize {
		return "", &ValidationError{Message: fmt.Sprintf("file exceeds maximum size of %d bytes", p.cfg.MaxFileSize)}
	}

	storageKey := uuid.NewString() + "." + ext
	storagePath := filepath.Join(p.cfg.FileStorageDir, storageKey)
	if err := os.MkdirAll(p.cfg.FileStorageDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to prepare storage directory: %w", err)
	}
	if err := os.WriteFile(storagePath, req.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store uploaded file: %w", err)
	}

	jobID := p.tracker.Create()
	if err := p.ingestPool.Submit(func() {
		p.run(jobID, req, storageKey, storagePath)
	}); err != nil {
		p.fail(jobID, "failed to schedule processing: "+err.Error())
		p.removeStoredFile(storagePath)
	}
	return jobID, nil
}

// QueryStatus reads the job entry. A completed job is gone after the
// first read.
func (p *IngestionPipeline) QueryStatus(jobID string) (jobs.Status, error) {
	return p.tracker.Read(jobID)
}

// ListContents returns the summaries for a user's processed documents.
func (p *IngestionPipeline) ListContents(ctx context.Context, userID string) ([]models.ContentSummary, error) {
	return p.store.ListContents(ctx, userID)
}

// ListChunks returns chunk summaries for one content record.
func (p *IngestionPipeline) ListChunks(ctx context.Context, contentID string) ([]models.ChunkSummary, error) {
	oid, err := primitive.ObjectIDFromHex(contentID)
	if err != nil {
		return nil, ErrContentNotFound
	}
	return p.store.ListChunks(ctx, oid)
}

func (p *IngestionPipeline) extensionAllowed(ext string) bool {
	for _, allowed := range p.cfg.AllowedExtensions {
		if ext == strings.TrimSpace(allowed) {
			return true
		}
	}
	return false
}

// run is the background unit of work for one upload. It owns the job's
// terminal state: every exit path marks the tracker exactly once.
func (p *IngestionPipeline) run(jobID string, req UploadRequest, storageKey, storagePath string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Ingestion job panicked", "job_id", jobID, "panic", r)
			p.fail(jobID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	// Jobs outlive the request that created them, so nothing here is tied
	// to a request context.
	ctx := context.Background()

	text, err := p.extractor.Extract(req.Data, req.FileName)
	if err != nil {
		logger.Error("Text extraction failed", "job_id", jobID, "filename", req.FileName, "error", err)
		p.fail(jobID, "text extraction failed: "+err.Error())
		p.removeStoredFile(storagePath)
		return
	}

	metadata := p.enricher.Enrich(ctx, text, req.FileName, req.CustomPrompt)

	content := &models.Content{
		UserID:       req.UserID,
		FileName:     req.FileName,
		FileType:     strings.ToLower(strings.TrimPrefix(filepath.Ext(req.FileName), ".")),
		FileSize:     int64(len(req.Data)),
		StorageKey:   storageKey,
		CustomPrompt: req.CustomPrompt,
		Metadata:     metadata,
	}
	contentID, err := p.store.CreateContent(ctx, content)
	if err != nil {
		logger.Error("Failed to persist content", "job_id", jobID, "filename", req.FileName, "error", err)
		p.fail(jobID, "failed to persist content: "+err.Error())
		p.removeStoredFile(storagePath)
		return
	}

	// The raw file only needs to survive until the content record commits.
	p.removeStoredFile(storagePath)

	if err := p.profiles.CreateProfile(ctx, contentID.Hex()); err != nil {
		logger.Warn("Profile creation failed", "job_id", jobID, "content_id", contentID.Hex(), "error", err)
	}

	chunks := textsplit.Split(text, p.cfg.ChunkSize)
	plan := textsplit.Sample(len(chunks), p.cfg.MaxSampledChunks)
	p.orchestrator.ProcessChunks(ctx, content, chunks, plan)

	if err := p.store.SetChunkCount(ctx, contentID, len(chunks)); err != nil {
		logger.Error("Failed to finalize chunk count", "job_id", jobID, "content_id", contentID.Hex(), "error", err)
	}

	preview := text
	if len(preview) > 500 {
		preview = preview[:500]
	}
	p.tracker.MarkCompleted(jobID, jobs.Result{
		ContentID:  contentID.Hex(),
		FileName:   req.FileName,
		ChunkCount: len(chunks),
		Preview:    preview,
	})
	p.metrics.RecordJob("completed")
	logger.Info("Ingestion job completed", "job_id", jobID, "content_id", contentID.Hex(), "chunks", len(chunks))

	p.notifyProcessed(ctx, req.UserID, req.FileName, len(chunks))
}

func (p *IngestionPipeline) notifyProcessed(ctx context.Context, userID, filename string, chunkCount int) {
	to, err := p.users.ResolveEmail(ctx, userID)
	if err != nil {
		logger.Warn("Email lookup failed, using default notify address", "user_id", userID, "error", err)
		to = p.cfg.DefaultNotifyEmail
	}
	if err := p.notifier.SendProcessedNotice(to, filename, chunkCount); err != nil {
		logger.Warn("Processed notice failed", "to", to, "filename", filename, "error", err)
	}
}

func (p *IngestionPipeline) fail(jobID, msg string) {
	p.tracker.MarkFailed(jobID, msg)
	p.metrics.RecordJob("failed")
}

func (p *IngestionPipeline) removeStoredFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn("Failed to remove stored file", "path", path, "error", err)
	}
}
