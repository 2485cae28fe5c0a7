package services

import (
	"context"

	"github.com/panjf2000/ants/v2"

	"content-ingestion-service/internal/logger"
	"content-ingestion-service/internal/telemetry"
	"content-ingestion-service/models"
)

// EmbeddingCreator turns chunk text into a stored embedding reference.
type EmbeddingCreator interface {
	CreateEmbedding(ctx context.Context, text string) (string, error)
}

// ConversationSeeder opens a conversation around a sampled chunk.
type ConversationSeeder interface {
	SeedConversation(ctx context.Context, userID, contentID, chunkID, seedText string) error
}

const seedTextSize = 200

// EnrichmentOrchestrator runs the per-chunk unit of work: embed, persist,
// and for sampled chunks hand a conversation seed to the background pool.
// Failures are isolated per chunk so one bad chunk never takes down its
// siblings or the job.
type EnrichmentOrchestrator struct {
	store         ContentStore
	embeddings    EmbeddingCreator
	conversations ConversationSeeder
	seedPool      *ants.Pool
	metrics       *telemetry.Metrics
}

func NewEnrichmentOrchestrator(store ContentStore, embeddings EmbeddingCreator, conversations ConversationSeeder, seedPool *ants.Pool, metrics *telemetry.Metrics) *EnrichmentOrchestrator {
	return &EnrichmentOrchestrator{
		store:         store,
		embeddings:    embeddings,
		conversations: conversations,
		seedPool:      seedPool,
		metrics:       metrics,
	}
}

// ProcessChunks walks every chunk in order. Each chunk is persisted even
// when its embedding fails; a failed insert is logged and skipped. Only
// chunks in the sampled plan get conversation seeding.
func (o *EnrichmentOrchestrator) ProcessChunks(ctx context.Context, content *models.Content, chunks []string, sampled []int) {
	sampledSet := make(map[int]bool, len(sampled))
	for _, idx := range sampled {
		sampledSet[idx] = true
	}

	for i, text := range chunks {
		o.processChunk(ctx, content, i, text, sampledSet[i])
	}
}

func (o *EnrichmentOrchestrator) processChunk(ctx context.Context, content *models.Content, order int, text string, sampled bool) {
	chunk := &models.ContentChunk{
		ContentID:  content.ID,
		ChunkOrder: order,
		ChunkText:  text,
	}

	ref, err := o.embeddings.CreateEmbedding(ctx, text)
	embeddingFailed := err != nil
	if embeddingFailed {
		logger.Warn("Embedding failed, persisting chunk without reference",
			"content_id", content.ID.Hex(), "chunk_order", order, "error", err)
	} else {
		chunk.EmbeddingRef = &ref
	}

	chunkID, err := o.store.InsertChunk(ctx, chunk)
	if err != nil {
		logger.Error("Failed to persist chunk, skipping",
			"content_id", content.ID.Hex(), "chunk_order", order, "error", err)
		return
	}
	o.metrics.RecordChunk(embeddingFailed)

	if !sampled {
		return
	}

	seed := text
	if len(seed) > seedTextSize {
		seed = seed[:seedTextSize]
	}
	userID := content.UserID
	contentID := content.ID.Hex()
	chunkHex := chunkID.Hex()

	// Fire and forget. The seeding call runs on its own pool with a fresh
	// context so a finished job cannot cancel it mid-flight.
	err = o.seedPool.Submit(func() {
		if err := o.conversations.SeedConversation(context.Background(), userID, contentID, chunkHex, seed); err != nil {
			logger.Warn("Conversation seeding failed",
				"content_id", contentID, "chunk_order", order, "error", err)
		}
	})
	if err != nil {
		logger.Warn("Could not schedule conversation seeding",
			"content_id", contentID, "chunk_order", order, "error", err)
	}
}
