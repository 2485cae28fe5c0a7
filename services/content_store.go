package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"content-ingestion-service/models"
)

// ErrContentNotFound is returned for lookups against unknown content or
// content that never produced chunks.
var ErrContentNotFound = errors.New("content not found")

// ContentStore is the persistence contract the pipeline runs against.
// Content creation is its own commit; each chunk insert commits
// incrementally and SetChunkCount finalizes the document exactly once.
type ContentStore interface {
	CreateContent(ctx context.Context, content *models.Content) (primitive.ObjectID, error)
	InsertChunk(ctx context.Context, chunk *models.ContentChunk) (primitive.ObjectID, error)
	SetChunkCount(ctx context.Context, contentID primitive.ObjectID, count int) error
	ListContents(ctx context.Context, userID string) ([]models.ContentSummary, error)
	ListChunks(ctx context.Context, contentID primitive.ObjectID) ([]models.ChunkSummary, error)
}

// MongoContentStore keeps content records and their chunks in two
// collections, one row per chunk.
type MongoContentStore struct {
	contents *mongo.Collection
	chunks   *mongo.Collection
}

func NewMongoContentStore(db *mongo.Database) *MongoContentStore {
	return &MongoContentStore{
		contents: db.Collection("content"),
		chunks:   db.Collection("content_chunks"),
	}
}

func (s *MongoContentStore) CreateContent(ctx context.Context, content *models.Content) (primitive.ObjectID, error) {
	if content.ID.IsZero() {
		content.ID = primitive.NewObjectID()
	}
	if content.UploadedAt.IsZero() {
		content.UploadedAt = time.Now()
	}

	if _, err := s.contents.InsertOne(ctx, content); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create content record: %w", err)
	}
	return content.ID, nil
}

func (s *MongoContentStore) InsertChunk(ctx context.Context, chunk *models.ContentChunk) (primitive.ObjectID, error) {
	if chunk.ID.IsZero() {
		chunk.ID = primitive.NewObjectID()
	}
	chunk.CreatedAt = time.Now()

	if _, err := s.chunks.InsertOne(ctx, chunk); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to persist chunk %d: %w", chunk.ChunkOrder, err)
	}
	return chunk.ID, nil
}

func (s *MongoContentStore) SetChunkCount(ctx context.Context, contentID primitive.ObjectID, count int) error {
	res, err := s.contents.UpdateOne(ctx,
		bson.M{"_id": contentID},
		bson.M{"$set": bson.M{"chunk_count": count}},
	)
	if err != nil {
		return fmt.Errorf("failed to finalize chunk count: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrContentNotFound
	}
	return nil
}

func (s *MongoContentStore) ListContents(ctx context.Context, userID string) ([]models.ContentSummary, error) {
	cursor, err := s.contents.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.M{"uploaded_at": -1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.Content
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}

	summaries := make([]models.ContentSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, models.ContentSummary{
			ID:         doc.ID.Hex(),
			FileName:   doc.FileName,
			ChunkCount: doc.ChunkCount,
			UploadedAt: doc.UploadedAt,
		})
	}
	return summaries, nil
}

func (s *MongoContentStore) ListChunks(ctx context.Context, contentID primitive.ObjectID) ([]models.ChunkSummary, error) {
	cursor, err := s.chunks.Find(ctx,
		bson.M{"content_id": contentID},
		options.Find().SetSort(bson.M{"chunk_order": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.ContentChunk
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode chunks: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrContentNotFound
	}

	summaries := make([]models.ChunkSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, models.ChunkSummary{
			ID:           doc.ID.Hex(),
			Order:        doc.ChunkOrder,
			EmbeddingRef: doc.EmbeddingRef,
		})
	}
	return summaries, nil
}
