package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content represents one accepted upload and its derived document record.
// chunk_count is written exactly once, after all chunks have been processed,
// and then equals the number of ContentChunk rows for this document.
type Content struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	FileName     string             `bson:"file_name" json:"file_name"`
	FileType     string             `bson:"file_type" json:"file_type"`
	FileSize     int64              `bson:"file_size" json:"file_size"`
	StorageKey   string             `bson:"storage_key" json:"storage_key"`
	CustomPrompt string             `bson:"custom_prompt,omitempty" json:"custom_prompt,omitempty"`
	Metadata     ContentMetadata    `bson:"metadata" json:"metadata"`
	ChunkCount   int                `bson:"chunk_count" json:"chunk_count"`
	UploadedAt   time.Time          `bson:"uploaded_at" json:"uploaded_at"`
}

// ContentChunk is one fixed-size slice of the extracted text, ordered by
// ChunkOrder (0-based, contiguous). EmbeddingRef stays nil when embedding
// creation failed; the chunk itself is still persisted.
type ContentChunk struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ContentID    primitive.ObjectID `bson:"content_id" json:"content_id"`
	ChunkOrder   int                `bson:"chunk_order" json:"chunk_order"`
	ChunkText    string             `bson:"chunk_text" json:"chunk_text"`
	EmbeddingRef *string            `bson:"embedding_ref,omitempty" json:"embedding_ref,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// ContentMetadata holds the document metadata derived by the metadata
// service. All seven fields are always present after validation; a nil
// field means the service did not supply a usable value.
type ContentMetadata struct {
	Title           *string `bson:"title" json:"title"`
	Author          *string `bson:"author" json:"author"`
	PublicationDate *string `bson:"publication_date" json:"publication_date"`
	Publisher       *string `bson:"publisher" json:"publisher"`
	SourceLanguage  *string `bson:"source_language" json:"source_language"`
	Genre           *string `bson:"genre" json:"genre"`
	Topic           *string `bson:"topic" json:"topic"`
}

// ChunkSummary is the listing view of a chunk: identity, position and
// whether an embedding reference was recorded.
type ChunkSummary struct {
	ID           string  `json:"id"`
	Order        int     `json:"order"`
	EmbeddingRef *string `json:"embedding_ref,omitempty"`
}

// ContentSummary is the listing view of a content record.
type ContentSummary struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}
