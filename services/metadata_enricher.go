package services

import (
	"context"
	"time"

	"content-ingestion-service/internal/logger"
	"content-ingestion-service/models"
)

// MetadataExtractor is the collaborator contract for document metadata.
type MetadataExtractor interface {
	ExtractMetadata(ctx context.Context, textPrefix, filename, hint string) (map[string]any, error)
}

// MetadataEnricher wraps the extractor with the pipeline's best-effort
// policy: a failed or malformed extraction degrades to empty metadata
// and never fails the job.
type MetadataEnricher struct {
	extractor  MetadataExtractor
	prefixSize int
}

func NewMetadataEnricher(extractor MetadataExtractor, prefixSize int) *MetadataEnricher {
	if prefixSize <= 0 {
		prefixSize = 3000
	}
	return &MetadataEnricher{extractor: extractor, prefixSize: prefixSize}
}

// Enrich sends the opening of the document to the metadata service and
// normalizes whatever comes back. On any error the result is empty
// metadata, logged and swallowed.
func (e *MetadataEnricher) Enrich(ctx context.Context, text, filename, hint string) models.ContentMetadata {
	prefix := text
	if len(prefix) > e.prefixSize {
		prefix = prefix[:e.prefixSize]
	}

	raw, err := e.extractor.ExtractMetadata(ctx, prefix, filename, hint)
	if err != nil {
		logger.Warn("Metadata extraction failed, continuing without metadata",
			"filename", filename, "error", err)
		return models.ContentMetadata{}
	}
	return ValidateMetadata(raw)
}

// ValidateMetadata normalizes a raw metadata map into the fixed schema.
// Every field is present in the result; missing keys, non-string values,
// the literal "Unknown" and unparseable dates all collapse to nil.
func ValidateMetadata(raw map[string]any) models.ContentMetadata {
	return models.ContentMetadata{
		Title:           cleanField(raw, "title"),
		Author:          cleanField(raw, "author"),
		PublicationDate: cleanDate(raw, "publication_date"),
		Publisher:       cleanField(raw, "publisher"),
		SourceLanguage:  cleanField(raw, "source_language"),
		Genre:           cleanField(raw, "genre"),
		Topic:           cleanField(raw, "topic"),
	}
}

func cleanField(raw map[string]any, key string) *string {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok || s == "" || s == "Unknown" {
		return nil
	}
	return &s
}

func cleanDate(raw map[string]any, key string) *string {
	s := cleanField(raw, key)
	if s == nil {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *s); err != nil {
		return nil
	}
	return s
}
