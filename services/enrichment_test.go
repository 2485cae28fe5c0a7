package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"content-ingestion-service/models"
)

type fakeStore struct {
	mu               sync.Mutex
	contents         []models.Content
	chunks           []models.ContentChunk
	chunkCounts      map[string]int
	failCreate       bool
	failInsertOrders map[int]bool
	failSetCount     bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{chunkCounts: make(map[string]int)}
}

func (s *fakeStore) CreateContent(ctx context.Context, content *models.Content) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return primitive.NilObjectID, errors.New("create failed")
	}
	if content.ID.IsZero() {
		content.ID = primitive.NewObjectID()
	}
	s.contents = append(s.contents, *content)
	return content.ID, nil
}

func (s *fakeStore) InsertChunk(ctx context.Context, chunk *models.ContentChunk) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsertOrders[chunk.ChunkOrder] {
		return primitive.NilObjectID, errors.New("insert failed")
	}
	if chunk.ID.IsZero() {
		chunk.ID = primitive.NewObjectID()
	}
	s.chunks = append(s.chunks, *chunk)
	return chunk.ID, nil
}

func (s *fakeStore) SetChunkCount(ctx context.Context, contentID primitive.ObjectID, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSetCount {
		return errors.New("update failed")
	}
	s.chunkCounts[contentID.Hex()] = count
	return nil
}

func (s *fakeStore) ListContents(ctx context.Context, userID string) ([]models.ContentSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ContentSummary
	for _, c := range s.contents {
		if c.UserID == userID {
			out = append(out, models.ContentSummary{ID: c.ID.Hex(), FileName: c.FileName})
		}
	}
	return out, nil
}

func (s *fakeStore) ListChunks(ctx context.Context, contentID primitive.ObjectID) ([]models.ChunkSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ChunkSummary
	for _, c := range s.chunks {
		if c.ContentID == contentID {
			out = append(out, models.ChunkSummary{ID: c.ID.Hex(), Order: c.ChunkOrder, EmbeddingRef: c.EmbeddingRef})
		}
	}
	if len(out) == 0 {
		return nil, ErrContentNotFound
	}
	return out, nil
}

func (s *fakeStore) storedChunks() []models.ContentChunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ContentChunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}

type fakeEmbedder struct {
	mu       sync.Mutex
	failFor  map[string]bool
	failAll  bool
	requests int
}

func (f *fakeEmbedder) CreateEmbedding(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	if f.failAll || f.failFor[text] {
		return "", errors.New("embedding unavailable")
	}
	return fmt.Sprintf("emb-%d", f.requests), nil
}

type seedCall struct {
	userID, contentID, chunkID, seedText string
}

type fakeSeeder struct {
	mu    sync.Mutex
	calls []seedCall
	err   error
}

func (f *fakeSeeder) SeedConversation(ctx context.Context, userID, contentID, chunkID, seedText string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, seedCall{userID, contentID, chunkID, seedText})
	return f.err
}

func (f *fakeSeeder) seeded() []seedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]seedCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestOrchestrator(t *testing.T, store *fakeStore, embedder *fakeEmbedder, seeder *fakeSeeder) *EnrichmentOrchestrator {
	t.Helper()
	pool, err := ants.NewPool(2)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Release)
	return NewEnrichmentOrchestrator(store, embedder, seeder, pool, nil)
}

func testContent(userID string) *models.Content {
	return &models.Content{ID: primitive.NewObjectID(), UserID: userID, FileName: "doc.txt"}
}

func TestProcessChunksPersistsAll(t *testing.T) {
	store := newFakeStore()
	embedder := &fakeEmbedder{}
	seeder := &fakeSeeder{}
	o := newTestOrchestrator(t, store, embedder, seeder)

	content := testContent("u1")
	o.ProcessChunks(context.Background(), content, []string{"one", "two", "three"}, []int{1})

	chunks := store.storedChunks()
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkOrder != i {
			t.Errorf("chunk %d has order %d", i, c.ChunkOrder)
		}
		if c.EmbeddingRef == nil {
			t.Errorf("chunk %d missing embedding reference", i)
		}
	}

	waitFor(t, "conversation seeding", func() bool { return len(seeder.seeded()) == 1 })
	call := seeder.seeded()[0]
	if call.seedText != "two" {
		t.Errorf("seeded wrong chunk: %+v", call)
	}
	if call.userID != "u1" || call.contentID != content.ID.Hex() {
		t.Errorf("wrong seed identifiers: %+v", call)
	}
}

func TestProcessChunksEmbeddingFailureStillPersists(t *testing.T) {
	store := newFakeStore()
	embedder := &fakeEmbedder{failFor: map[string]bool{"bad": true}}
	seeder := &fakeSeeder{}
	o := newTestOrchestrator(t, store, embedder, seeder)

	o.ProcessChunks(context.Background(), testContent("u1"), []string{"ok", "bad"}, nil)

	chunks := store.storedChunks()
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].EmbeddingRef == nil {
		t.Error("healthy chunk lost its reference")
	}
	if chunks[1].EmbeddingRef != nil {
		t.Error("failed embedding should leave a nil reference")
	}
}

func TestProcessChunksInsertFailureIsolated(t *testing.T) {
	store := newFakeStore()
	store.failInsertOrders = map[int]bool{1: true}
	embedder := &fakeEmbedder{}
	seeder := &fakeSeeder{}
	o := newTestOrchestrator(t, store, embedder, seeder)

	o.ProcessChunks(context.Background(), testContent("u1"), []string{"a", "b", "c"}, []int{1})

	chunks := store.storedChunks()
	if len(chunks) != 2 {
		t.Fatalf("expected 2 surviving chunks, got %d", len(chunks))
	}
	if chunks[0].ChunkOrder != 0 || chunks[1].ChunkOrder != 2 {
		t.Errorf("wrong chunks survived: %+v", chunks)
	}

	// The sampled chunk failed to persist, so nothing gets seeded.
	time.Sleep(50 * time.Millisecond)
	if len(seeder.seeded()) != 0 {
		t.Errorf("unpersisted chunk must not seed a conversation")
	}
}

func TestProcessChunksSeedTextTruncated(t *testing.T) {
	store := newFakeStore()
	embedder := &fakeEmbedder{}
	seeder := &fakeSeeder{}
	o := newTestOrchestrator(t, store, embedder, seeder)

	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	o.ProcessChunks(context.Background(), testContent("u1"), []string{string(long)}, []int{0})

	waitFor(t, "conversation seeding", func() bool { return len(seeder.seeded()) == 1 })
	if got := len(seeder.seeded()[0].seedText); got != 200 {
		t.Errorf("expected 200-byte seed text, got %d", got)
	}
}
