package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMetadataClientExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/metadata/extract" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["text"] != "some text" {
			t.Errorf("unexpected text %q", req["text"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"title":  "A Title",
			"author": "Unknown",
		})
	}))
	defer srv.Close()

	c := NewMetadataClient(srv.URL, 5*time.Second)
	raw, err := c.ExtractMetadata(context.Background(), "some text", "file.txt", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw["title"] != "A Title" {
		t.Errorf("unexpected title: %v", raw["title"])
	}
}

func TestMetadataClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewMetadataClient(srv.URL, 5*time.Second)
	if _, err := c.ExtractMetadata(context.Background(), "text", "file.txt", ""); err == nil {
		t.Error("expected error on 500 response")
	}
}

func TestEmbeddingClientCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"embedding_id": "emb-123",
			"status":       "accepted",
		})
	}))
	defer srv.Close()

	c := NewEmbeddingClient(srv.URL, 5*time.Second, 6000)
	ref, err := c.CreateEmbedding(context.Background(), "chunk text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref != "emb-123" {
		t.Errorf("unexpected reference %q", ref)
	}
}

func TestEmbeddingClientEmptyReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
	}))
	defer srv.Close()

	c := NewEmbeddingClient(srv.URL, 5*time.Second, 6000)
	if _, err := c.CreateEmbedding(context.Background(), "chunk text"); err == nil {
		t.Error("expected error when no embedding id returned")
	}
}

func TestConversationClientSeed(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewConversationClient(srv.URL, 5*time.Second)
	err := c.SeedConversation(context.Background(), "u1", "c1", "ch1", "seed text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["user_id"] != "u1" || got["chunk_id"] != "ch1" || got["seed_text"] != "seed text" {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestConversationClientRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewConversationClient(srv.URL, 5*time.Second)
	if err := c.SeedConversation(context.Background(), "u1", "c1", "ch1", "seed"); err == nil {
		t.Error("expected error on rejected seed")
	}
}

func TestProfileClientCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["content_id"] != "c1" {
			t.Errorf("unexpected content id %q", req["content_id"])
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewProfileClient(srv.URL, 5*time.Second)
	if err := c.CreateProfile(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserClientResolveEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/u1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"email": "user@example.com"})
	}))
	defer srv.Close()

	c := NewUserClient(srv.URL, 5*time.Second)
	email, err := c.ResolveEmail(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if email != "user@example.com" {
		t.Errorf("unexpected email %q", email)
	}
}

func TestUserClientMissingEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	c := NewUserClient(srv.URL, 5*time.Second)
	if _, err := c.ResolveEmail(context.Background(), "u1"); err == nil {
		t.Error("expected error when user has no email")
	}
}
