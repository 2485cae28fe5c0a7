package textsplit

import (
	"strings"
	"testing"
)

func TestSplitEmptyText(t *testing.T) {
	if got := Split("", 1000); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
}

func TestSplitShortText(t *testing.T) {
	chunks := Split("hello", 1000)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "hello" {
		t.Errorf("expected chunk to equal input, got %q", chunks[0])
	}
}

func TestSplitExactMultiple(t *testing.T) {
	text := strings.Repeat("a", 3000)
	chunks := Split(text, 1000)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) != 1000 {
			t.Errorf("chunk %d: expected 1000 bytes, got %d", i, len(c))
		}
	}
}

func TestSplitRemainder(t *testing.T) {
	text := strings.Repeat("b", 2500)
	chunks := Split(text, 1000)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[2]) != 500 {
		t.Errorf("expected final chunk of 500 bytes, got %d", len(chunks[2]))
	}
}

func TestSplitReassembles(t *testing.T) {
	text := strings.Repeat("the quick brown fox ", 137)
	chunks := Split(text, 333)
	if strings.Join(chunks, "") != text {
		t.Error("concatenated chunks do not reproduce the input")
	}
}

func TestSplitInvalidSizePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for non-positive chunk size")
		}
	}()
	Split("text", 0)
}
