package jobs

import (
	"errors"
	"sync"
	"testing"
)

func TestCreateStartsProcessing(t *testing.T) {
	tr := NewTracker()
	id := tr.Create()

	st, err := tr.Read(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.State != StateProcessing {
		t.Errorf("expected processing, got %s", st.State)
	}
}

func TestReadUnknownJob(t *testing.T) {
	tr := NewTracker()
	if _, err := tr.Read("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCompletedEvictedOnFirstRead(t *testing.T) {
	tr := NewTracker()
	id := tr.Create()
	tr.MarkCompleted(id, Result{ContentID: "abc", FileName: "a.txt", ChunkCount: 3, Preview: "hi"})

	st, err := tr.Read(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.State != StateCompleted {
		t.Fatalf("expected completed, got %s", st.State)
	}
	if st.Result == nil || st.Result.ChunkCount != 3 {
		t.Fatalf("missing result payload: %+v", st.Result)
	}

	if _, err := tr.Read(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected eviction after first read, got %v", err)
	}
}

func TestFailedRetainedAcrossReads(t *testing.T) {
	tr := NewTracker()
	id := tr.Create()
	tr.MarkFailed(id, "extraction failed")

	for i := 0; i < 3; i++ {
		st, err := tr.Read(id)
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if st.State != StateFailed {
			t.Fatalf("read %d: expected failed, got %s", i, st.State)
		}
		if st.Error != "extraction failed" {
			t.Fatalf("read %d: wrong error message %q", i, st.Error)
		}
	}
}

func TestProcessingReadIsNotEviction(t *testing.T) {
	tr := NewTracker()
	id := tr.Create()

	for i := 0; i < 3; i++ {
		if _, err := tr.Read(id); err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
	}
}

func TestConcurrentCreatesAreUnique(t *testing.T) {
	tr := NewTracker()
	const n = 100

	var mu sync.Mutex
	ids := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := tr.Create()
			mu.Lock()
			ids[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(ids) != n {
		t.Errorf("expected %d unique ids, got %d", n, len(ids))
	}
}
