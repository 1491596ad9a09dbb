package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/vertexlab/identity-api/internal/core/domain"
)

type captureAuditRepo struct {
	mu      sync.Mutex
	records []domain.AuditRecord
	done    chan struct{}
	want    int
}

func newCaptureAuditRepo(want int) *captureAuditRepo {
	return &captureAuditRepo{done: make(chan struct{}), want: want}
}

func (r *captureAuditRepo) Append(_ context.Context, rec domain.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	if len(r.records) == r.want {
		close(r.done)
	}
	return nil
}

func (r *captureAuditRepo) List(context.Context) ([]domain.AuditRecord, error) {
	return nil, nil
}

func (r *captureAuditRepo) ListByUsername(context.Context, string) ([]domain.AuditRecord, error) {
	return nil, nil
}

func (r *captureAuditRepo) snapshot() []domain.AuditRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditRecord(nil), r.records...)
}

func TestAuditWriter_AppendsRecords(t *testing.T) {
	repo := newCaptureAuditRepo(2)
	w := NewAuditWriter(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	w.Record("alice", "User logged in successfully")
	w.Record("bob", "User created successfully")

	select {
	case <-repo.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for appends, got %d", len(repo.snapshot()))
	}

	records := repo.snapshot()
	seen := make(map[string]string, len(records))
	for _, rec := range records {
		seen[rec.Username] = rec.Description
		if rec.CreatedAt.IsZero() {
			t.Fatalf("expected timestamp on record for %s", rec.Username)
		}
	}
	if seen["alice"] != "User logged in successfully" {
		t.Fatalf("missing alice record: %v", seen)
	}
	if seen["bob"] != "User created successfully" {
		t.Fatalf("missing bob record: %v", seen)
	}
}

func TestAuditWriter_PerUserOrdering(t *testing.T) {
	repo := newCaptureAuditRepo(3)
	w := NewAuditWriter(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	w.Record("carol", "first")
	w.Record("carol", "second")
	w.Record("carol", "third")

	select {
	case <-repo.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for appends, got %d", len(repo.snapshot()))
	}

	records := repo.snapshot()
	want := []string{"first", "second", "third"}
	for i, rec := range records {
		if rec.Description != want[i] {
			t.Fatalf("records out of order: %v", records)
		}
	}
}

func TestAuditWriter_ShardIsStablePerUsername(t *testing.T) {
	w := NewAuditWriter(4, newCaptureAuditRepo(0), zerolog.Nop())

	first := w.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if w.shardIndex("alice") != first {
			t.Fatalf("shard index not stable")
		}
	}
	if first < 0 || first >= len(w.workers) {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestAuditWriter_DefaultWorkerCount(t *testing.T) {
	w := NewAuditWriter(0, newCaptureAuditRepo(0), zerolog.Nop())
	if len(w.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(w.workers))
	}
}
