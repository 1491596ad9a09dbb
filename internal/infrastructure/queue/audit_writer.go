package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/vertexlab/identity-api/internal/api/metrics"
	"github.com/vertexlab/identity-api/internal/core/domain"
	"github.com/vertexlab/identity-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	appendTimeout  = 5 * time.Second
)

// AuditWriter appends audit records asynchronously so the request path never
// blocks on the audit store. Records are sharded to a fixed set of workers by
// consistent hashing on the username, preserving per-user ordering. Appends
// are best-effort: a full shard or a persistence failure drops the record
// with a warning and a metric, never an error to the caller.
type AuditWriter struct {
	workers []chan domain.AuditRecord
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewAuditWriter creates an AuditWriter with numWorkers shards.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditWriter(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditWriter {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	w := &AuditWriter{
		workers: make([]chan domain.AuditRecord, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range w.workers {
		w.workers[i] = make(chan domain.AuditRecord, channelBuffer)
	}
	return w
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (w *AuditWriter) Start(ctx context.Context) {
	for i, ch := range w.workers {
		go w.runWorker(ctx, i, ch)
	}
}

// Record enqueues one audit record. Implements ports.AuditSink.
func (w *AuditWriter) Record(username, description string) {
	rec := domain.AuditRecord{
		Username:    username,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	idx := w.shardIndex(username)
	select {
	case w.workers[idx] <- rec:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(w.workers[idx])))
	default:
		metrics.AuditAppendFailuresTotal.Inc()
		w.log.Warn().
			Str("username", username).
			Str("description", description).
			Msg("audit queue full, record dropped")
	}
}

// shardIndex maps a username deterministically to a worker index.
func (w *AuditWriter) shardIndex(username string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(username))
	return int(h.Sum32()) % len(w.workers)
}

func (w *AuditWriter) runWorker(ctx context.Context, id int, ch <-chan domain.AuditRecord) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			// The originating request is gone by the time the append
			// runs; bound the write with its own timeout instead.
			appendCtx, cancel := context.WithTimeout(context.Background(), appendTimeout)
			err := w.repo.Append(appendCtx, rec)
			cancel()
			if err != nil {
				metrics.AuditAppendFailuresTotal.Inc()
				w.log.Warn().Err(err).
					Str("username", rec.Username).
					Int("worker_id", id).
					Msg("audit append failed")
			}
		}
	}
}
