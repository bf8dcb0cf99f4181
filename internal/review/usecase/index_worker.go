package usecase

import (
	"context"
	"log"
	"sync"
	"time"
)

// IndexJob represents a job to embed one review into the vector index
type IndexJob struct {
	ReviewID   string
	ProductID  string
	AuthorName string
	Text       string
}

// IndexWorker pushes review embeddings to the vector index in the background
// so review submission never waits on the embedding API.
type IndexWorker struct {
	index       VectorIndex
	jobQueue    chan IndexJob
	workerWg    sync.WaitGroup
	workerCount int
	started     bool
	mu          sync.Mutex
}

// NewIndexWorker creates a new index worker pool
func NewIndexWorker(index VectorIndex, workerCount int) *IndexWorker {
	if workerCount <= 0 {
		workerCount = 2
	}

	return &IndexWorker{
		index:       index,
		jobQueue:    make(chan IndexJob, 200),
		workerCount: workerCount,
	}
}

// Start starts the index workers
func (w *IndexWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return
	}

	for i := 0; i < w.workerCount; i++ {
		w.workerWg.Add(1)
		go w.worker(i)
	}
	w.started = true
	log.Printf("[IndexWorker] Started %d workers", w.workerCount)
}

// Stop stops all workers gracefully
func (w *IndexWorker) Stop() {
	close(w.jobQueue)
	w.workerWg.Wait()
	log.Println("[IndexWorker] All workers stopped")
}

// Queue adds a job to the queue (non-blocking)
func (w *IndexWorker) Queue(job IndexJob) bool {
	select {
	case w.jobQueue <- job:
		return true
	default:
		return false // Queue full
	}
}

func (w *IndexWorker) worker(id int) {
	defer w.workerWg.Done()

	for job := range w.jobQueue {
		w.processJob(job)
	}

	log.Printf("[IndexWorker] Worker %d stopped", id)
}

func (w *IndexWorker) processJob(job IndexJob) {
	if w.index == nil {
		return
	}

	text := job.Text
	// Truncate to avoid embedding token limits
	if len(text) > 5000 {
		text = text[:5000]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := w.index.UpsertReviewEmbedding(ctx, job.ReviewID, job.ProductID, job.AuthorName, text); err != nil {
		log.Printf("[IndexWorker] Embedding error for review %s: %v", job.ReviewID, err)
		return
	}

	log.Printf("[IndexWorker] Indexed review %s", job.ReviewID)
}
