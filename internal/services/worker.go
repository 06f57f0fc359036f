package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"talentmatch/cv-pipeline/internal/models"
	"talentmatch/cv-pipeline/internal/repositories"
)

// Worker drains the evaluation job queue. Jobs arrive through EnqueueJob when
// a request is accepted, and a poller re-enqueues queued rows so jobs survive
// restarts.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(evalID uuid.UUID)
}

type worker struct {
	evalRepo    repositories.EvaluationRepository
	docRepo     repositories.DocumentRepository
	pipeline    EvaluationPipeline
	jobQueue    chan uuid.UUID
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

func NewWorker(
	evalRepo repositories.EvaluationRepository,
	docRepo repositories.DocumentRepository,
	pipeline EvaluationPipeline,
	concurrency int,
) Worker {
	return &worker{
		evalRepo:    evalRepo,
		docRepo:     docRepo,
		pipeline:    pipeline,
		jobQueue:    make(chan uuid.UUID, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(evalID uuid.UUID) {
	select {
	case w.jobQueue <- evalID:
		log.Printf("📥 Job %s enqueued\n", evalID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue job %s\n", evalID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case evalID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing job %s\n", workerID, evalID)
			if err := w.runEvaluation(ctx, evalID); err != nil {
				log.Printf("❌ Worker #%d failed to process job %s: %v\n", workerID, evalID, err)
			} else {
				log.Printf("✅ Worker #%d completed job %s\n", workerID, evalID)
			}
		}
	}
}

// runEvaluation owns the job's status transitions. The pipeline's result store
// moves the row to completed; every failure path here lands on failed.
func (w *worker) runEvaluation(ctx context.Context, evalID uuid.UUID) error {
	if err := w.evalRepo.UpdateStatus(evalID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	evaluation, err := w.evalRepo.FindByID(evalID)
	if err != nil {
		w.evalRepo.UpdateError(evalID, err.Error())
		return fmt.Errorf("failed to get evaluation: %w", err)
	}

	input := EvaluateInput{
		RawText:      evaluation.RawText,
		Filename:     evaluation.OriginalFilename,
		EvaluationID: &evalID,
	}

	if evaluation.DocumentID != nil {
		doc, err := w.docRepo.FindByID(*evaluation.DocumentID)
		if err != nil {
			w.evalRepo.UpdateError(evalID, fmt.Sprintf("document not found: %v", err))
			return fmt.Errorf("failed to get document: %w", err)
		}
		input.Filename = doc.OriginalFileName
		input.FilePath = doc.FilePath
	}

	if _, err := w.pipeline.Evaluate(ctx, input); err != nil {
		w.evalRepo.UpdateError(evalID, err.Error())
		return fmt.Errorf("pipeline failed: %w", err)
	}

	return nil
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Pending jobs poller stopped")
			return
		case <-ticker.C:
			pendingJobs, err := w.evalRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending jobs: %v\n", err)
				continue
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
