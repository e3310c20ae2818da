package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"paymentwall-gateway-api/config"
	"paymentwall-gateway-api/database"
	"paymentwall-gateway-api/queue"
	"paymentwall-gateway-api/services/payment"
)

// Worker drains the job queue for cancellation and refund requests that
// the API accepted asynchronously.
type Worker struct {
	queue          *queue.Queue
	db             *database.Connection
	paymentService *payment.Service
	shutdown       chan struct{}
	isRunning      bool
}

func NewWorker(q *queue.Queue, db *database.Connection, ps *payment.Service) *Worker {
	return &Worker{
		queue:          q,
		db:             db,
		paymentService: ps,
		shutdown:       make(chan struct{}),
	}
}

// Start begins processing jobs
func (w *Worker) Start(concurrency int) {
	w.isRunning = true

	for i := 0; i < concurrency; i++ {
		go w.processJobs(i)
	}
	go w.pumpDelayedJobs()

	log.Printf("Started %d worker goroutines", concurrency)
}

// Stop signals the worker to stop processing jobs
func (w *Worker) Stop() {
	if !w.isRunning {
		return
	}

	log.Println("Stopping worker...")
	close(w.shutdown)
	w.isRunning = false
}

func (w *Worker) pumpDelayedJobs() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := w.queue.ProcessDelayedJobs(ctx); err != nil {
				log.Printf("Error moving delayed jobs: %v", err)
			}
			cancel()
		}
	}
}

// processJobs continuously processes jobs from the queue
func (w *Worker) processJobs(workerID int) {
	log.Printf("Worker %d starting", workerID)

	for {
		select {
		case <-w.shutdown:
			log.Printf("Worker %d shutting down", workerID)
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			job, err := w.queue.Dequeue(ctx, 5*time.Second)
			cancel()

			if err != nil {
				log.Printf("Worker %d: Error dequeuing job: %v", workerID, err)
				time.Sleep(time.Second)
				continue
			}

			if job == nil {
				time.Sleep(100 * time.Millisecond)
				continue
			}

			log.Printf("Worker %d processing job %s of type %s", workerID, job.ID, job.Type)

			jobErr := w.processJob(job)
			if jobErr != nil {
				log.Printf("Worker %d: Error processing job %s: %v", workerID, job.ID, jobErr)

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				failErr := w.queue.FailJob(ctx, job, jobErr)
				cancel()

				if failErr != nil {
					log.Printf("Worker %d: Error marking job %s as failed: %v", workerID, job.ID, failErr)
				}

				time.Sleep(time.Second)
				continue
			}

			ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
			completeErr := w.queue.CompleteJob(ctx, job)
			cancel()

			if completeErr != nil {
				log.Printf("Worker %d: Error marking job %s as complete: %v", workerID, job.ID, completeErr)
			}
		}
	}
}

func (w *Worker) processJob(job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeVoidTransaction:
		return w.processVoidTransaction(job)
	case queue.JobTypeRefundTransaction:
		return w.processRefundTransaction(job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

func (w *Worker) processVoidTransaction(job *queue.Job) error {
	saleID, ok := job.Data["sale_id"].(string)
	if !ok || saleID == "" {
		return fmt.Errorf("invalid sale_id in job data")
	}

	log.Printf("Voiding transaction %s", saleID)

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	result, err := w.paymentService.Void(ctx, saleID)
	if err != nil {
		return fmt.Errorf("void request invalid: %v", err)
	}
	if !result.Successful() {
		return fmt.Errorf("void declined by processor: %s (code %d)", result.Message(), result.Code())
	}

	if w.db != nil {
		if err := w.db.UpdateTransactionStatus(saleID, "voided"); err != nil {
			log.Printf("Warning: failed to mark transaction %s as voided: %v", saleID, err)
		}
	}
	return nil
}

func (w *Worker) processRefundTransaction(job *queue.Job) error {
	saleID, ok := job.Data["sale_id"].(string)
	if !ok || saleID == "" {
		return fmt.Errorf("invalid sale_id in job data")
	}

	log.Printf("Refunding transaction %s", saleID)

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	result, err := w.paymentService.Refund(ctx, saleID)
	if err != nil {
		return fmt.Errorf("refund request invalid: %v", err)
	}
	if !result.Successful() {
		return fmt.Errorf("refund declined by processor: %s (code %d)", result.Message(), result.Code())
	}

	if w.db != nil {
		if err := w.db.UpdateTransactionStatus(saleID, "refunded"); err != nil {
			log.Printf("Warning: failed to mark transaction %s as refunded: %v", saleID, err)
		}
	}
	return nil
}

func StartWorker(cfg *config.Config, concurrency int) (*Worker, error) {
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	paymentService := payment.NewPaymentService(cfg.Paymentwall)

	q, err := queue.NewQueue(cfg.Redis.URL, "payment_jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	worker := NewWorker(q, db, paymentService)
	worker.Start(concurrency)

	return worker, nil
}
