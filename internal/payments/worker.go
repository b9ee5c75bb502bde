package payments

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/tijender7/yoga-backend/internal/helpers"
	"github.com/tijender7/yoga-backend/internal/models"
)

// Job is one verified, extracted webhook delivery waiting to be reconciled.
type Job struct {
	EventID   string
	EventType string
	Payment   *models.Payment
	RawBody   []byte
}

// Dispatcher hands verified webhook events to background workers so the
// endpoint can acknowledge immediately. Processing failures never reach the
// gateway's retry logic in this mode, so they are written to the dead-letter
// log for operator follow-up instead of being dropped.
type Dispatcher struct {
	service *Service
	jobs    chan Job
	timeout time.Duration
	workers int
	wg      sync.WaitGroup
}

func NewDispatcher(service *Service, queueSize, workers int, timeout time.Duration) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		service: service,
		jobs:    make(chan Job, queueSize),
		timeout: timeout,
		workers: workers,
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for job := range d.jobs {
				d.handle(job)
			}
		}()
	}
}

// Enqueue returns false when the queue is full; the caller should fall back
// to a transport error so the gateway redelivers.
func (d *Dispatcher) Enqueue(job Job) bool {
	select {
	case d.jobs <- job:
		return true
	default:
		return false
	}
}

// Stop drains queued jobs and waits for in-flight work.
func (d *Dispatcher) Stop() {
	close(d.jobs)
	d.wg.Wait()
}

func (d *Dispatcher) handle(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.service.ProcessEvent(ctx, job.EventType, job.Payment); err != nil {
		paymentID := ""
		if job.Payment != nil {
			paymentID = helpers.MaskPaymentID(job.Payment.RazorpayPaymentID)
		}
		log.Printf("dead-letter: event_id=%q event=%s payment=%s error=%v",
			job.EventID, job.EventType, paymentID, err)
		return
	}

	if err := d.service.RecordEvent(ctx, job.EventID, job.EventType, job.RawBody); err != nil {
		log.Printf("error storing webhook event %q: %v", job.EventID, err)
	}
}
