package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"donation-platform.backend/internal/domain/entities"
	"donation-platform.backend/pkg/logger"
	"donation-platform.backend/pkg/metrics"
)

const (
	defaultQueueSize = 256
	deliveryTimeout  = 30 * time.Second
)

// ReceiptArchive stores a copy of a rendered receipt
type ReceiptArchive interface {
	Store(ctx context.Context, receiptNumber string, body []byte) (string, error)
}

type receiptMarker interface {
	MarkReceiptSent(ctx context.Context, id uuid.UUID) error
}

type receiptJob struct {
	ctx         context.Context
	donation    *entities.Donation
	charityName string
}

// ReceiptDispatcher delivers receipts in the background on a bounded pool.
// Delivery is best-effort: failures are logged and only the persisted
// receiptSent flag reflects success.
type ReceiptDispatcher struct {
	sender    Sender
	archive   ReceiptArchive
	donations receiptMarker

	queue  chan receiptJob
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewReceiptDispatcher starts the dispatch loop. sender and archive may be
// nil, in which case that step is skipped.
func NewReceiptDispatcher(sender Sender, archive ReceiptArchive, donations receiptMarker, workers int) *ReceiptDispatcher {
	if workers <= 0 {
		workers = 1
	}
	d := &ReceiptDispatcher{
		sender:    sender,
		archive:   archive,
		donations: donations,
		queue:     make(chan receiptJob, defaultQueueSize),
		done:      make(chan struct{}),
	}
	go d.run(workers)
	return d
}

func (d *ReceiptDispatcher) run(workers int) {
	p := pool.New().WithMaxGoroutines(workers)
	for job := range d.queue {
		job := job
		p.Go(func() { d.deliver(job) })
	}
	p.Wait()
	close(d.done)
}

// Dispatch queues a receipt without blocking. It reports false when the
// receipt was not queued.
func (d *ReceiptDispatcher) Dispatch(ctx context.Context, donation *entities.Donation, charityName string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	job := receiptJob{
		ctx:         context.WithoutCancel(ctx),
		donation:    donation,
		charityName: charityName,
	}
	select {
	case d.queue <- job:
		return true
	default:
		logger.Warn(ctx, "Receipt queue full, dropping receipt", zap.String("receipt_number", donation.ReceiptNumber))
		metrics.ReceiptsSent.WithLabelValues("dropped").Inc()
		return false
	}
}

// Close stops accepting receipts and waits for queued deliveries to finish.
func (d *ReceiptDispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}

func (d *ReceiptDispatcher) deliver(job receiptJob) {
	ctx, cancel := context.WithTimeout(job.ctx, deliveryTimeout)
	defer cancel()

	donation := job.donation
	fields := []zap.Field{
		zap.String("donation_id", donation.ID.String()),
		zap.String("receipt_number", donation.ReceiptNumber),
	}

	receipt, err := RenderReceipt(donation, job.charityName)
	if err != nil {
		logger.Error(ctx, "Failed to render receipt", append(fields, zap.Error(err))...)
		metrics.ReceiptsSent.WithLabelValues("failed").Inc()
		return
	}

	if d.archive != nil {
		if key, err := d.archive.Store(ctx, donation.ReceiptNumber, receipt.HTML); err != nil {
			logger.Warn(ctx, "Failed to archive receipt", append(fields, zap.Error(err))...)
		} else {
			logger.Debug(ctx, "Receipt archived", append(fields, zap.String("key", key))...)
		}
	}

	if d.sender == nil {
		metrics.ReceiptsSent.WithLabelValues("skipped").Inc()
		return
	}

	if err := d.sender.Send(ctx, receipt); err != nil {
		logger.Error(ctx, "Error sending receipt", append(fields, zap.Error(err))...)
		metrics.ReceiptsSent.WithLabelValues("failed").Inc()
		return
	}

	if err := d.donations.MarkReceiptSent(ctx, donation.ID); err != nil {
		logger.Error(ctx, "Receipt sent but flag not saved", append(fields, zap.Error(err))...)
		metrics.ReceiptsSent.WithLabelValues("failed").Inc()
		return
	}
	metrics.ReceiptsSent.WithLabelValues("sent").Inc()
	logger.Info(ctx, "Receipt sent", fields...)
}
