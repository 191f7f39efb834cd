package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/folioworks/account-service/internal/core/ports"
	"github.com/folioworks/account-service/internal/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// MailDispatcher delivers outbound email off the request path. Jobs are
// sharded across a fixed set of workers by recipient, so repeated mails to
// the same address keep their order. Enqueue never blocks and never fails
// the caller: a saturated worker drops the job with a warning, matching the
// fire-and-forget contract of OTP delivery.
type MailDispatcher struct {
	workers  []chan ports.EmailJob
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewMailDispatcher creates a MailDispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(numWorkers int, notifier ports.Notifier, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers:  make([]chan ports.EmailJob, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.EmailJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a job to the worker responsible for its recipient. When the
// worker's buffer is full the job is dropped rather than blocking the
// registration response.
func (d *MailDispatcher) Enqueue(job ports.EmailJob) {
	idx := d.shardIndex(job.To)
	select {
	case d.workers[idx] <- job:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.OTPEmailsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("to", job.To).Int("worker_id", idx).Msg("mail queue full, dropping job")
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.EmailJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.notifier.Send(ctx, job.To, job.Subject, job.Body); err != nil {
				metrics.OTPEmailsTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("to", job.To).
					Int("worker_id", id).
					Msg("mail delivery failed")
				continue
			}
			metrics.OTPEmailsTotal.WithLabelValues("sent").Inc()
		}
	}
}
