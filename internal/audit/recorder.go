// Package audit records admin actions to append-only sinks without blocking the caller.
package audit

import (
	"context"
	"sync"
	"time"

	"movieflix-backend/internal/models"

	"github.com/sirupsen/logrus"
)

// Sink stores one audit record. Implementations must be safe for concurrent use.
type Sink interface {
	Name() string
	Write(ctx context.Context, entry *models.AuditLog) error
}

// Counter receives audit outcomes; *metrics.Collector satisfies it.
type Counter interface {
	RecordAuditEvent(action string)
	RecordAuditSinkFailure(sink string)
}

type Recorder struct {
	sinks   []Sink
	logger  *logrus.Logger
	counter Counter
	timeout time.Duration
	now     func() time.Time

	wg sync.WaitGroup
}

// NewRecorder builds a recorder writing to every sink. counter may be nil.
func NewRecorder(logger *logrus.Logger, counter Counter, timeout time.Duration, sinks ...Sink) *Recorder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Recorder{
		sinks:   sinks,
		logger:  logger,
		counter: counter,
		timeout: timeout,
		now:     time.Now,
	}
}

// Record emits entry to every sink in the background. Sink failures are logged
// and counted; they never reach the caller.
func (r *Recorder) Record(entry models.AuditLog) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now().UTC()
	}
	if r.counter != nil {
		r.counter.RecordAuditEvent(entry.Action)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.write(entry)
	}()
}

func (r *Recorder) write(entry models.AuditLog) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	for _, sink := range r.sinks {
		e := entry
		if err := sink.Write(ctx, &e); err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"sink":    sink.Name(),
				"action":  entry.Action,
				"actorId": entry.ActorID,
			}).Error("Failed to write audit record")
			if r.counter != nil {
				r.counter.RecordAuditSinkFailure(sink.Name())
			}
		}
	}
}

// Close waits for in-flight records to finish.
func (r *Recorder) Close() {
	r.wg.Wait()
}
