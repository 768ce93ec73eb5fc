package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/ganymede/pkg/report"
)

// Config contains configuration for the check recorder.
type Config struct {
	// Enabled enables check recording.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for writing records to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder persists check outcomes to a storage backend. Records are
// written asynchronously so callers are never blocked on storage writes.
type Recorder struct {
	storage    report.Storage
	config     *Config
	recordChan chan *report.CheckRecord
	wg         sync.WaitGroup
	done       chan struct{}
	closeOnce  sync.Once
	logger     *slog.Logger
}

// NewRecorder creates a new check recorder with the provided storage backend
// and configuration.
func NewRecorder(storage report.Storage, config *Config, logger *slog.Logger) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 1000
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *report.CheckRecord, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     logger.With("component", "report.recorder"),
	}

	// Start background worker to drain channel
	r.wg.Add(1)
	go r.worker()

	r.logger.Info("check recorder initialized",
		"enabled", config.Enabled,
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record enqueues a check outcome for asynchronous persistence. A missing
// record ID and recording time are filled in before enqueueing.
//
// This method returns immediately and does not block on storage writes.
// When the write buffer stays full for longer than the write timeout the
// record is dropped and a RecorderError is returned.
func (r *Recorder) Record(ctx context.Context, record *report.CheckRecord) error {
	if !r.config.Enabled {
		return nil
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now()
	}

	// The buffered channel may still have free capacity after shutdown,
	// so reject closed recorders before trying to enqueue.
	select {
	case <-r.done:
		r.logger.Warn("recorder shut down, dropping record",
			"record_id", record.ID,
			"grammar_path", record.GrammarPath,
		)
		return report.NewRecorderError(record.ID, context.Canceled)
	default:
	}

	select {
	case r.recordChan <- record:
		r.logger.Debug("check record enqueued for writing",
			"record_id", record.ID,
			"grammar_path", record.GrammarPath,
			"status", record.Status,
		)
	case <-ctx.Done():
		r.logger.Warn("context cancelled, dropping check record",
			"record_id", record.ID,
			"grammar_path", record.GrammarPath,
		)
		return report.NewRecorderError(record.ID, ctx.Err())
	case <-time.After(r.config.WriteTimeout):
		r.logger.Error("check record channel full, dropping record",
			"record_id", record.ID,
			"grammar_path", record.GrammarPath,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return report.NewRecorderError(record.ID, context.DeadlineExceeded)
	case <-r.done:
		r.logger.Warn("recorder shutting down, dropping record",
			"record_id", record.ID,
			"grammar_path", record.GrammarPath,
		)
		return report.NewRecorderError(record.ID, context.Canceled)
	}

	return nil
}

// Close gracefully shuts down the recorder by draining the async channel and
// waiting for all pending writes to complete.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.logger.Info("shutting down check recorder")

		close(r.done)
		r.wg.Wait()

		r.logger.Info("check recorder shut down complete")
	})
	return nil
}

// worker is the background goroutine that drains the record channel and
// writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// Drain remaining records from channel before exit
			r.logger.Info("draining record channel before shutdown",
				"pending_count", len(r.recordChan),
			)

			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					r.logger.Info("record channel drained")
					return
				}
			}
		}
	}
}

// writeRecord writes a single check record to storage.
func (r *Recorder) writeRecord(record *report.CheckRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store check record",
			"record_id", record.ID,
			"grammar_path", record.GrammarPath,
			"error", err,
		)
		return
	}

	duration := time.Since(start)

	r.logger.Debug("check outcome recorded",
		"record_id", record.ID,
		"grammar_path", record.GrammarPath,
		"status", record.Status,
		"duration_ms", duration.Milliseconds(),
	)

	// Warn if write was slow
	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow check record write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}
