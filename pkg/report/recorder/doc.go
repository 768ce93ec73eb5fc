// Package recorder persists grammar check outcomes asynchronously.
//
// # Recording Flow
//
// The recorder hands each record to a background worker over a buffered
// channel, so the caller never waits on a storage write:
//
//	Check outcome
//	     ↓
//	Record() fills ID + recording time, enqueues
//	     ↓
//	Background worker
//	     ↓
//	Storage backend (SQLite)
//
// When the buffer stays full for longer than the write timeout, the record
// is dropped and a RecorderError is returned; a slow report store never
// stalls grammar checking.
//
// # Basic Usage
//
//	rec := recorder.NewRecorder(backend, &recorder.Config{
//	    Enabled:      true,
//	    AsyncBuffer:  1000,
//	    WriteTimeout: 5 * time.Second,
//	}, logger)
//	defer rec.Close()
//
//	err := rec.Record(ctx, &report.CheckRecord{
//	    GrammarPath: "grammars/json.gdl",
//	    Status:      "passed",
//	    RuleCount:   12,
//	    CheckedAt:   time.Now(),
//	})
//
// Close drains the channel and waits for pending writes, so records
// enqueued before shutdown are never lost.
package recorder
