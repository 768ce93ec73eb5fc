// Package retention provides retention policy enforcement for check records.
//
// # Retention Policy
//
// The retention package prunes old check records based on age and count:
//
//   - Configurable retention period (days)
//   - Configurable max record count
//   - Scheduled pruning (cron expression)
//   - Optional archiving before deletion
//
// # Basic Usage
//
//	pruner := retention.NewPruner(backend, &retention.Config{
//	    RetentionDays:       90,
//	    PruneSchedule:       "0 3 * * *", // daily at 3 AM
//	    ArchiveBeforeDelete: true,
//	    ArchivePath:         "data/archives/",
//	}, logger)
//
//	if err := pruner.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pruner.Stop()
//
// # Manual Pruning
//
//	deleted, err := pruner.Prune(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Printf("Deleted %d old check records", deleted)
//
// # Archiving
//
// If archiving is enabled, records are exported to JSON before deletion.
// Archives land in the configured archive path, named by date
// (reports-2026-01-15.json).
//
// # Scheduling
//
// The pruner runs on a standard cron schedule:
//
//   - "0 3 * * *": Daily at 3 AM (default)
//   - "0 0 * * 0": Weekly on Sunday at midnight
//   - "0 */6 * * *": Every 6 hours
//
// If no schedule is configured (empty PruneSchedule), the scheduler does
// nothing and Start returns immediately without error. Stop waits for a
// running pruning job to complete.
package retention
