// Package export provides exporters for check records.
//
// # Formats
//
//   - JSON: single object for one record, array for many
//   - CSV: one row per record, diagnostics flattened to counts plus a JSON column
//
// # Basic Usage
//
//	exporter := export.NewJSONExporter(true) // pretty-print
//	if err := exporter.Export(ctx, records, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
//
// # Streaming
//
// Both exporters also accept a record channel, pairing with
// Storage.QueryStream for large result sets:
//
//	recordsCh, errCh, err := backend.QueryStream(ctx, q)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := exporter.ExportStream(ctx, recordsCh, f); err != nil {
//	    log.Fatal(err)
//	}
//	if err := <-errCh; err != nil {
//	    log.Fatal(err)
//	}
package export
