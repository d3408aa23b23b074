// Package download provides the orchestration logic for bulk dataset
// downloads from the EPI service.
//
// # Manager
//
// The Manager coordinates the entire pipeline:
//
//  1. Fetch and parse the service metadata
//  2. Translate the user's grid config into integer IDs
//  3. Fetch version listings for every requested model
//  4. Download every parameter combination concurrently
//  5. Merge the successful datasets into one CSV output file
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx, "config.json"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := manager.StartDownloads(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := manager.WriteOutput("data.csv"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Failure containment
//
// Initialization errors (bad metadata, unresolvable config values, missing
// version listings) abort the run before any dataset download starts.
// Download errors are contained to their combination: the batch always runs
// to completion and per-combination failures are reported afterwards via
// Failures and FailureSummaries.
//
// # Concurrency
//
// Downloads run concurrently up to Settings.MaxConcurrentDownloads, with
// per-request retry and exponential cooldown controlled by the retry
// settings. All network traffic goes through the disk cache.
package download
