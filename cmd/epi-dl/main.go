package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/epitools/epi-downloader/internal/config"
	"github.com/epitools/epi-downloader/internal/download"
	"github.com/epitools/epi-downloader/internal/table"
)

func main() {
	// Command line flags
	var (
		configFlag     = flag.String("config", "", "Path to the grid config file")
		outputFlag     = flag.String("output", "", "Path to save the merged CSV data to")
		dumpConfigFlag = flag.Bool("dump-config", false, "Dump metadata and example config files")
		noCacheFlag    = flag.Bool("no-cache", false, "Redownload data files even if they are in the cache. This is useful for checking whether new data has become available since the last search")
		verboseFlag    = flag.Bool("verbose", false, "Show verbose output")
		settingsFlag   = flag.String("settings", "", "Path to a settings file")
	)

	flag.Parse()

	// Exactly one mode per invocation: dump-config alone, or a run with both
	// -config and -output.
	if *dumpConfigFlag {
		if *configFlag != "" || *outputFlag != "" || *noCacheFlag {
			exitUsage("-dump-config cannot be combined with other options")
		}
	} else if *configFlag == "" || *outputFlag == "" {
		exitUsage("Both -config and -output options are required")
	}

	// Load settings
	settings := config.DefaultSettings()
	if *settingsFlag != "" {
		var err error
		settings, err = config.Load(*settingsFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
			os.Exit(1)
		}
	}
	if *noCacheFlag {
		settings.IgnoreCache = true
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := download.NewManager(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case download.LevelError:
			prefix = "❌ "
		case download.LevelWarning:
			prefix = "⚠️  "
		case download.LevelSuccess:
			prefix = "✅ "
		case download.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})

	fmt.Println("📊 EPI Downloader")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	if *dumpConfigFlag {
		if err := manager.LoadMetadata(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading metadata: %v\n", err)
			os.Exit(1)
		}
		if err := manager.DumpConfig("metadata.json", "example_config.json"); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing files: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Saved metadata.json and example_config.json")
		return
	}

	if err := manager.Initialize(ctx, *configFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n📥 Starting downloads...")
	fmt.Println()

	if err := manager.StartDownloads(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	done, failed, total := manager.GetProgress()
	if failed > 0 {
		fmt.Printf("\n⚠️  Failed to download data for %d/%d parameter sets:\n", failed, total)
		for _, summary := range manager.FailureSummaries() {
			fmt.Printf(" - %s\n", summary)
		}
	}

	if err := manager.WriteOutput(*outputFlag); err != nil {
		if errors.Is(err, table.ErrNoTables) {
			fmt.Fprintln(os.Stderr, "Error: no datasets were downloaded, nothing to save")
		} else {
			fmt.Fprintf(os.Stderr, "Error saving output: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✨ Complete! Downloaded %d/%d datasets to %s\n", done, total, *outputFlag)
}

func exitUsage(message string) {
	fmt.Println("EPI Downloader - Bulk download datasets from the IHME EPI website")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  epi-dl -config <config.json> -output <data.csv> [options]")
	fmt.Println("  epi-dl -dump-config")
	fmt.Println()
	fmt.Println("For interactive mode, use: epi-tui")
	fmt.Println()
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println(message)
	os.Exit(1)
}
