package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/epitools/epi-downloader/internal/cache"
	"github.com/epitools/epi-downloader/internal/config"
	"github.com/epitools/epi-downloader/internal/epi"
	epihttp "github.com/epitools/epi-downloader/internal/http"
	"github.com/epitools/epi-downloader/internal/model"
	"github.com/epitools/epi-downloader/internal/table"
	"golang.org/x/sync/errgroup"
)

// ErrNoData is returned for a combination whose download succeeded but came
// back with an empty body: the service has no data for those parameters.
var ErrNoData = errors.New("no data available for the specified parameters")

// downloadConstants are opaque parameters the download endpoint requires.
// Their meaning is undocumented upstream; they are passed through unchanged.
var downloadConstants = map[string]string{
	"type":       "final",
	"bundle":     "",
	"step":       "",
	"crosswalk":  "",
	"clinical":   "false",
	"adjusted":   "false",
	"location":   "1",
	"population": "1",
}

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Result is one successfully downloaded dataset with the parameter set that
// produced it.
type Result struct {
	Params model.ParameterSet
	Data   *table.Table
}

// Failure is one combination that could not be downloaded, with the error
// that stopped it.
type Failure struct {
	Params model.ParameterSet
	Err    error
}

// Manager coordinates the batch download pipeline: metadata loading, grid
// translation, version resolution, concurrent dataset fetches and output.
type Manager struct {
	settings *config.Settings
	client   *cache.Client
	resolver *epi.Resolver

	metadata model.Metadata
	grid     model.Grid
	versions map[int][]epi.Version

	totalSets  int32
	doneSets   int32
	failedSets int32

	results  []Result
	failures []Failure

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	client := cache.NewClient(epihttp.NewClient(settings.BaseURL), settings.CachePath, settings.IgnoreCache)

	return &Manager{
		settings:   settings,
		client:     client,
		resolver:   epi.NewResolver(client),
		onProgress: onProgress,
	}
}

// LoadMetadata fetches and parses the service metadata. It is idempotent;
// later calls are no-ops once metadata is loaded.
func (m *Manager) LoadMetadata(ctx context.Context) error {
	if m.metadata != nil {
		return nil
	}

	if err := os.MkdirAll(m.settings.CachePath, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	m.progress(ProgressEvent{Message: "Fetching metadata...", Level: LevelVerbose})
	md, err := m.resolver.Metadata(ctx)
	if err != nil {
		return err
	}
	m.metadata = md
	return nil
}

// Metadata returns the loaded metadata, or nil before LoadMetadata.
func (m *Manager) Metadata() model.Metadata {
	return m.metadata
}

// Initialize prepares a run: loads metadata, reads and translates the grid
// config, and fetches the version listing of every requested model.
//
// Any error here is run-level: a grid that cannot be fully resolved never
// starts downloading.
func (m *Manager) Initialize(ctx context.Context, gridPath string) error {
	if err := m.LoadMetadata(ctx); err != nil {
		return err
	}

	rawGrid, err := config.LoadGrid(gridPath)
	if err != nil {
		return fmt.Errorf("failed to load grid config: %w", err)
	}

	grid, err := epi.Translate(rawGrid, m.metadata)
	if err != nil {
		return err
	}
	m.grid = grid
	m.totalSets = int32(grid.Size())

	if err := m.loadModelVersions(ctx); err != nil {
		return err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("%d datasets to download", grid.Size()), Level: LevelInfo})
	return nil
}

// loadModelVersions fetches version listings for all requested models
// concurrently. A model whose listing cannot be loaded fails the run, since
// none of its combinations could be resolved to a version.
func (m *Manager) loadModelVersions(ctx context.Context) error {
	m.versions = make(map[int][]epi.Version, len(m.grid["model"]))

	var mu sync.Mutex
	var failed []string

	g, ctx := errgroup.WithContext(ctx)
	for _, modelID := range m.grid["model"] {
		g.Go(func() error {
			versions, err := m.resolver.ModelVersions(ctx, modelID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, m.metadata.NameOf("model", modelID))
				return nil
			}
			m.versions[modelID] = versions
			return nil
		})
	}
	g.Wait()

	if len(failed) > 0 {
		sort.Strings(failed)
		return fmt.Errorf("could not load dataset versions for the following models: %s", strings.Join(failed, ", "))
	}
	return nil
}

// StartDownloads fetches every parameter combination of the grid.
//
// Combinations download concurrently up to the configured limit. One
// combination's failure is recorded and never cancels or blocks the others;
// the call returns only after every combination has settled.
func (m *Manager) StartDownloads(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentDownloads)

	for params := range m.grid.Combinations() {
		g.Go(func() error {
			if err := m.downloadDataset(ctx, params); err != nil {
				m.recordFailure(params, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// downloadDataset resolves the version for one combination, fetches the
// dataset through the cache and parses it.
func (m *Manager) downloadDataset(ctx context.Context, params model.ParameterSet) error {
	version, err := epi.SelectVersion(m.versions[params["model"]], params["measure"])
	if err != nil {
		return err
	}

	query := url.Values{}
	for category, id := range params {
		query.Set(category, strconv.Itoa(id))
	}
	query.Set("version", strconv.Itoa(version))
	for key, value := range downloadConstants {
		query.Set(key, value)
	}

	fileName := params.CacheKey(version)

	var text string
	for tries := 0; tries < m.settings.DownloadMaxRetries; tries++ {
		text, err = m.client.Get(ctx, "/api/model/results/download", fileName, query)
		if err == nil || ctx.Err() != nil {
			break
		}
		if tries+1 < m.settings.DownloadMaxRetries {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, m.settings.DownloadMaxRetries, fileName), Level: LevelWarning})
			m.waitForRetry(ctx, tries)
		}
	}
	if err != nil {
		return err
	}
	if text == "" {
		return ErrNoData
	}

	data, err := table.Parse(text)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.results = append(m.results, Result{Params: params, Data: data})
	m.mu.Unlock()
	atomic.AddInt32(&m.doneSets, 1)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", fileName), Level: LevelVerbose})
	return nil
}

func (m *Manager) recordFailure(params model.ParameterSet, err error) {
	m.mu.Lock()
	m.failures = append(m.failures, Failure{Params: params, Err: err})
	m.mu.Unlock()
	atomic.AddInt32(&m.failedSets, 1)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", params.Describe(m.metadata), err), Level: LevelError})
}

// GetProgress returns current batch progress as (succeeded, failed, total)
// combination counts.
func (m *Manager) GetProgress() (done, failed, total int32) {
	return atomic.LoadInt32(&m.doneSets), atomic.LoadInt32(&m.failedSets), m.totalSets
}

// Results returns the successfully downloaded datasets, in completion order.
func (m *Manager) Results() []Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Result(nil), m.results...)
}

// Failures returns the failed combinations, in completion order.
func (m *Manager) Failures() []Failure {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Failure(nil), m.failures...)
}

// FailureSummaries renders every failure with human-readable parameter
// values for user-facing reporting.
func (m *Manager) FailureSummaries() []string {
	failures := m.Failures()
	summaries := make([]string, len(failures))
	for i, f := range failures {
		summaries[i] = fmt.Sprintf("%s (%v)", f.Params.Describe(m.metadata), f.Err)
	}
	return summaries
}

// WriteOutput merges all successful datasets and writes them to path as one
// CSV file. Returns table.ErrNoTables if nothing survived to merge.
func (m *Manager) WriteOutput(path string) error {
	results := m.Results()
	tables := make([]*table.Table, len(results))
	for i, r := range results {
		tables[i] = r.Data
	}

	merged, err := table.Merge(tables)
	if err != nil {
		return err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Saving data to %s", path), Level: LevelInfo})
	return merged.WriteCSV(path)
}

// DumpConfig writes the loaded metadata and an example grid config to the
// given paths, indent-formatted.
func (m *Manager) DumpConfig(metadataPath, examplePath string) error {
	if err := writeJSON(metadataPath, m.metadata); err != nil {
		return err
	}
	return writeJSON(examplePath, config.ExampleGrid())
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
