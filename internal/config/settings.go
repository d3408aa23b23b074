package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const appName = "epi-downloader"

// DefaultBaseURL is the EPI visualisation service the datasets come from.
const DefaultBaseURL = "https://vizhub.healthdata.org/epi"

// Settings holds all configuration options.
type Settings struct {
	// Service settings
	BaseURL string `json:"base_url"`

	// Cache settings
	CachePath   string `json:"cache_path"`
	IgnoreCache bool   `json:"ignore_cache"`

	// Download settings
	MaxConcurrentDownloads int     `json:"max_concurrent_downloads"`
	DownloadMaxRetries     int     `json:"download_max_retries"`
	DownloadRetryCooldown  float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent  float64 `json:"download_retry_exponent"`
}

// DefaultSettings returns settings with default values.
//
// The cache lives under the platform-standard user cache directory
// (os.UserCacheDir), falling back to the working directory if the platform
// has none.
func DefaultSettings() *Settings {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = "."
	}

	return &Settings{
		BaseURL:                DefaultBaseURL,
		CachePath:              filepath.Join(cacheDir, appName),
		IgnoreCache:            false,
		MaxConcurrentDownloads: 10,
		DownloadMaxRetries:     3,
		DownloadRetryCooldown:  0.2,
		DownloadRetryExponent:  4.0,
	}
}

// Load reads settings from a JSON file.
//
// A missing file is not an error; defaults are returned instead, matching
// the first-run experience.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
