// Package config provides configuration management for epi-downloader.
//
// This package handles two distinct files:
//
// # Settings
//
// Tool settings (service URL, cache location, concurrency, retries) as a
// JSON file with defaults:
//
//	settings := config.DefaultSettings()
//	settings, err := config.Load("/path/to/settings.json") // defaults if missing
//	err = settings.Save("/path/to/settings.json")
//
// # Grid config
//
// The user's parameter grid: which models, measures, years, age groups and
// sexes to download, by human-readable name. Each category accepts a single
// value or a list:
//
//	{
//	    "model": ["Diabetes Mellitus - Total"],
//	    "measure": "Prevalence",
//	    "year": [2015, 2017],
//	    "age": ["20-24 years"],
//	    "sex": ["Male", "Female"]
//	}
//
// ExampleGrid returns the grid written by the dump-config mode as a starting
// point.
package config
