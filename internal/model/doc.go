// Package model defines the core data structures used throughout
// epi-downloader.
//
// # Metadata
//
// Metadata maps human-readable parameter names to the EPI service's internal
// integer IDs, one table per category (model, measure, year, age, sex):
//
//	md["measure"]["Prevalence"] // 5
//	md.NameOf("measure", 5)     // "Prevalence"
//
// # Grid and ParameterSet
//
// Grid is a translated parameter grid (category → ordered IDs). Its
// Cartesian product is produced lazily, in a deterministic order:
//
//	for p := range grid.Combinations() {
//	    // p is a ParameterSet: one ID per category
//	}
//
// ParameterSet identifies a single downloadable dataset and derives the
// cache file name for it via CacheKey.
package model
