// Package epi implements the parameter-resolution logic for the EPI
// service: metadata loading, config translation and dataset version
// selection.
//
// # Metadata
//
// The Resolver fetches the metadata endpoint and reshapes the raw blob into
// per-category name→ID tables:
//
//	resolver := epi.NewResolver(cacheClient)
//	md, err := resolver.Metadata(ctx)
//
// # Translation
//
// Translate resolves a user's grid config (human-readable names) into
// integer IDs, collecting every bad value into one TranslationError:
//
//	grid, err := epi.Translate(rawGrid, md)
//	var terr *epi.TranslationError
//	if errors.As(err, &terr) {
//	    // terr.Invalid lists every unresolvable value per category
//	}
//
// # Version selection
//
// Each model's dataset versions come from a separate listing. SelectVersion
// prefers the highest version explicitly tagged with the requested measure
// and falls back to the highest generic (null-measure) version:
//
//	versions, err := resolver.ModelVersions(ctx, modelID)
//	version, err := epi.SelectVersion(versions, measureID)
//
// The raw JSON shapes of both endpoints live in the dto subpackage.
package epi
