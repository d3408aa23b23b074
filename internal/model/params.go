package model

import (
	"fmt"
	"iter"
	"sort"
	"strings"
)

// Categories is the fixed set of parameter categories the EPI service
// understands. Every grid config must provide values for all of them and
// every downloadable dataset is identified by exactly one ID per category.
var Categories = []string{"model", "measure", "year", "age", "sex"}

// IsCategory reports whether name is one of the known parameter categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Metadata maps each category to a name→ID table built from the service's
// metadata endpoint.
//
// Metadata is built once per run and read-only afterwards. Names within a
// category are unique, so the reverse lookup in NameOf is well defined.
//
// Example:
//
//	md := model.Metadata{
//	    "sex": {"Male": 1, "Female": 2},
//	}
//	id := md["sex"]["Male"] // 1
type Metadata map[string]map[string]int

// NameOf returns the human-readable name for an ID within a category.
//
// IDs that are not present in the metadata (which can only happen if the
// service returns data for an ID it never described) are rendered as "id <n>"
// so failure summaries stay printable.
func (m Metadata) NameOf(category string, id int) string {
	for name, v := range m[category] {
		if v == id {
			return name
		}
	}
	return fmt.Sprintf("id %d", id)
}

// Grid is a fully translated parameter grid: each category mapped to the
// ordered list of IDs the user asked for.
type Grid map[string][]int

// Size returns the number of parameter combinations the grid expands to,
// i.e. the product of the value list lengths. An empty grid has size 0.
func (g Grid) Size() int {
	if len(g) == 0 {
		return 0
	}
	n := 1
	for _, values := range g {
		n *= len(values)
	}
	return n
}

// Combinations returns the Cartesian product of the grid as a lazy sequence
// of parameter sets.
//
// The order is deterministic regardless of map iteration order: categories
// are visited sorted by name, values in the order given in the grid, and the
// last (sorted) category varies fastest. Re-running the same grid therefore
// always produces the same sequence, which keeps cache keys and logs stable.
//
// An empty grid yields no combinations rather than a single empty one.
//
// Example:
//
//	g := model.Grid{"a": {0, 1}, "b": {0, 1, 2}}
//	for p := range g.Combinations() {
//	    fmt.Println(p["a"], p["b"]) // 0 0, 0 1, 0 2, 1 0, 1 1, 1 2
//	}
func (g Grid) Combinations() iter.Seq[ParameterSet] {
	return func(yield func(ParameterSet) bool) {
		if len(g) == 0 {
			return
		}
		keys := g.sortedCategories()
		for _, k := range keys {
			if len(g[k]) == 0 {
				return
			}
		}

		idx := make([]int, len(keys))
		for {
			combo := make(ParameterSet, len(keys))
			for i, k := range keys {
				combo[k] = g[k][idx[i]]
			}
			if !yield(combo) {
				return
			}

			// Mixed-radix increment, rightmost digit first.
			i := len(keys) - 1
			for ; i >= 0; i-- {
				idx[i]++
				if idx[i] < len(g[keys[i]]) {
					break
				}
				idx[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}

func (g Grid) sortedCategories() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParameterSet is one concrete parameter combination: a single ID per
// category, identifying exactly one downloadable dataset.
type ParameterSet map[string]int

// CacheKey returns the deterministic cache file name for this parameter set
// at the given dataset version.
//
// The name is derived from the sorted (category, ID) pairs plus the version,
// never from a hash of the request URL, so semantically identical requests
// always map to the same cache file.
//
// Example:
//
//	p := model.ParameterSet{"model": 2145, "measure": 5, "year": 2015, "age": 9, "sex": 1}
//	p.CacheKey(433223) // "data_age9_measure5_model2145_sex1_version433223_year2015.csv"
func (p ParameterSet) CacheKey(version int) string {
	keys := make([]string, 0, len(p)+1)
	for k := range p {
		keys = append(keys, k)
	}
	keys = append(keys, "version")
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, ok := p[k]
		if !ok {
			v = version
		}
		parts = append(parts, fmt.Sprintf("%s%d", k, v))
	}
	return "data_" + strings.Join(parts, "_") + ".csv"
}

// Describe renders the parameter set with human-readable values for failure
// summaries, e.g. "age=20-24 years, measure=Prevalence, model=Diabetes, ...".
// Categories are sorted so the output is stable.
func (p ParameterSet) Describe(md Metadata) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, md.NameOf(k, p[k])))
	}
	return strings.Join(parts, ", ")
}
