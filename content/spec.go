// Package content turns loose JSON specifications (literal values, ranges,
// "anyOf"/"noneOf" selectors, filter predicates) into concrete game values.
//
// Every operation is deterministic for a fixed random stream and fixed game
// tables. Empty candidate pools degrade to a neutral default (zero, "",
// gamedata.None) instead of failing; only names missing from the tables are
// reported as errors.
package content

import (
	"errors"
	"sort"

	"github.com/nstehr/vimy/vimy-planner/random"
	"github.com/tidwall/gjson"
)

// ErrMalformedSpec means a spec has the wrong shape for the requested value.
var ErrMalformedSpec = errors.New("malformed spec")

// Parse wraps gjson.Parse so callers don't need to import gjson for literals.
func Parse(json string) gjson.Result { return gjson.Parse(json) }

func isNull(v gjson.Result) bool {
	return !v.Exists() || v.Type == gjson.Null
}

// Amount resolves an integer spec:
//   - absent or null: def
//   - number: the number, truncated
//   - array: one entry chosen (weighted by an optional "weight" field), resolved with default 0
//   - object: "amount" if present, resolved recursively, else a uniform draw in [min, max]
func Amount(spec gjson.Result, rng *random.Generator, def int) int {
	switch {
	case isNull(spec):
		return def
	case spec.Type == gjson.Number:
		return int(spec.Float())
	case spec.IsArray():
		items := spec.Array()
		idx := pickEntry(items, rng)
		if idx < 0 {
			return def
		}
		return Amount(items[idx], rng, 0)
	case spec.IsObject():
		if a := spec.Get("amount"); !isNull(a) {
			return Amount(a, rng, def)
		}
		lo := Amount(spec.Get("min"), rng, 0)
		hi := Amount(spec.Get("max"), rng, 0)
		return rng.IntRange(lo, hi)
	}
	return def
}

// pickEntry picks uniformly unless some entry carries a weight, in which
// case entries without one weigh 1.
func pickEntry(items []gjson.Result, rng *random.Generator) int {
	if len(items) == 0 {
		return -1
	}
	weighted := false
	weights := make([]int, len(items))
	for i, it := range items {
		weights[i] = 1
		if w := it.Get("weight"); it.IsObject() && !isNull(w) {
			weighted = true
			weights[i] = int(w.Int())
		}
	}
	if !weighted {
		return rng.IntRange(0, len(items)-1)
	}
	return rng.PickWeighted(weights)
}

// Key resolves an identifier spec against universe:
//   - string: the string itself
//   - object with "type": that value
//   - object with "anyOf": one of the listed values
//   - object with "noneOf": one value of universe not listed; the unfiltered
//     universe is used when the exclusion leaves nothing
//   - anything else: one value of universe
//
// Returns "" only when universe is empty and the spec names nothing.
func Key(spec gjson.Result, rng *random.Generator, universe []string) string {
	if spec.Type == gjson.String {
		return spec.String()
	}
	set := sortedSet(universe)

	if spec.IsObject() {
		if t := spec.Get("type"); !isNull(t) {
			return t.String()
		}
		if anyOf := spec.Get("anyOf"); !isNull(anyOf) {
			if v, ok := random.Pick(rng, anyOf.Array()); ok {
				return v.String()
			}
		}
		if none := spec.Get("noneOf"); !isNull(none) {
			excluded := make(map[string]bool)
			for _, v := range none.Array() {
				excluded[v.String()] = true
			}
			var remaining []string
			for _, v := range set {
				if !excluded[v] {
					remaining = append(remaining, v)
				}
			}
			if v, ok := random.Pick(rng, remaining); ok {
				return v
			}
		}
	}

	v, _ := random.Pick(rng, set)
	return v
}

func sortedSet(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// stringSet reads a spec that is either a single string or a list of strings.
func stringSet(spec gjson.Result) map[string]bool {
	out := make(map[string]bool)
	if spec.Type == gjson.String {
		out[spec.String()] = true
		return out
	}
	for _, v := range spec.Array() {
		out[v.String()] = true
	}
	return out
}

func remove(values []string, v string) []string {
	out := values[:0:0]
	for _, x := range values {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
