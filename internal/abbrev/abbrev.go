package abbrev

import "sort"

// Result classifies a lookup.
type Result int

const (
	NotFound Result = iota
	Resolved
	Ambiguous
)

func (r Result) String() string {
	switch r {
	case Resolved:
		return "resolved"
	case Ambiguous:
		return "ambiguous"
	default:
		return "not found"
	}
}

// entry is either a resolved candidate or the ambiguous sentinel.
type entry struct {
	candidate string
	ambiguous bool
}

// Table is an immutable prefix lookup built from a candidate set.
type Table struct {
	prefixes   map[string]entry
	candidates []string
}

// Build constructs the prefix table for candidates. Duplicate and empty
// candidates are ignored.
func Build(candidates []string) Table {
	unique := make(map[string]struct{}, len(candidates))
	sorted := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := unique[c]; ok {
			continue
		}
		unique[c] = struct{}{}
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)

	prefixes := make(map[string]entry)
	for _, c := range sorted {
		for end := 1; end <= len(c); end++ {
			prefix := c[:end]
			existing, seen := prefixes[prefix]
			switch {
			case !seen:
				prefixes[prefix] = entry{candidate: c}
			case !existing.ambiguous && existing.candidate != c:
				prefixes[prefix] = entry{ambiguous: true}
			}
		}
	}
	// Exact matches win over any ambiguity introduced by longer candidates.
	for _, c := range sorted {
		prefixes[c] = entry{candidate: c}
	}
	return Table{prefixes: prefixes, candidates: sorted}
}

// Resolve looks up token and returns the full candidate when the prefix is
// unique.
func (t Table) Resolve(token string) (string, Result) {
	e, ok := t.prefixes[token]
	switch {
	case !ok || token == "":
		return "", NotFound
	case e.ambiguous:
		return "", Ambiguous
	default:
		return e.candidate, Resolved
	}
}

// Matches lists every candidate that token is a prefix of, sorted.
func (t Table) Matches(token string) []string {
	var out []string
	for _, c := range t.candidates {
		if len(c) >= len(token) && c[:len(token)] == token {
			out = append(out, c)
		}
	}
	return out
}

// Candidates returns the sorted candidate list.
func (t Table) Candidates() []string {
	out := make([]string, len(t.candidates))
	copy(out, t.candidates)
	return out
}
