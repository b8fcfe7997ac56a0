package dispatch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"flightrec/internal/failure"
)

const maxSuggestionDistance = 2

// AmbiguousCommandError reports a token that abbreviates two or more
// commands at the same level.
type AmbiguousCommandError struct {
	Path       []string
	Token      string
	Candidates []string
}

func (e *AmbiguousCommandError) Error() string {
	return fmt.Sprintf("ambiguous command %q: could be %s", joinPath(e.Path, e.Token), strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousCommandError) Unwrap() error { return failure.ErrAmbiguous }

// NotFoundError reports a token that names no command at a level without a
// default handler. Token is empty when the arguments ran out.
type NotFoundError struct {
	Path        []string
	Token       string
	Candidates  []string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	if e.Token == "" {
		where := strings.Join(e.Path, " ")
		if where == "" {
			return fmt.Sprintf("missing command: expected one of %s", strings.Join(e.Candidates, ", "))
		}
		return fmt.Sprintf("missing subcommand for %q: expected one of %s", where, strings.Join(e.Candidates, ", "))
	}
	msg := fmt.Sprintf("unknown command %q", joinPath(e.Path, e.Token))
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, " or "))
	}
	return msg
}

func (e *NotFoundError) Unwrap() error { return failure.ErrNotFound }

func joinPath(path []string, token string) string {
	parts := append(append([]string(nil), path...), token)
	return strings.Join(parts, " ")
}

// suggest returns the candidates within a small edit distance of token,
// closest first.
func suggest(token string, candidates []string) []string {
	type scored struct {
		name     string
		distance int
	}
	var matches []scored
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(token, c)
		if d <= maxSuggestionDistance {
			matches = append(matches, scored{name: c, distance: d})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].name < matches[j].name
	})
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// NewNotFoundError builds the error a default handler returns when it cannot
// use token either, filling in suggestions from candidates.
func NewNotFoundError(path []string, token string, candidates []string) *NotFoundError {
	return &NotFoundError{
		Path:        path,
		Token:       token,
		Candidates:  candidates,
		Suggestions: suggest(token, candidates),
	}
}
