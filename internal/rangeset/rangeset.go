package rangeset

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"flightrec/internal/failure"
)

var tokenPattern = regexp.MustCompile(`\A(\d*)(?:(-)(\d*))?\z`)

// Interval is an inclusive integer interval. A nil bound is unbounded in that
// direction.
type Interval struct {
	Start *int
	Stop  *int
}

// Contains reports whether n lies within the interval.
func (i Interval) Contains(n int) bool {
	if i.Start != nil && n < *i.Start {
		return false
	}
	if i.Stop != nil && n > *i.Stop {
		return false
	}
	return true
}

// String renders the interval in the same grammar Parse accepts.
func (i Interval) String() string {
	switch {
	case i.Start != nil && i.Stop != nil && *i.Start == *i.Stop:
		return strconv.Itoa(*i.Start)
	case i.Start == nil && i.Stop == nil:
		return ""
	}
	var b strings.Builder
	if i.Start != nil {
		b.WriteString(strconv.Itoa(*i.Start))
	}
	b.WriteByte('-')
	if i.Stop != nil {
		b.WriteString(strconv.Itoa(*i.Stop))
	}
	return b.String()
}

// Set is an immutable, ordered union of intervals.
type Set struct {
	intervals []Interval
}

// ValidationError reports a token that does not match the range grammar.
type ValidationError struct {
	Text  string
	Token string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid range %q in %q", e.Token, e.Text)
}

func (e *ValidationError) Unwrap() error { return failure.ErrValidation }

// Parse converts a selection expression into a Set. It fails without a
// partial result when any token is malformed.
func Parse(text string) (Set, error) {
	tokens := strings.Split(text, ",")
	intervals := make([]Interval, 0, len(tokens))
	for _, raw := range tokens {
		token := strings.TrimSpace(raw)
		interval, err := parseToken(token)
		if err != nil {
			return Set{}, &ValidationError{Text: text, Token: token}
		}
		intervals = append(intervals, interval)
	}
	return Set{intervals: intervals}, nil
}

// ParseAll parses one Set per argument.
func ParseAll(args []string) ([]Set, error) {
	sets := make([]Set, 0, len(args))
	for _, arg := range args {
		set, err := Parse(arg)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func parseToken(token string) (Interval, error) {
	m := tokenPattern.FindStringSubmatch(token)
	if m == nil {
		return Interval{}, fmt.Errorf("token %q does not match grammar", token)
	}
	start, err := bound(m[1])
	if err != nil {
		return Interval{}, err
	}
	if m[2] == "" {
		// A bare number is a single value; an empty token leaves both sides open.
		return Interval{Start: start, Stop: start}, nil
	}
	stop, err := bound(m[3])
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, Stop: stop}, nil
}

func bound(digits string) (*int, error) {
	if digits == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(digits)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// Contains reports whether n falls within any interval of the set.
func (s Set) Contains(n int) bool {
	for _, interval := range s.intervals {
		if interval.Contains(n) {
			return true
		}
	}
	return false
}

// Intervals returns a copy of the parsed intervals in input order.
func (s Set) Intervals() []Interval {
	out := make([]Interval, len(s.intervals))
	copy(out, s.intervals)
	return out
}

func (s Set) String() string {
	parts := make([]string, len(s.intervals))
	for i, interval := range s.intervals {
		parts[i] = interval.String()
	}
	return strings.Join(parts, ",")
}

// AnyContains reports whether n is a member of any of the sets. An empty list
// selects everything.
func AnyContains(sets []Set, n int) bool {
	if len(sets) == 0 {
		return true
	}
	for _, set := range sets {
		if set.Contains(n) {
			return true
		}
	}
	return false
}
