package rangeset_test

import (
	"errors"
	"testing"

	"flightrec/internal/failure"
	"flightrec/internal/rangeset"
)

func TestParseContains(t *testing.T) {
	tests := []struct {
		expr string
		in   []int
		out  []int
	}{
		{"3", []int{3}, []int{2, 4}},
		{"2-4", []int{2, 3, 4}, []int{1, 5}},
		{"5-", []int{5, 6, 1000}, []int{4, 0}},
		{"-2", []int{-10, 0, 1, 2}, []int{3}},
		{"1-3,7,10-", []int{1, 2, 3, 7, 10, 99}, []int{0, 4, 6, 8, 9}},
		{"", []int{-5, 0, 1, 1 << 30}, nil},
		{"-", []int{-1, 0, 42}, nil},
		{"4-2", nil, []int{2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			set, err := rangeset.Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.expr, err)
			}
			for _, n := range tt.in {
				if !set.Contains(n) {
					t.Errorf("expected %d in %q", n, tt.expr)
				}
			}
			for _, n := range tt.out {
				if set.Contains(n) {
					t.Errorf("expected %d not in %q", n, tt.expr)
				}
			}
		})
	}
}

func TestParseWhitespaceAroundCommas(t *testing.T) {
	set, err := rangeset.Parse(" 1 , 4- ")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	for _, n := range []int{1, 4, 5} {
		if !set.Contains(n) {
			t.Errorf("expected %d in set", n)
		}
	}
	if set.Contains(2) {
		t.Error("expected 2 not in set")
	}
}

func TestParseRejectsSpaceInsideRange(t *testing.T) {
	for _, expr := range []string{"4 -", "1 - 3", "- 2", "1,4 -"} {
		t.Run(expr, func(t *testing.T) {
			_, err := rangeset.Parse(expr)
			var verr *rangeset.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Parse(%q) error = %v, want ValidationError", expr, err)
			}
		})
	}
}

func TestParseRejectsMalformedTokens(t *testing.T) {
	for _, expr := range []string{"a-b-c", "--", "abc", "1-2-3", "1,x", "1 2", "+3", "3.5", "99999999999999999999999"} {
		t.Run(expr, func(t *testing.T) {
			set, err := rangeset.Parse(expr)
			if err == nil {
				t.Fatalf("expected error for %q", expr)
			}
			var verr *rangeset.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if !errors.Is(err, failure.ErrValidation) {
				t.Fatalf("expected validation marker, got %v", err)
			}
			if len(set.Intervals()) != 0 {
				t.Fatalf("expected no partial result, got %v", set.Intervals())
			}
		})
	}
}

func TestValidationErrorNamesToken(t *testing.T) {
	_, err := rangeset.Parse("1, 2-x ,5")
	var verr *rangeset.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Token != "2-x" {
		t.Fatalf("Token = %q, want 2-x", verr.Token)
	}
}

func TestAnyContains(t *testing.T) {
	if !rangeset.AnyContains(nil, 17) {
		t.Fatal("no selections should select everything")
	}
	sets, err := rangeset.ParseAll([]string{"1-2", "9"})
	if err != nil {
		t.Fatalf("ParseAll error: %v", err)
	}
	for n, want := range map[int]bool{1: true, 2: true, 3: false, 9: true, 10: false} {
		if got := rangeset.AnyContains(sets, n); got != want {
			t.Errorf("AnyContains(%d) = %v, want %v", n, got, want)
		}
	}
	if _, err := rangeset.ParseAll([]string{"1", "x"}); err == nil {
		t.Fatal("expected ParseAll to fail on malformed argument")
	}
}

func TestSetString(t *testing.T) {
	set, err := rangeset.Parse("1-3, 7 ,10-,-2,")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got, want := set.String(), "1-3,7,10-,-2,"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
