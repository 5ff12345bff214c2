// Package episode describes which episode numbers a run attempts.
package episode

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/samber/mo"
)

// ErrInvalidSpec is returned for episode selections that cannot be parsed.
var ErrInvalidSpec = errors.New("invalid episode selection")

// Spec is either every episode from 1 upwards or a closed range.
// The zero value selects every episode.
type Spec struct {
	start int
	end   mo.Option[int]
}

// All selects every episode. The sequence has no upper bound; the caller stops it.
func All() Spec {
	return Spec{start: 1, end: mo.None[int]()}
}

// Range selects episodes from a to b inclusive. Reversed bounds are swapped.
func Range(a, b int) (Spec, error) {
	if a < 1 || b < 1 {
		return Spec{}, fmt.Errorf("%w: episode numbers start at 1, got %d-%d", ErrInvalidSpec, a, b)
	}
	if a > b {
		a, b = b, a
	}
	return Spec{start: a, end: mo.Some(b)}, nil
}

// ParseSpec accepts "all", "N" or "A-B".
func ParseSpec(s string) (Spec, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "all", "all episodes":
		return All(), nil
	}

	from, to, isRange := strings.Cut(s, "-")
	a, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidSpec, s)
	}
	if !isRange {
		return Range(a, a)
	}

	b, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q", ErrInvalidSpec, s)
	}
	return Range(a, b)
}

// IsAll reports whether the selection is unbounded.
func (s Spec) IsAll() bool {
	return s.end.IsAbsent()
}

// Start is the first episode number the selection yields.
func (s Spec) Start() int {
	return max(s.start, 1)
}

// End is the last episode number, absent for unbounded selections.
func (s Spec) End() mo.Option[int] {
	return s.end
}

// Episodes yields episode numbers in ascending order with step 1.
// Every call starts a fresh sequence.
func (s Spec) Episodes() iter.Seq[int] {
	return func(yield func(int) bool) {
		end, bounded := s.end.Get()
		for n := s.Start(); !bounded || n <= end; n++ {
			if !yield(n) {
				return
			}
		}
	}
}

func (s Spec) String() string {
	if end, ok := s.end.Get(); ok {
		if end == s.Start() {
			return strconv.Itoa(end)
		}
		return fmt.Sprintf("%d-%d", s.Start(), end)
	}
	return "all"
}
