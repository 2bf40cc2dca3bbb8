// Copyright 2019-2026 the LinuxBoot Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bytes describes byte ranges of an image buffer, e.g. the parts of
// a signed image which are covered by a signature.
package bytes

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Range defines a byte range inside an image.
type Range struct {
	Offset uint64
	Length uint64
}

func (r Range) String() string {
	return fmt.Sprintf(`{"Offset":"0x%x", "Length":"0x%x"}`, r.Offset, r.Length)
}

// End returns the offset of the first byte after the range.
func (r Range) End() uint64 {
	return r.Offset + r.Length
}

// Intersect returns True if ranges "r" and "cmp" has at least
// one byte with the same offset.
func (r Range) Intersect(cmp Range) bool {
	if r.Length == 0 || cmp.Length == 0 {
		return false
	}
	return r.Offset < cmp.End() && cmp.Offset < r.End()
}

// Exclude returns the parts of "r" which are not covered by any of
// "excludes". The result is sorted and never contains empty ranges unless
// "r" itself is empty and nothing excludes it.
func (r Range) Exclude(excludes ...Range) Ranges {
	if len(excludes) == 0 {
		return Ranges{r}
	}
	sorted := make(Ranges, 0, len(excludes))
	for _, e := range excludes {
		if e.Intersect(r) {
			sorted = append(sorted, e)
		}
	}
	sorted.SortAndMerge()

	var result Ranges
	cur := r.Offset
	for _, e := range sorted {
		if e.Offset > cur {
			result = append(result, Range{Offset: cur, Length: e.Offset - cur})
		}
		if e.End() > cur {
			cur = e.End()
		}
	}
	if cur < r.End() {
		result = append(result, Range{Offset: cur, Length: r.End() - cur})
	}
	if len(result) == 0 && len(sorted) == 0 {
		return Ranges{r}
	}
	return result
}

// Ranges is a helper to manipulate multiple `Range`-s at once
type Ranges []Range

func (s Ranges) String() string {
	r := make([]string, 0, len(s))
	for _, oneRange := range s {
		r = append(r, oneRange.String())
	}
	return `[` + strings.Join(r, `, `) + `]`
}

// Sort sorts the slice by field Offset
func (s Ranges) Sort() {
	sort.Slice(s, func(i, j int) bool {
		return s[i].Offset < s[j].Offset
	})
}

// MergeRanges merges ranges which are closer than or equal to
// mergeDistance to each other.
//
// Warning: should be called only on sorted ranges!
func MergeRanges(in Ranges, mergeDistance uint64) Ranges {
	if len(in) < 2 {
		return in
	}

	var result Ranges
	entry := in[0]
	for _, next := range in[1:] {
		if entry.End()+mergeDistance >= next.Offset {
			if next.End() > entry.End() {
				entry.Length = next.End() - entry.Offset
			}
			continue
		}
		result = append(result, entry)
		entry = next
	}
	return append(result, entry)
}

// SortAndMerge sorts the slice (by field Offset) and then merges ranges
// which overlap or touch.
func (s *Ranges) SortAndMerge() {
	if len(*s) < 2 {
		return
	}
	s.Sort()
	*s = MergeRanges(*s, 0)
}

// Slices returns sub-slices of "b" referenced by the ranges, in order. The
// returned slices alias "b". An error is returned if a range does not fit
// into "b".
func (s Ranges) Slices(b []byte) ([][]byte, error) {
	result := make([][]byte, 0, len(s))
	for idx, r := range s {
		if r.End() < r.Offset || r.End() > uint64(len(b)) {
			return nil, &ErrOutOfBounds{Index: idx, Range: r, Length: uint64(len(b))}
		}
		result = append(result, b[r.Offset:r.End()])
	}
	return result, nil
}

// TotalLength returns the sum of lengths of all ranges.
func (s Ranges) TotalLength() uint64 {
	var total uint64
	for _, r := range s {
		total += r.Length
	}
	return total
}

// ErrOutOfBounds means a range points outside of the buffer.
type ErrOutOfBounds struct {
	Index  int
	Range  Range
	Length uint64
}

func (err *ErrOutOfBounds) Error() string {
	return fmt.Sprintf("range #%d %s is out of bounds of a buffer of length %d", err.Index, err.Range, err.Length)
}

// ParseRange parses "OFFSET:LENGTH". Both numbers accept the Go integer
// prefixes (0x, 0o, 0b).
func ParseRange(s string) (Range, error) {
	offset, length, ok := strings.Cut(s, ":")
	if !ok {
		return Range{}, fmt.Errorf("range '%s' is not OFFSET:LENGTH", s)
	}
	var (
		r   Range
		err error
	)
	if r.Offset, err = strconv.ParseUint(offset, 0, 64); err != nil {
		return Range{}, fmt.Errorf("invalid offset in range '%s': %w", s, err)
	}
	if r.Length, err = strconv.ParseUint(length, 0, 64); err != nil {
		return Range{}, fmt.Errorf("invalid length in range '%s': %w", s, err)
	}
	if r.End() < r.Offset {
		return Range{}, fmt.Errorf("range '%s' overflows", s)
	}
	return r, nil
}
