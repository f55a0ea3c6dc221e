// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package overlap finds exact suffix-prefix overlaps between a query sequence
// and the reads stored in an fmindex.Index, on both strands.
package overlap

import (
	"sort"

	"github.com/grailbio/readcluster/fmindex"
	"github.com/grailbio/readcluster/reads"
)

// Overlapper answers containment, identity and overlap queries against an
// immutable index. It is safe for concurrent use.
type Overlapper struct {
	idx *fmindex.Index
}

// New creates an Overlapper for idx.
func New(idx *fmindex.Index) *Overlapper {
	return &Overlapper{idx: idx}
}

// Index returns the underlying index.
func (o *Overlapper) Index() *fmindex.Index { return o.idx }

// IsSubstring reports whether seq, on either strand, occurs somewhere in the
// index other than as a whole read. Such a sequence has no unique identity.
func (o *Overlapper) IsSubstring(seq string) bool {
	for _, s := range [2]string{seq, reads.ReverseComplement(seq)} {
		if o.idx.Count(s) > o.idx.ReadInterval(s).Size() {
			return true
		}
	}
	return false
}

// IdentityInterval returns the interval of the reads equal to seq. It is empty
// when no read equals seq.
func (o *Overlapper) IdentityInterval(seq string) fmindex.Interval {
	return o.idx.ReadInterval(seq)
}

// candidate is the best overlap found so far with one read.
type candidate struct {
	read int
	hit  Hit
}

// FindOverlaps returns one hit per distinct neighbor read that shares an
// exact overlap of at least minOverlap bases with seq, on either strand. For
// each neighbor only the longest overlap is reported. Reads equal to seq or
// contained in it are reported too, with an overlap covering the whole read.
// Hits are sorted by Interval.
func (o *Overlapper) FindOverlaps(seq string, minOverlap int) []Hit {
	if minOverlap < 1 {
		minOverlap = 1
	}
	best := map[int]*candidate{}
	record := func(read, ov int, side Side, ext string, reverse bool) {
		if c, ok := best[read]; ok && c.hit.Overlap >= ov {
			return
		}
		best[read] = &candidate{
			read: read,
			hit:  Hit{Overlap: ov, Extension: ext, Side: side, Reverse: reverse},
		}
	}

	for _, reverse := range [2]bool{false, true} {
		s := seq
		if reverse {
			s = reads.ReverseComplement(seq)
		}
		o.findPrefixMatches(s, minOverlap, func(read, ov int) {
			r := o.idx.Read(read)
			if reverse {
				record(read, ov, Left, reads.ReverseComplement(r[ov:]), true)
			} else {
				record(read, ov, Right, r[ov:], false)
			}
		})
		o.findSuffixMatches(s, minOverlap, func(read, ov int) {
			r := o.idx.Read(read)
			if reverse {
				record(read, ov, Right, reads.ReverseComplement(r[:len(r)-ov]), true)
			} else {
				record(read, ov, Left, r[:len(r)-ov], false)
			}
		})
	}

	// Identical reads share an identity interval; keep one hit per interval.
	byKey := map[int64]*candidate{}
	for _, c := range best {
		c.hit.Interval = o.idx.ReadInterval(o.idx.Read(c.read))
		if prev, ok := byKey[c.hit.Interval.Lower]; ok {
			if prev.hit.Overlap > c.hit.Overlap ||
				(prev.hit.Overlap == c.hit.Overlap && prev.read < c.read) {
				continue
			}
		}
		byKey[c.hit.Interval.Lower] = c
	}
	hits := make([]Hit, 0, len(byKey))
	for _, c := range byKey {
		hits = append(hits, c.hit)
	}
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Interval.Compare(hits[j].Interval) < 0
	})
	return hits
}

// findPrefixMatches calls fn for every read whose prefix of length ov equals
// the suffix of s of the same length, for ov >= minOverlap. It extends the
// suffix one base at a time and looks for a preceding terminator.
func (o *Overlapper) findPrefixMatches(s string, minOverlap int, fn func(read, ov int)) {
	idx := o.idx
	iv := fmindex.InvalidInterval
	for i := len(s) - 1; i >= 0; i-- {
		if i == len(s)-1 {
			iv = idx.Initial(s[i])
		} else {
			iv = idx.Extend(iv, s[i])
		}
		if !iv.Valid() {
			return
		}
		ov := len(s) - i
		if ov < minOverlap {
			continue
		}
		starts := idx.Extend(iv, fmindex.Terminator)
		for k := starts.Lower; k <= starts.Upper; k++ {
			read, _ := idx.ReadAt(idx.Position(k))
			fn(read, ov)
		}
	}
}

// findSuffixMatches calls fn for every read whose suffix of length ov equals
// the prefix of s of the same length, for ov >= minOverlap.
//
// Each overlap length needs its own backward search from the terminator, so
// the cost is quadratic in the longest prefix of s that occurs anywhere in the
// index. On the reverse strand of a query with no reverse overlaps that prefix
// is usually shorter than minOverlap and the loop does not run.
func (o *Overlapper) findSuffixMatches(s string, minOverlap int, fn func(read, ov int)) {
	idx := o.idx
	maxOverlap := o.longestOccurringPrefix(s)
	for ov := minOverlap; ov <= maxOverlap; ov++ {
		iv := idx.Initial(fmindex.Terminator)
		for j := ov - 1; j >= 0 && iv.Valid(); j-- {
			iv = idx.Extend(iv, s[j])
		}
		for k := iv.Lower; k <= iv.Upper; k++ {
			read, _ := idx.ReadAt(idx.Position(k))
			fn(read, ov)
		}
	}
}

// longestOccurringPrefix returns the largest n such that s[:n] occurs in the
// index. Occurrence is monotone in n, so a binary search needs O(log len(s))
// backward searches.
func (o *Overlapper) longestOccurringPrefix(s string) int {
	lo, hi := 0, len(s)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if o.idx.Find(s[:mid]).Valid() {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
