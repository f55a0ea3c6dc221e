// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fmindex

import (
	"fmt"
	"math"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Terminator separates reads in the indexed text.
const Terminator = '$'

const (
	alphabetSize = 6
	// noCode marks the BWT entry of the suffix at text position 0, which has
	// no preceding character.
	noCode = uint8(0xff)
	// occInterval is the distance between Occ checkpoints.
	occInterval = 64
)

// Alphabet lists the indexed symbols in sort order.
const Alphabet = "$ACGNT"

var codeTable [256]uint8

func init() {
	for i := range codeTable {
		codeTable[i] = noCode
	}
	for i := 0; i < len(Alphabet); i++ {
		codeTable[Alphabet[i]] = uint8(i)
	}
}

// Index is an FM-index over a set of reads. See the package doc for the text
// layout.
type Index struct {
	reads []string
	// starts[i] is the text position of the terminator preceding read i.
	starts []int32
	// textLen is the length of the indexed text, including terminators.
	textLen int64

	sa  []int32
	bwt []uint8 // symbol codes; noCode for the suffix at position 0.

	// count[c] is the number of occurrences of code c in the text. first[c]
	// is the rank of the first suffix starting with c.
	count [alphabetSize]int64
	first [alphabetSize]int64
	// occ[b][c] is the number of occurrences of c in bwt[0:b*occInterval].
	occ [][alphabetSize]uint32
}

// Build creates an index over the given reads. Reads must be non-empty and
// contain only 'A', 'C', 'G', 'N' and 'T' (see reads.Normalize).
func Build(seqs []string) (*Index, error) {
	total := int64(1)
	for i, s := range seqs {
		if len(s) == 0 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("fmindex: read %d is empty", i))
		}
		for j := 0; j < len(s); j++ {
			if c := codeTable[s[j]]; c == noCode || c == 0 {
				return nil, errors.E(errors.Invalid, fmt.Sprintf("fmindex: read %d contains invalid symbol %q", i, s[j]))
			}
		}
		total += int64(len(s)) + 1
	}
	if total > math.MaxInt32 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("fmindex: text too large (%d symbols)", total))
	}
	idx := &Index{
		reads:   seqs,
		starts:  make([]int32, len(seqs)),
		textLen: total,
	}
	text := make([]byte, 0, total)
	for i, s := range seqs {
		idx.starts[i] = int32(len(text))
		text = append(text, Terminator)
		text = append(text, s...)
	}
	text = append(text, Terminator)

	idx.sa = buildSuffixArray(text)
	idx.bwt = make([]uint8, len(text))
	for i, pos := range idx.sa {
		if pos == 0 {
			idx.bwt[i] = noCode
			continue
		}
		idx.bwt[i] = codeTable[text[pos-1]]
	}
	for _, ch := range text {
		idx.count[codeTable[ch]]++
	}
	var sum int64
	for c := 0; c < alphabetSize; c++ {
		idx.first[c] = sum
		sum += idx.count[c]
	}

	nBlock := len(idx.bwt)/occInterval + 1
	idx.occ = make([][alphabetSize]uint32, nBlock)
	var running [alphabetSize]uint32
	for i, c := range idx.bwt {
		if i%occInterval == 0 {
			idx.occ[i/occInterval] = running
		}
		if c != noCode {
			running[c]++
		}
	}
	if len(idx.bwt)%occInterval == 0 {
		idx.occ[nBlock-1] = running
	}
	log.Debug.Printf("fmindex: indexed %d reads, %d symbols", len(seqs), total)
	return idx, nil
}

// NumReads returns the number of indexed reads.
func (idx *Index) NumReads() int { return len(idx.reads) }

// Read returns the sequence of the i'th read.
func (idx *Index) Read(i int) string { return idx.reads[i] }

// Len returns the length of the indexed text.
func (idx *Index) Len() int64 { return idx.textLen }

// occAt returns the number of occurrences of code c in bwt[0:i].
func (idx *Index) occAt(c uint8, i int64) int64 {
	b := i / occInterval
	n := int64(idx.occ[b][c])
	for j := b * occInterval; j < i; j++ {
		if idx.bwt[j] == c {
			n++
		}
	}
	return n
}

// lfStart returns the rank offset used by the LF mapping for code c. The
// final terminator has no successor suffix, so LF never reaches it; it is the
// smallest suffix, hence the shift for '$'.
func (idx *Index) lfStart(c uint8) int64 {
	if c == 0 {
		return idx.first[c] + 1
	}
	return idx.first[c]
}

// Initial returns the interval of all suffixes starting with ch.
func (idx *Index) Initial(ch byte) Interval {
	c := codeTable[ch]
	if c == noCode || idx.count[c] == 0 {
		return InvalidInterval
	}
	return Interval{Lower: idx.first[c], Upper: idx.first[c] + idx.count[c] - 1}
}

// Extend prepends ch to the pattern whose interval is iv, and returns the
// interval of the longer pattern.
func (idx *Index) Extend(iv Interval, ch byte) Interval {
	c := codeTable[ch]
	if c == noCode || !iv.Valid() {
		return InvalidInterval
	}
	start := idx.lfStart(c)
	lower := start + idx.occAt(c, iv.Lower)
	upper := start + idx.occAt(c, iv.Upper+1) - 1
	if lower > upper {
		return InvalidInterval
	}
	return Interval{Lower: lower, Upper: upper}
}

// Find returns the interval of suffixes that start with pattern, by backward
// search. The empty pattern matches every suffix.
func (idx *Index) Find(pattern string) Interval {
	n := len(pattern)
	if n == 0 {
		return Interval{Lower: 0, Upper: idx.textLen - 1}
	}
	iv := idx.Initial(pattern[n-1])
	for i := n - 2; i >= 0 && iv.Valid(); i-- {
		iv = idx.Extend(iv, pattern[i])
	}
	return iv
}

// Count returns the number of occurrences of pattern in the indexed text.
func (idx *Index) Count(pattern string) int64 {
	return idx.Find(pattern).Size()
}

// ReadInterval returns the identity interval of seq: the interval of "$seq$".
// It is non-empty iff some read equals seq.
func (idx *Index) ReadInterval(seq string) Interval {
	iv := idx.Initial(Terminator)
	for i := len(seq) - 1; i >= 0 && iv.Valid(); i-- {
		iv = idx.Extend(iv, seq[i])
	}
	return idx.Extend(iv, Terminator)
}

// Position returns the text position of the suffix with the given rank.
func (idx *Index) Position(rank int64) int64 { return int64(idx.sa[rank]) }

// ReadAt returns the read containing text position pos, and the offset of pos
// within the read. A terminator position maps to the read that follows it,
// with offset -1.
func (idx *Index) ReadAt(pos int64) (id int, offset int) {
	id = sort.Search(len(idx.starts), func(i int) bool { return int64(idx.starts[i]) > pos }) - 1
	if id < 0 || id >= len(idx.starts) {
		log.Panicf("fmindex: position %d out of range", pos)
	}
	return id, int(pos-int64(idx.starts[id])) - 1
}

// ReadIDs returns the ids of the reads whose terminator-prefixed suffixes
// fall in iv, in ascending order. For an identity interval these are exactly the
// reads with that sequence.
func (idx *Index) ReadIDs(iv Interval) []int {
	if !iv.Valid() {
		return nil
	}
	ids := make([]int, 0, iv.Size())
	for k := iv.Lower; k <= iv.Upper; k++ {
		pos := idx.Position(k)
		if pos == idx.textLen-1 {
			// The final terminator is not followed by a read.
			continue
		}
		id, off := idx.ReadAt(pos)
		if off != -1 {
			log.Panicf("fmindex: rank %d (pos %d) is not a read start", k, pos)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
