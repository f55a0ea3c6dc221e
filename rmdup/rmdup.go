// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package rmdup removes the reads that cannot seed a cluster: exact
// duplicates (on either strand) and reads contained in another read.
package rmdup

import (
	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/readcluster/fmindex"
	"github.com/grailbio/readcluster/overlap"
	"github.com/grailbio/readcluster/reads"
)

// Stats counts the reads removed by Filter.
type Stats struct {
	// Input is the number of reads given to Filter.
	Input int
	// Empty counts zero-length reads.
	Empty int
	// Duplicates counts reads identical to an earlier read, or to its reverse
	// complement.
	Duplicates int
	// Contained counts reads that are a proper substring of another read on
	// either strand.
	Contained int
	// Output is the number of reads kept.
	Output int
}

// Filter returns the reads of in that are neither empty, nor duplicates of an
// earlier read, nor contained in another read. The first copy of a
// duplicated sequence is kept. Order is preserved. Containment checks run on
// parallelism goroutines.
func Filter(in []reads.Read, parallelism int) ([]reads.Read, Stats, error) {
	stats := Stats{Input: len(in)}
	uniq := dedup(in, &stats)
	if len(uniq) == 0 {
		return nil, stats, nil
	}
	seqs := make([]string, len(uniq))
	for i, r := range uniq {
		seqs[i] = r.Seq
	}
	idx, err := fmindex.Build(seqs)
	if err != nil {
		return nil, stats, errors.E(err, "rmdup: index reads")
	}
	o := overlap.New(idx)

	if parallelism <= 0 {
		parallelism = 1
	}
	if parallelism > len(uniq) {
		parallelism = len(uniq)
	}
	contained := make([]bool, len(uniq))
	err = traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * len(uniq)) / parallelism
		endIdx := ((jobIdx + 1) * len(uniq)) / parallelism
		for i := startIdx; i < endIdx; i++ {
			contained[i] = o.IsSubstring(uniq[i].Seq)
		}
		return nil
	})
	if err != nil {
		return nil, stats, err
	}
	out := uniq[:0]
	for i, r := range uniq {
		if contained[i] {
			log.Debug.Printf("rmdup: %s is contained in another read", r.Name)
			stats.Contained++
			continue
		}
		out = append(out, r)
	}
	stats.Output = len(out)
	log.Printf("rmdup: %+v", stats)
	return out, stats, nil
}

// dedup drops empty reads and repeated canonical sequences.
func dedup(in []reads.Read, stats *Stats) []reads.Read {
	var (
		out = make([]reads.Read, 0, len(in))
		// seen maps the hash of a canonical sequence to the indexes in out of
		// the reads having it.
		seen = make(map[uint64][]int, len(in))
	)
Loop:
	for _, r := range in {
		if len(r.Seq) == 0 {
			stats.Empty++
			continue
		}
		canon := reads.Canonical(r.Seq)
		h := farm.Hash64([]byte(canon))
		for _, i := range seen[h] {
			if reads.Canonical(out[i].Seq) == canon {
				log.Debug.Printf("rmdup: %s duplicates %s", r.Name, out[i].Name)
				stats.Duplicates++
				continue Loop
			}
		}
		seen[h] = append(seen[h], len(out))
		out = append(out, r)
	}
	return out
}
