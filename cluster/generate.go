// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cluster

import (
	"context"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// ReadSet is the indexed collection of reads being clustered.
// *fmindex.Index implements it.
type ReadSet interface {
	Locator
	// NumReads returns the number of reads.
	NumReads() int
	// Read returns the sequence of the i'th read.
	Read(i int) string
}

// Generate builds a cluster from every read that does not already belong to
// a written cluster, and hands the results to w. Reads are sharded over
// opts.Parallelism workers. The first seeding or write error stops the run.
func Generate(ctx context.Context, rs ReadSet, oracle Oracle, opts Opts, w Writer) (Stats, error) {
	if err := opts.Validate(); err != nil {
		return Stats{}, err
	}
	n := rs.NumReads()
	marks := NewMarks(n)
	pp := NewPostProcessor(w, rs, marks, opts.MinClusterSize)
	proc := NewProcessor(oracle, opts)
	// Reads found marked before seeding are counted per job.
	jobStats := make([]Stats, opts.parallelism())
	err := forEachShard(ctx, n, opts.parallelism(), func(jobIdx, i int) error {
		if marks.Test(i) {
			jobStats[jobIdx].Items++
			jobStats[jobIdx].SkippedMarked++
			return nil
		}
		res, err := proc.ProcessRead(rs.Read(i))
		if err != nil {
			return errors.E(err, fmt.Sprintf("cluster: read %d", i))
		}
		return pp.ProcessRead(i, res)
	})
	stats := pp.Stats()
	for _, s := range jobStats {
		stats = stats.Merge(s)
	}
	log.Printf("cluster: generate: %+v, marked %d/%d reads", stats, marks.Count(), n)
	return stats, err
}

// Extend grows each of the given clusters, where a cluster is a list of read
// sequences, typically loaded from an earlier run, possibly over another read
// set. Sequences missing from the index only contribute their overlaps; see
// Builder.AddSeed. Clusters whose reads were all written already are skipped.
func Extend(ctx context.Context, rs ReadSet, oracle Oracle, clusters [][]string, opts Opts, w Writer) (Stats, error) {
	if err := opts.Validate(); err != nil {
		return Stats{}, err
	}
	marks := NewMarks(rs.NumReads())
	pp := NewPostProcessor(w, rs, marks, opts.MinClusterSize)
	proc := NewProcessor(oracle, opts)
	err := forEachShard(ctx, len(clusters), opts.parallelism(), func(_, i int) error {
		res, err := proc.ProcessCluster(clusters[i])
		if err != nil {
			return errors.E(err, fmt.Sprintf("cluster: input cluster %d", i))
		}
		return pp.ProcessCluster(res)
	})
	stats := pp.Stats()
	log.Printf("cluster: extend: %+v, marked %d/%d reads", stats, marks.Count(), rs.NumReads())
	return stats, err
}

// forEachShard splits [0,n) into contiguous shards, one per job, and calls fn
// on each index with the job that owns it. Job indexes are in
// [0,parallelism). After the first error, remaining items are abandoned and
// that error is returned.
func forEachShard(ctx context.Context, n, parallelism int, fn func(jobIdx, i int) error) error {
	if parallelism > n {
		parallelism = n
	}
	if parallelism == 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e := errors.Once{}
	e.Set(traverse.Each(parallelism, func(jobIdx int) error {
		startIdx := (jobIdx * n) / parallelism
		endIdx := ((jobIdx + 1) * n) / parallelism
		log.Debug.Printf("cluster: job %d: items [%d,%d)", jobIdx, startIdx, endIdx)
		for i := startIdx; i < endIdx; i++ {
			if err := ctx.Err(); err != nil {
				e.Set(err)
				return err
			}
			if err := fn(jobIdx, i); err != nil {
				e.Set(err)
				cancel()
				return err
			}
		}
		return nil
	}))
	return e.Err()
}
