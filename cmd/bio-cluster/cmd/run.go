// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"runtime"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/readcluster/cluster"
	"github.com/grailbio/readcluster/clusterio"
	"github.com/grailbio/readcluster/fmindex"
	"github.com/grailbio/readcluster/overlap"
	"github.com/grailbio/readcluster/reads"
	"github.com/grailbio/readcluster/rmdup"
)

// clusterWriter is implemented by the clusterio writers.
type clusterWriter interface {
	cluster.Writer
	Close(ctx context.Context) error
}

func isRIO(path string) bool { return strings.HasSuffix(path, ".rio") }

func createWriter(ctx context.Context, path string, names []string, opts cluster.Opts) (clusterWriter, error) {
	if isRIO(path) {
		return clusterio.CreateRIO(ctx, path, names, opts)
	}
	return clusterio.CreateTSV(ctx, path, names)
}

// loadIndex reads the reads at path and indexes them. If filter is set,
// duplicate and contained reads are dropped first.
func loadIndex(ctx context.Context, path string, filter bool, parallelism int) (*fmindex.Index, []string, error) {
	all, err := reads.Load(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if filter {
		if all, _, err = rmdup.Filter(all, parallelism); err != nil {
			return nil, nil, err
		}
	}
	seqs := make([]string, len(all))
	names := make([]string, len(all))
	for i, r := range all {
		seqs[i], names[i] = r.Seq, r.Name
	}
	idx, err := fmindex.Build(seqs)
	if err != nil {
		return nil, nil, errors.E(err, "index", path)
	}
	log.Printf("Indexed %d reads, %d bases", idx.NumReads(), idx.Len())
	return idx, names, nil
}

// closeWriter closes w, keeping the first of err and the close error.
func closeWriter(ctx context.Context, w clusterWriter, err *error) {
	if e := w.Close(ctx); e != nil && *err == nil {
		*err = e
	}
}

func runCluster(ctx context.Context, readPath, outPath string, opts cluster.Opts, filter bool) (stats cluster.Stats, err error) {
	if err = opts.Validate(); err != nil {
		return
	}
	idx, names, err := loadIndex(ctx, readPath, filter, defaultParallelism(opts.Parallelism))
	if err != nil {
		return
	}
	w, err := createWriter(ctx, outPath, names, opts)
	if err != nil {
		return
	}
	defer closeWriter(ctx, w, &err)
	stats, err = cluster.Generate(ctx, idx, overlap.New(idx), opts, w)
	return
}

func runExtend(ctx context.Context, readPath, clusterPath, outPath string, opts cluster.Opts) (stats cluster.Stats, err error) {
	if err = opts.Validate(); err != nil {
		return
	}
	var in []clusterio.Cluster
	if isRIO(clusterPath) {
		in, _, err = clusterio.ReadRIO(ctx, clusterPath)
	} else {
		in, err = clusterio.ReadClusters(ctx, clusterPath)
	}
	if err != nil {
		return
	}
	seeds := make([][]string, len(in))
	for i, c := range in {
		seeds[i] = c.Seqs()
	}
	idx, names, err := loadIndex(ctx, readPath, false, 0)
	if err != nil {
		return
	}
	w, err := createWriter(ctx, outPath, names, opts)
	if err != nil {
		return
	}
	defer closeWriter(ctx, w, &err)
	stats, err = cluster.Extend(ctx, idx, overlap.New(idx), seeds, opts, w)
	return
}

func runRmdup(ctx context.Context, readPath, outPath string, parallelism int) (rmdup.Stats, error) {
	all, err := reads.Load(ctx, readPath)
	if err != nil {
		return rmdup.Stats{}, err
	}
	out, stats, err := rmdup.Filter(all, defaultParallelism(parallelism))
	if err != nil {
		return stats, err
	}
	return stats, reads.Save(ctx, outPath, out)
}

func defaultParallelism(n int) int {
	if n == 0 {
		return runtime.NumCPU()
	}
	return n
}
