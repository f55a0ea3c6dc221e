// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package cluster builds clusters of overlapping reads.
//
// A cluster is the connected component of the read overlap graph that
// contains one or more seed sequences. The graph is never materialized:
// Builder discovers the neighbors of each read on demand through an Oracle,
// normally an overlap.Overlapper over an FM-index of all reads, and explores
// them breadth first. A cluster that grows beyond a size bound is discarded as
// a whole.
//
// Builder is the single-threaded core. Processor wraps it for one unit of
// work (a read, or a previously built cluster), and Generate / Extend run
// many Processors in parallel, feeding their results to a PostProcessor that
// owns all shared state: the set of reads already emitted and the output
// Writer.
package cluster
