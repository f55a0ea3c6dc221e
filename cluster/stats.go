// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cluster

// Stats summarizes a clustering run.
type Stats struct {
	// Items is the number of work items (reads or input clusters) considered.
	Items int
	// SkippedMarked counts work items skipped because their reads were already
	// written as part of another cluster.
	SkippedMarked int
	// Aborted counts clusters discarded for exceeding Opts.MaxClusterSize.
	Aborted int
	// TooSmall counts clusters smaller than Opts.MinClusterSize.
	TooSmall int
	// Clusters is the number of clusters written.
	Clusters int
	// Reads is the number of reads written, counting each node's whole
	// identity interval.
	Reads int
}

// Merge adds the field values of the two Stats objects and creates new Stats.
func (s Stats) Merge(o Stats) Stats {
	s.Items += o.Items
	s.SkippedMarked += o.SkippedMarked
	s.Aborted += o.Aborted
	s.TooSmall += o.TooSmall
	s.Clusters += o.Clusters
	s.Reads += o.Reads
	return s
}
