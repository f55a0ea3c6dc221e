// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cluster

import (
	"github.com/grailbio/readcluster/fmindex"
	"github.com/grailbio/readcluster/overlap"
)

// Oracle answers the index queries the Builder needs. Implementations must be
// safe for concurrent use by multiple Builders.
type Oracle interface {
	// IsSubstring reports whether seq occurs in the index other than as a
	// whole read.
	IsSubstring(seq string) bool
	// IdentityInterval returns the interval of the reads equal to seq.
	IdentityInterval(seq string) fmindex.Interval
	// FindOverlaps lists the neighbors of seq with an overlap of at least
	// minOverlap bases.
	FindOverlaps(seq string, minOverlap int) []overlap.Hit
}

// Node is one read admitted into a cluster. Nodes are identified by Interval
// alone.
type Node struct {
	// Seq is the read sequence, on the strand it was reached from.
	Seq      string
	Interval fmindex.Interval
	// Reverse is set if Seq is the reverse complement of the indexed read.
	Reverse bool
}

// InvalidNode is returned for a seed that was skipped.
var InvalidNode = Node{Interval: fmindex.InvalidInterval}

// Valid reports whether the node has a non-empty identity interval.
func (n Node) Valid() bool { return n.Interval.Valid() }

// Compare orders nodes by identity interval.
func (n Node) Compare(o Node) int { return n.Interval.Compare(o.Interval) }

// Less reports whether n sorts before o.
func (n Node) Less(o Node) bool { return n.Compare(o) < 0 }

// SameRead reports whether n and o denote the same underlying read.
func (n Node) SameRead(o Node) bool { return n.Interval == o.Interval }
