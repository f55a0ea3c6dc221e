// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package overlap

import (
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/grailbio/readcluster/fmindex"
)

// Side says on which end of the query sequence a neighbor's extension lies.
type Side uint8

const (
	// Right means the neighbor starts inside the query and extends past its
	// end.
	Right Side = iota
	// Left means the neighbor ends inside the query and extends before its
	// start.
	Left
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Hit is one neighbor of a query sequence.
//
// The neighbor's sequence, written on the query's strand, is the Overlap
// bases shared with the query plus Extension on the given Side. Reverse is
// set when that sequence is the reverse complement of the indexed read.
type Hit struct {
	// Interval is the identity interval of the indexed neighbor read.
	Interval  fmindex.Interval
	Overlap   int
	Extension string
	Side      Side
	Reverse   bool
}

// FullSequence reconstructs the neighbor's sequence from the query the hit
// was found for.
//
// REQUIRES: len(query) >= h.Overlap.
func (h Hit) FullSequence(query string) string {
	if h.Overlap > len(query) {
		log.Panicf("overlap: hit %v does not fit query of length %d", h, len(query))
	}
	if h.Side == Left {
		return h.Extension + query[:h.Overlap]
	}
	return query[len(query)-h.Overlap:] + h.Extension
}

func (h Hit) String() string {
	strand := '+'
	if h.Reverse {
		strand = '-'
	}
	return fmt.Sprintf("%v%c ov=%d %s+%d", h.Interval, strand, h.Overlap, h.Side, len(h.Extension))
}
