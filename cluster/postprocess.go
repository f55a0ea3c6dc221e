// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cluster

import (
	"fmt"
	"sync"

	"github.com/grailbio/base/log"
	"github.com/grailbio/readcluster/fmindex"
)

// Member is one read of a written cluster.
type Member struct {
	// Read is the id of the read in the index.
	Read int
	Node Node
}

// Cluster is a finished cluster, as handed to a Writer.
type Cluster struct {
	ID      string
	Members []Member
}

// Writer persists clusters. PostProcessor serializes all calls.
type Writer interface {
	WriteCluster(c Cluster) error
}

// Locator maps an identity interval to the ids of the reads it covers.
// *fmindex.Index implements it.
type Locator interface {
	ReadIDs(iv fmindex.Interval) []int
}

// PostProcessor is the single consumer of Processor results. It filters
// clusters, assigns ids, writes them, and marks their reads so that no read
// is emitted twice. It is thread safe.
type PostProcessor struct {
	w              Writer
	locator        Locator
	marks          *Marks
	minClusterSize int

	mu     sync.Mutex
	stats  Stats
	nextID int
}

// NewPostProcessor creates a PostProcessor that writes to w and records
// written reads in marks.
func NewPostProcessor(w Writer, locator Locator, marks *Marks, minClusterSize int) *PostProcessor {
	return &PostProcessor{w: w, locator: locator, marks: marks, minClusterSize: minClusterSize}
}

// ProcessRead consumes the result of Processor.ProcessRead for the given read.
// The result is dropped if the seed read was marked in the meantime, since
// the cluster containing it has already been written.
func (pp *PostProcessor) ProcessRead(read int, res Result) error {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	pp.stats.Items++
	if pp.marks.Test(read) {
		pp.stats.SkippedMarked++
		return nil
	}
	members, ok := pp.filter(res)
	if !ok {
		return nil
	}
	return pp.write(members)
}

// ProcessCluster consumes the result of Processor.ProcessCluster. The result
// is dropped if all of its reads were already written.
func (pp *PostProcessor) ProcessCluster(res Result) error {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	pp.stats.Items++
	members, ok := pp.filter(res)
	if !ok {
		return nil
	}
	for _, m := range members {
		if !pp.marks.Test(m.Read) {
			return pp.write(members)
		}
	}
	pp.stats.SkippedMarked++
	return nil
}

// filter applies the size rules and expands nodes into reads.
//
// REQUIRES: pp.mu is held.
func (pp *PostProcessor) filter(res Result) ([]Member, bool) {
	if res.Aborted {
		pp.stats.Aborted++
		return nil, false
	}
	if len(res.Nodes) < pp.minClusterSize {
		pp.stats.TooSmall++
		return nil, false
	}
	members := make([]Member, 0, len(res.Nodes))
	for _, node := range res.Nodes {
		ids := pp.locator.ReadIDs(node.Interval)
		if len(ids) == 0 {
			log.Panicf("cluster: node %v covers no reads", node.Interval)
		}
		for _, id := range ids {
			members = append(members, Member{Read: id, Node: node})
		}
	}
	return members, true
}

// write emits one cluster and marks its reads.
//
// REQUIRES: pp.mu is held.
func (pp *PostProcessor) write(members []Member) error {
	c := Cluster{ID: fmt.Sprintf("cluster-%d", pp.nextID), Members: members}
	if err := pp.w.WriteCluster(c); err != nil {
		return err
	}
	pp.nextID++
	for _, m := range members {
		pp.marks.Set(m.Read)
	}
	pp.stats.Clusters++
	pp.stats.Reads += len(members)
	log.Debug.Printf("cluster: wrote %s with %d reads", c.ID, len(members))
	return nil
}

// Stats returns a snapshot of the counters.
func (pp *PostProcessor) Stats() Stats {
	pp.mu.Lock()
	defer pp.mu.Unlock()
	return pp.stats
}
