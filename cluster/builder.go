// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cluster

import (
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/readcluster/fmindex"
	"github.com/grailbio/readcluster/reads"
)

// Builder grows one cluster by breadth-first search from its seeds.
//
// Usage:
//
//   b := NewBuilder(oracle, minOverlap)
//   if _, err := b.AddSeed(seq, true); err != nil { ... }
//   b.Run(maxSize)
//   nodes := b.Output()
//
// A Builder is single use and thread compatible.
type Builder struct {
	oracle     Oracle
	minOverlap int

	// queue[head:] is the BFS frontier.
	queue []Node
	head  int
	// out lists the nodes dequeued so far, in BFS order.
	out []Node
	// drivers counts the queued seeds that are not reads of the index. They
	// are expanded but never admitted.
	drivers int
	// visited holds the identity keys (Interval.Lower) of every node ever
	// enqueued.
	visited map[int64]struct{}

	ran     bool
	aborted bool
}

// NewBuilder creates an empty Builder. Overlaps shorter than minOverlap are
// not followed.
func NewBuilder(oracle Oracle, minOverlap int) *Builder {
	return &Builder{
		oracle:     oracle,
		minOverlap: minOverlap,
		visited:    map[int64]struct{}{},
	}
}

// AddSeed adds a BFS root.
//
// If requireIndexed is true, seq must be a read in the index: a seq that is a
// substring of another read, or that is not in the index at all, yields an
// error of kind errors.Precondition. Such reads must be removed before
// clustering (see package rmdup).
//
// If requireIndexed is false, a seq that is a substring of another read is
// skipped: AddSeed returns InvalidNode and leaves the builder unchanged. A seq
// whose reverse complement is a read seeds that read on the reverse strand.
// Any other seq missing from the index still drives the search: its overlaps
// are followed, but it is never admitted to the output, and AddSeed returns a
// node with an invalid interval.
func (b *Builder) AddSeed(seq string, requireIndexed bool) (Node, error) {
	if b.ran {
		return InvalidNode, errors.E(errors.Invalid, "cluster: AddSeed called after Run")
	}
	if b.oracle.IsSubstring(seq) {
		if requireIndexed {
			return InvalidNode, errors.E(errors.Precondition,
				"cluster: seed is a substring of another read; remove duplicate and contained reads before clustering. sequence:", seq)
		}
		log.Error.Printf("cluster: seed is a substring of another read; skipping. sequence: %s", seq)
		return InvalidNode, nil
	}
	iv := b.oracle.IdentityInterval(seq)
	reverse := false
	if !iv.Valid() && !requireIndexed {
		// Cluster files store reverse-strand members reverse complemented.
		if rcIv := b.oracle.IdentityInterval(reads.ReverseComplement(seq)); rcIv.Valid() {
			iv, reverse = rcIv, true
		}
	}
	if !iv.Valid() {
		if requireIndexed {
			return InvalidNode, errors.E(errors.Precondition, "cluster: seed is not a read in the index. sequence:", seq)
		}
		log.Debug.Printf("cluster: seed is not a read in the index; using it to find overlaps only. sequence: %s", seq)
		node := Node{Seq: seq, Interval: fmindex.InvalidInterval}
		b.queue = append(b.queue, node)
		b.drivers++
		return node, nil
	}
	node := Node{Seq: seq, Interval: iv, Reverse: reverse}
	if _, ok := b.visited[iv.Lower]; !ok {
		b.visited[iv.Lower] = struct{}{}
		b.queue = append(b.queue, node)
	}
	return node, nil
}

// Run explores the cluster breadth first until the frontier is empty. If the
// number of queued plus admitted reads ever exceeds maxSize, the search is
// abandoned: all state is cleared and Output returns nothing.
//
// REQUIRES: Run has not been called before.
func (b *Builder) Run(maxSize int) {
	if b.ran {
		log.Panicf("cluster: Run called twice")
	}
	b.ran = true
	for b.head < len(b.queue) {
		queued := len(b.queue) - b.head - b.drivers
		if queued+len(b.out) > maxSize {
			log.Debug.Printf("cluster: abandoning cluster with %d queued, %d admitted nodes (max %d)",
				queued, len(b.out), maxSize)
			b.abort()
			return
		}
		node := b.queue[b.head]
		b.queue[b.head] = Node{}
		b.head++
		if node.Valid() {
			b.out = append(b.out, node)
		} else {
			b.drivers--
		}

		for _, hit := range b.oracle.FindOverlaps(node.Seq, b.minOverlap) {
			if !hit.Interval.Valid() {
				continue
			}
			key := hit.Interval.Lower
			if _, ok := b.visited[key]; ok {
				continue
			}
			b.visited[key] = struct{}{}
			b.queue = append(b.queue, Node{
				Seq:      hit.FullSequence(node.Seq),
				Interval: hit.Interval,
				Reverse:  hit.Reverse,
			})
		}
	}
	b.queue, b.head = nil, 0
}

func (b *Builder) abort() {
	b.queue, b.head, b.drivers = nil, 0, 0
	b.out = nil
	b.visited = map[int64]struct{}{}
	b.aborted = true
}

// Aborted reports whether Run abandoned the cluster because it exceeded the
// size bound.
func (b *Builder) Aborted() bool { return b.aborted }

// Output returns the admitted nodes sorted by identity interval, each read at
// most once.
func (b *Builder) Output() []Node {
	nodes := make([]Node, len(b.out))
	copy(nodes, b.out)
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Less(nodes[j])
	})
	// Collapse nodes reached twice, e.g. through a short cycle.
	n := 0
	for i := range nodes {
		if n > 0 && nodes[n-1].SameRead(nodes[i]) {
			continue
		}
		nodes[n] = nodes[i]
		n++
	}
	return nodes[:n]
}
