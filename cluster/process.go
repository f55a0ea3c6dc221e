// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cluster

// Result is the outcome of building one cluster.
type Result struct {
	// Nodes is the normalized cluster. It is empty if the cluster was
	// discarded.
	Nodes []Node
	// Aborted is set when the cluster exceeded Opts.MaxClusterSize.
	Aborted bool
}

// Processor builds one cluster per call. It is stateless, so a single
// Processor may be shared by many goroutines as long as its Oracle is.
type Processor struct {
	oracle Oracle
	opts   Opts
}

// NewProcessor creates a Processor.
func NewProcessor(oracle Oracle, opts Opts) *Processor {
	return &Processor{oracle: oracle, opts: opts}
}

// ProcessRead builds the cluster seeded by one indexed read. It fails with an
// errors.Precondition error if the read is contained in another read or is
// missing from the index.
func (p *Processor) ProcessRead(seq string) (Result, error) {
	b := NewBuilder(p.oracle, p.opts.MinOverlap)
	if _, err := b.AddSeed(seq, true); err != nil {
		return Result{}, err
	}
	return p.run(b), nil
}

// ProcessCluster grows a previously built cluster, using each of its
// sequences as a seed. Sequences that are substrings of an indexed read are
// skipped. Sequences missing from the index on both strands are not admitted,
// but their overlaps with indexed reads are followed.
func (p *Processor) ProcessCluster(seqs []string) (Result, error) {
	b := NewBuilder(p.oracle, p.opts.MinOverlap)
	for _, seq := range seqs {
		if _, err := b.AddSeed(seq, false); err != nil {
			return Result{}, err
		}
	}
	return p.run(b), nil
}

func (p *Processor) run(b *Builder) Result {
	b.Run(p.opts.MaxClusterSize)
	return Result{Nodes: b.Output(), Aborted: b.Aborted()}
}
