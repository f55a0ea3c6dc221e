// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cluster

import (
	"fmt"
	"runtime"

	"github.com/grailbio/base/errors"
)

// Opts controls cluster construction.
type Opts struct {
	// MinOverlap is the minimum exact overlap, in bases, for two reads to be
	// connected.
	MinOverlap int
	// MaxClusterSize bounds the number of reads in a cluster. A cluster that
	// would grow past it is discarded entirely rather than truncated.
	MaxClusterSize int
	// MinClusterSize is the smallest cluster written to the output. Smaller
	// clusters are dropped and their reads stay available as seeds.
	MinClusterSize int
	// Parallelism is the number of concurrent Builders. Zero means
	// runtime.NumCPU().
	Parallelism int
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	MinOverlap:     45,    // sga: -m
	MaxClusterSize: 10000, // sga: --max-size
	MinClusterSize: 2,     // sga: -c
	Parallelism:    0,
}

// Validate checks the option values.
func (o Opts) Validate() error {
	switch {
	case o.MinOverlap < 1:
		return errors.E(errors.Invalid, fmt.Sprintf("cluster: MinOverlap must be positive, got %d", o.MinOverlap))
	case o.MaxClusterSize < 1:
		return errors.E(errors.Invalid, fmt.Sprintf("cluster: MaxClusterSize must be positive, got %d", o.MaxClusterSize))
	case o.MinClusterSize < 1:
		return errors.E(errors.Invalid, fmt.Sprintf("cluster: MinClusterSize must be positive, got %d", o.MinClusterSize))
	case o.MinClusterSize > o.MaxClusterSize:
		return errors.E(errors.Invalid, fmt.Sprintf("cluster: MinClusterSize %d exceeds MaxClusterSize %d",
			o.MinClusterSize, o.MaxClusterSize))
	case o.Parallelism < 0:
		return errors.E(errors.Invalid, fmt.Sprintf("cluster: negative Parallelism %d", o.Parallelism))
	}
	return nil
}

func (o Opts) parallelism() int {
	if o.Parallelism == 0 {
		return runtime.NumCPU()
	}
	return o.Parallelism
}
