// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// bio-cluster groups sequencing reads into clusters of reads connected by
// exact suffix-prefix overlaps, on either strand.
//
// Usage:
//
//   bio-cluster rmdup reads.fq.gz uniq.fa
//   bio-cluster cluster -min-overlap=31 uniq.fa clusters.tsv
//   bio-cluster extend uniq.fa clusters.tsv extended.rio
//
// See "bio-cluster help" for the flags of each command.
package main

import "github.com/grailbio/readcluster/cmd/bio-cluster/cmd"

func main() {
	cmd.Run()
}
