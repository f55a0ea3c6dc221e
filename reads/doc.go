// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package reads loads sequencing reads from FASTA or FASTQ files and provides
// the small sequence utilities (normalization, reverse complement) shared by
// the index and the clustering code.
package reads
