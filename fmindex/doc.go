// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package fmindex implements an in-memory FM-index over a set of reads.
//
// The indexed text is
//
//   $R0$R1$...$Rn-1$
//
// over the alphabet {$, A, C, G, N, T}. Patterns are located by backward
// search, so a pattern's occurrences form a contiguous Interval of suffix
// array ranks. Because every read is surrounded by terminators, the interval
// of "$X$" contains exactly the reads whose sequence is X. That interval is
// the read's identity: identical reads share it, and its Lower bound is used
// as a compact key.
//
// An Index is immutable once built and safe for concurrent use.
package fmindex
