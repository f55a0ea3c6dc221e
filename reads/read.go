// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package reads

import "github.com/grailbio/readcluster/biosimd"

// Read is a named DNA sequence. Seq is normalized: uppercase, restricted to
// 'A', 'C', 'G', 'T' and 'N'.
type Read struct {
	Name, Seq string
}

// Normalize uppercases seq and maps every non-ACGT byte to 'N'. It returns seq
// itself if it is already normalized.
func Normalize(seq string) string {
	buf := []byte(seq)
	if !biosimd.IsNonACGTNPresent(buf) {
		return seq
	}
	biosimd.CleanASCIISeqInplace(buf)
	return string(buf)
}
