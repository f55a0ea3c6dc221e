// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package reads

import "github.com/grailbio/readcluster/biosimd"

// ReverseComplement returns the reverse complement of seq. It maps 'A'/'a' to
// 'T', 'C'/'c' to 'G', 'G'/'g' to 'C', 'T'/'t' to 'A', and everything else to
// 'N'.
func ReverseComplement(seq string) string {
	buf := []byte(seq)
	biosimd.ReverseComp8Inplace(buf)
	return string(buf)
}

// Canonical returns the lexicographically smaller of seq and its reverse
// complement. Two reads are the same molecule on either strand iff their
// canonical forms are equal.
func Canonical(seq string) string {
	rc := ReverseComplement(seq)
	if rc < seq {
		return rc
	}
	return seq
}
