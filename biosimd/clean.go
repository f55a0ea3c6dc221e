// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd

var (
	// cleanASCIISeqTable capitalizes acgt and maps everything other than ACGT
	// to 'N'.
	cleanASCIISeqTable [256]byte
	// isNotCapitalACGTNTable is 1 for every byte other than 'A', 'C', 'G',
	// 'N' and 'T'.
	isNotCapitalACGTNTable [256]byte
)

func init() {
	for i := range cleanASCIISeqTable {
		cleanASCIISeqTable[i] = 'N'
		isNotCapitalACGTNTable[i] = 1
	}
	for _, c := range []byte("ACGT") {
		cleanASCIISeqTable[c] = c
		cleanASCIISeqTable[c+'a'-'A'] = c
	}
	for _, c := range []byte("ACGNT") {
		isNotCapitalACGTNTable[c] = 0
	}
}

// CleanASCIISeqInplace capitalizes 'a'/'c'/'g'/'t', and replaces everything
// non-ACGT with 'N'.
func CleanASCIISeqInplace(ascii8 []byte) {
	for pos, b := range ascii8 {
		ascii8[pos] = cleanASCIISeqTable[b]
	}
}

// IsNonACGTNPresent returns true iff there is a non-capital-ACGTN character in
// the slice.
func IsNonACGTNPresent(ascii8 []byte) bool {
	for _, b := range ascii8 {
		if isNotCapitalACGTNTable[b] != 0 {
			return true
		}
	}
	return false
}
