// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd

import (
	"github.com/grailbio/base/simd"
)

// revComp8Table maps each ASCII base to its complement, folding case, and
// everything else to 'N'.
var revComp8Table [256]byte

func init() {
	for i := range revComp8Table {
		revComp8Table[i] = 'N'
	}
	for _, pair := range [...][2]byte{{'A', 'T'}, {'C', 'G'}, {'G', 'C'}, {'T', 'A'}} {
		revComp8Table[pair[0]] = pair[1]
		revComp8Table[pair[0]+'a'-'A'] = pair[1]
	}
}

func complement8Inplace(ascii8 []byte) {
	for i, b := range ascii8 {
		ascii8[i] = revComp8Table[b]
	}
}

// ReverseComp8Inplace reverse-complements ascii8[], assuming that it's using
// ASCII encoding. 'A'/'a' are mapped to 'T', 'C'/'c' to 'G', 'G'/'g' to 'C',
// 'T'/'t' to 'A', and every other byte to 'N'.
func ReverseComp8Inplace(ascii8 []byte) {
	simd.Reverse8Inplace(ascii8)
	complement8Inplace(ascii8)
}

// ReverseComp8 writes the reverse complement of src[] to dst[], with the same
// byte mapping as ReverseComp8Inplace.
//
// It panics if len(dst) != len(src).
func ReverseComp8(dst, src []byte) {
	if len(dst) != len(src) {
		panic("ReverseComp8() requires len(src) == len(dst).")
	}
	simd.Reverse8(dst, src)
	complement8Inplace(dst)
}
