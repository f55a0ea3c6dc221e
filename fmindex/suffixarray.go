// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fmindex

import "sort"

// buildSuffixArray sorts the suffixes of text by prefix doubling.
// A proper prefix sorts before the longer suffix.
func buildSuffixArray(text []byte) []int32 {
	n := len(text)
	sa := make([]int32, n)
	if n == 0 {
		return sa
	}
	rank := make([]int32, n)
	tmp := make([]int32, n)
	for i := range sa {
		sa[i] = int32(i)
		rank[i] = int32(text[i])
	}
	for k := 1; ; k <<= 1 {
		// rankAt returns the rank of the suffix k positions further, or -1 past
		// the end of the text.
		rankAt := func(i int32) int32 {
			if j := int(i) + k; j < n {
				return rank[j]
			}
			return -1
		}
		less := func(a, b int32) bool {
			if rank[a] != rank[b] {
				return rank[a] < rank[b]
			}
			return rankAt(a) < rankAt(b)
		}
		sort.Slice(sa, func(i, j int) bool { return less(sa[i], sa[j]) })
		tmp[sa[0]] = 0
		for i := 1; i < n; i++ {
			tmp[sa[i]] = tmp[sa[i-1]]
			if less(sa[i-1], sa[i]) {
				tmp[sa[i]]++
			}
		}
		copy(rank, tmp)
		if int(rank[sa[n-1]]) == n-1 || k >= n {
			break
		}
	}
	return sa
}
