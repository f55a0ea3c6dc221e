// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cluster

import (
	"math/bits"
	"sync"

	"github.com/grailbio/base/bitset"
)

// Marks is a thread-safe bit-set over read ids. A set bit means the read has
// been written as part of some cluster.
type Marks struct {
	mu   sync.RWMutex
	bits []uintptr
	n    int
}

// NewMarks creates an all-clear bit-set for reads [0, n).
func NewMarks(n int) *Marks {
	return &Marks{
		bits: make([]uintptr, (n+bitset.BitsPerWord-1)/bitset.BitsPerWord),
		n:    n,
	}
}

// Len returns the number of reads covered.
func (m *Marks) Len() int { return m.n }

// Test reports whether read i is marked.
func (m *Marks) Test(i int) bool {
	m.mu.RLock()
	v := bitset.Test(m.bits, i)
	m.mu.RUnlock()
	return v
}

// Set marks read i.
func (m *Marks) Set(i int) {
	m.mu.Lock()
	bitset.Set(m.bits, i)
	m.mu.Unlock()
}

// Count returns the number of marked reads.
func (m *Marks) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, w := range m.bits {
		n += bits.OnesCount64(uint64(w))
	}
	return n
}
