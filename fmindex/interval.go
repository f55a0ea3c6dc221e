// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package fmindex

import "fmt"

// Interval is a closed range [Lower, Upper] of suffix array ranks. An interval
// with Lower > Upper is empty.
type Interval struct {
	Lower, Upper int64
}

// InvalidInterval is the canonical empty interval.
var InvalidInterval = Interval{Lower: 0, Upper: -1}

// Valid reports whether the interval is non-empty.
func (iv Interval) Valid() bool { return iv.Lower <= iv.Upper }

// Size returns the number of ranks in the interval.
func (iv Interval) Size() int64 {
	if !iv.Valid() {
		return 0
	}
	return iv.Upper - iv.Lower + 1
}

// Compare orders intervals by Lower, then Upper. It returns -1, 0 or 1.
func (iv Interval) Compare(o Interval) int {
	switch {
	case iv.Lower < o.Lower:
		return -1
	case iv.Lower > o.Lower:
		return 1
	case iv.Upper < o.Upper:
		return -1
	case iv.Upper > o.Upper:
		return 1
	}
	return 0
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d,%d]", iv.Lower, iv.Upper)
}
