package cluster

import (
	"sync"

	"github.com/grailbio/readcluster/fmindex"
	"github.com/grailbio/readcluster/overlap"
)

// fakeOracle serves canned answers keyed by sequence.
type fakeOracle struct {
	mu         sync.Mutex
	substrings map[string]bool
	intervals  map[string]fmindex.Interval
	hits       map[string][]overlap.Hit
	// queries lists the FindOverlaps arguments in call order.
	queries []string
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		substrings: map[string]bool{},
		intervals:  map[string]fmindex.Interval{},
		hits:       map[string][]overlap.Hit{},
	}
}

func (o *fakeOracle) IsSubstring(seq string) bool { return o.substrings[seq] }

func (o *fakeOracle) IdentityInterval(seq string) fmindex.Interval {
	if iv, ok := o.intervals[seq]; ok {
		return iv
	}
	return fmindex.InvalidInterval
}

func (o *fakeOracle) FindOverlaps(seq string, minOverlap int) []overlap.Hit {
	o.mu.Lock()
	o.queries = append(o.queries, seq)
	o.mu.Unlock()
	return o.hits[seq]
}

// addRead registers seq as an indexed read with identity [key,key].
func (o *fakeOracle) addRead(seq string, key int64) {
	o.intervals[seq] = fmindex.Interval{Lower: key, Upper: key}
}

// link makes dst a neighbor of src. dst must extend src on the right.
func (o *fakeOracle) link(src, dst string) {
	if len(dst) < len(src) || dst[:len(src)] != src {
		// Treat unrelated sequences as a full replacement; the overlap covers
		// nothing of src.
		o.hits[src] = append(o.hits[src], overlap.Hit{
			Interval:  o.IdentityInterval(dst),
			Overlap:   0,
			Extension: dst,
			Side:      overlap.Right,
		})
		return
	}
	o.hits[src] = append(o.hits[src], overlap.Hit{
		Interval:  o.IdentityInterval(dst),
		Overlap:   len(src),
		Extension: dst[len(src):],
		Side:      overlap.Right,
	})
}
