package overlap

import (
	"math/rand"
	"testing"

	"github.com/grailbio/readcluster/fmindex"
	"github.com/grailbio/readcluster/reads"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func newTestOverlapper(t *testing.T, seqs ...string) *Overlapper {
	idx, err := fmindex.Build(seqs)
	assert.NoError(t, err)
	return New(idx)
}

func TestHitFullSequence(t *testing.T) {
	q := "ACGTTGCA"
	expect.EQ(t, Hit{Overlap: 3, Extension: "GGG", Side: Right}.FullSequence(q), "GCAGGG")
	expect.EQ(t, Hit{Overlap: 3, Extension: "TTT", Side: Left}.FullSequence(q), "TTTACG")
	expect.EQ(t, Hit{Overlap: 8, Side: Right}.FullSequence(q), q)
}

func TestIsSubstring(t *testing.T) {
	o := newTestOverlapper(t, "ACGTACGTAA", "GTACG")
	expect.True(t, o.IsSubstring("GTACG"))
	expect.True(t, o.IsSubstring("CGTAC")) // reverse complement of GTACG
	expect.False(t, o.IsSubstring("ACGTACGTAA"))
	expect.False(t, o.IsSubstring("TTACGTACGT")) // reverse complement of read 0
	expect.False(t, o.IsSubstring("GGGGGGG"))
}

func TestIdentityInterval(t *testing.T) {
	o := newTestOverlapper(t, "ACGTACGTAA", "CCCC", "ACGTACGTAA")
	iv := o.IdentityInterval("ACGTACGTAA")
	expect.EQ(t, o.Index().ReadIDs(iv), []int{0, 2})
	expect.False(t, o.IdentityInterval("ACGTACGT").Valid())
}

func findHit(hits []Hit, iv fmindex.Interval) (Hit, bool) {
	for _, h := range hits {
		if h.Interval == iv {
			return h, true
		}
	}
	return Hit{}, false
}

func TestFindOverlapsBothStrands(t *testing.T) {
	const (
		query = "ACAGTTACGA"
		right = "TTACGAGGCT" // query[4:] is its prefix.
		left  = "CTCTACAGTT" // query[:6] is its suffix.
		// rc(revRight) = "ACGAACCTCT" starts with query[6:].
		revRight = "AGAGGTTCGT"
	)
	o := newTestOverlapper(t, query, right, left, revRight)
	hits := o.FindOverlaps(query, 4)

	h, ok := findHit(hits, o.IdentityInterval(right))
	assert.True(t, ok)
	expect.EQ(t, h.Overlap, 6)
	expect.EQ(t, h.Side, Right)
	expect.False(t, h.Reverse)
	expect.EQ(t, h.FullSequence(query), right)

	h, ok = findHit(hits, o.IdentityInterval(left))
	assert.True(t, ok)
	expect.EQ(t, h.Overlap, 6)
	expect.EQ(t, h.Side, Left)
	expect.EQ(t, h.FullSequence(query), left)

	h, ok = findHit(hits, o.IdentityInterval(revRight))
	assert.True(t, ok)
	expect.True(t, h.Reverse)
	expect.EQ(t, h.Overlap, 4)
	expect.EQ(t, h.FullSequence(query), reads.ReverseComplement(revRight))

	// The query itself is reported as a full-length hit.
	h, ok = findHit(hits, o.IdentityInterval(query))
	assert.True(t, ok)
	expect.EQ(t, h.Overlap, len(query))

	for i := 1; i < len(hits); i++ {
		expect.True(t, hits[i-1].Interval.Compare(hits[i].Interval) < 0)
	}
}

// bruteOverlap returns the longest exact suffix-prefix overlap between q and r
// on either strand, or 0.
func bruteOverlap(q, r string, minOverlap int) int {
	best := 0
	for _, s := range []string{q, reads.ReverseComplement(q)} {
		for ov := minOverlap; ov <= len(s) && ov <= len(r); ov++ {
			if s[len(s)-ov:] == r[:ov] || s[:ov] == r[len(r)-ov:] {
				if ov > best {
					best = ov
				}
			}
		}
	}
	return best
}

func TestFindOverlapsMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	const (
		genomeLen  = 300
		readLen    = 30
		nRead      = 60
		minOverlap = 8
	)
	genome := make([]byte, genomeLen)
	for i := range genome {
		genome[i] = "ACGT"[r.Intn(4)]
	}
	var seqs []string
	for i := 0; i < nRead; i++ {
		start := r.Intn(genomeLen - readLen)
		s := string(genome[start : start+readLen])
		if r.Intn(2) == 0 {
			s = reads.ReverseComplement(s)
		}
		seqs = append(seqs, s)
	}
	o := newTestOverlapper(t, seqs...)
	for _, q := range seqs[:10] {
		want := map[int64]int{}
		for _, s := range seqs {
			if ov := bruteOverlap(q, s, minOverlap); ov > 0 {
				want[o.IdentityInterval(s).Lower] = ov
			}
		}
		hits := o.FindOverlaps(q, minOverlap)
		expect.EQ(t, len(hits), len(want), "query %s", q)
		for _, h := range hits {
			expect.EQ(t, h.Overlap, want[h.Interval.Lower], "query %s hit %v", q, h)
			neighbor := o.Index().Read(o.Index().ReadIDs(h.Interval)[0])
			if h.Reverse {
				neighbor = reads.ReverseComplement(neighbor)
			}
			expect.EQ(t, h.FullSequence(q), neighbor, "query %s hit %v", q, h)
		}
	}
}

func TestLongestOccurringPrefix(t *testing.T) {
	o := newTestOverlapper(t, "ACGTACGTAA", "CCCC")
	for _, test := range []struct {
		s    string
		want int
	}{
		{"", 0},
		{"GGGG", 0},
		{"ACGTACGTAA", 10},
		{"ACGTACGTAATT", 10},
		{"CGTAGG", 4},
		{"CCCCC", 4},
	} {
		expect.EQ(t, o.longestOccurringPrefix(test.s), test.want, "s=%q", test.s)
	}
}

// TestFindOverlapsLongRead checks that overlaps are still found at every length
// when the query is much longer than the shortest overlap.
func TestFindOverlapsLongRead(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	genome := make([]byte, 700)
	for i := range genome {
		genome[i] = "ACGT"[r.Intn(4)]
	}
	query := string(genome[100:600])
	left := string(genome[:150])  // its suffix is query[:50]
	right := string(genome[590:]) // its prefix is query[490:]
	o := newTestOverlapper(t, query, left, right)
	hits := o.FindOverlaps(query, 5)
	h, ok := findHit(hits, o.IdentityInterval(left))
	assert.True(t, ok)
	expect.EQ(t, h.Overlap, 50)
	expect.EQ(t, h.Side, Left)
	h, ok = findHit(hits, o.IdentityInterval(right))
	assert.True(t, ok)
	expect.EQ(t, h.Overlap, 10)
	expect.EQ(t, h.Side, Right)
}
