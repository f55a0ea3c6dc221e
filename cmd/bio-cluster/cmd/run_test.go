package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/readcluster/cluster"
	"github.com/grailbio/readcluster/clusterio"
	"github.com/grailbio/readcluster/reads"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func randomSeq(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = "ACGT"[r.Intn(4)]
	}
	return string(b)
}

// testReads returns reads of length 40 tiling two random genomes every 8
// bases, named "aNN" and "bNN", plus a contained read "sub" first and an
// exact reverse-complement duplicate "dup" last.
func testReads() []reads.Read {
	r := rand.New(rand.NewSource(5))
	all := []reads.Read{{Name: "sub"}}
	for _, g := range []struct {
		prefix string
		len    int
	}{{"a", 120}, {"b", 96}} {
		seq := randomSeq(r, g.len)
		for i := 0; i+40 <= len(seq); i += 8 {
			all = append(all, reads.Read{Name: fmt.Sprintf("%s%02d", g.prefix, i/8), Seq: seq[i : i+40]})
		}
	}
	// Shorter than MinOverlap, so no cluster absorbs it before it is seeded.
	all[0].Seq = all[2].Seq[3:18]
	return append(all, reads.Read{Name: "dup", Seq: reads.ReverseComplement(all[3].Seq)})
}

// clusterNames returns the sorted read names of each cluster.
func clusterNames(clusters []clusterio.Cluster) [][]string {
	var out [][]string
	for _, c := range clusters {
		var names []string
		for _, row := range c.Rows {
			names = append(names, row.Read)
		}
		sort.Strings(names)
		out = append(out, names)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

var (
	wantA = []string{"a00", "a01", "a02", "a03", "a04", "a05", "a06", "a07", "a08", "a09", "a10"}
	wantB = []string{"b00", "b01", "b02", "b03", "b04", "b05", "b06", "b07"}
)

func testOpts() cluster.Opts {
	opts := cluster.DefaultOpts
	opts.MinOverlap = 20
	opts.Parallelism = 2
	return opts
}

func TestClusterCommands(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	readPath := filepath.Join(tmpDir, "reads.fa.gz")
	assert.NoError(t, reads.Save(ctx, readPath, testReads()))

	// The contained read cannot seed a cluster.
	_, err := runCluster(ctx, readPath, filepath.Join(tmpDir, "bad.tsv"), testOpts(), false)
	expect.True(t, errors.Is(errors.Precondition, err), "%v", err)

	uniqPath := filepath.Join(tmpDir, "uniq.fa")
	rstats, err := runRmdup(ctx, readPath, uniqPath, 2)
	assert.NoError(t, err)
	expect.EQ(t, rstats.Duplicates, 1)
	expect.EQ(t, rstats.Contained, 1)
	uniq, err := reads.Load(ctx, uniqPath)
	assert.NoError(t, err)
	expect.EQ(t, len(uniq), len(wantA)+len(wantB))

	tsvPath := filepath.Join(tmpDir, "clusters.tsv")
	stats, err := runCluster(ctx, uniqPath, tsvPath, testOpts(), false)
	assert.NoError(t, err)
	expect.EQ(t, stats.Clusters, 2)
	clusters, err := clusterio.ReadClusters(ctx, tsvPath)
	assert.NoError(t, err)
	expect.EQ(t, clusterNames(clusters), [][]string{wantA, wantB})

	// In-memory filtering gives the same clusters.
	filteredPath := filepath.Join(tmpDir, "filtered.rio")
	_, err = runCluster(ctx, readPath, filteredPath, testOpts(), true)
	assert.NoError(t, err)
	clusters, opts, err := clusterio.ReadRIO(ctx, filteredPath)
	assert.NoError(t, err)
	expect.EQ(t, clusterNames(clusters), [][]string{wantA, wantB})
	expect.EQ(t, opts, testOpts())

	extendedPath := filepath.Join(tmpDir, "extended.tsv.gz")
	stats, err = runExtend(ctx, uniqPath, filteredPath, extendedPath, testOpts())
	assert.NoError(t, err)
	expect.EQ(t, stats.Items, 2)
	clusters, err = clusterio.ReadClusters(ctx, extendedPath)
	assert.NoError(t, err)
	expect.EQ(t, clusterNames(clusters), [][]string{wantA, wantB})
}

func TestInvalidOpts(t *testing.T) {
	opts := testOpts()
	opts.MinClusterSize = opts.MaxClusterSize + 1
	_, err := runCluster(vcontext.Background(), "/nonexistent", "/nonexistent", opts, false)
	expect.True(t, errors.Is(errors.Invalid, err), "%v", err)
}

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}
