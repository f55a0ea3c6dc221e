package clusterio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/readcluster/cluster"
	"github.com/grailbio/readcluster/fmindex"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

var testNames = []string{"r0", "r1", "r2", "r3"}

func testClusters() []cluster.Cluster {
	member := func(read int, seq string, lower int64, reverse bool) cluster.Member {
		return cluster.Member{
			Read: read,
			Node: cluster.Node{Seq: seq, Interval: fmindex.Interval{Lower: lower, Upper: lower}, Reverse: reverse},
		}
	}
	return []cluster.Cluster{
		{ID: "cluster-0", Members: []cluster.Member{
			member(2, "ACGTT", 1, false),
			member(0, "GTTAC", 4, true),
		}},
		{ID: "cluster-1", Members: []cluster.Member{
			member(3, "TTTTT", 6, false),
			member(1, "TTTTG", 8, false),
			member(1, "TTTTG", 8, false),
		}},
	}
}

func checkClusters(t *testing.T, got []Cluster) {
	assert.EQ(t, len(got), 2)
	expect.EQ(t, got[0].ID, "cluster-0")
	expect.EQ(t, got[0].Rows, []Row{
		{Cluster: "cluster-0", Size: 2, Read: "r2", Seq: "ACGTT", Strand: "+", Lower: 1, Upper: 1},
		{Cluster: "cluster-0", Size: 2, Read: "r0", Seq: "GTTAC", Strand: "-", Lower: 4, Upper: 4},
	})
	expect.True(t, got[0].Rows[1].Reverse())
	expect.EQ(t, got[1].ID, "cluster-1")
	expect.EQ(t, got[1].Seqs(), []string{"TTTTT", "TTTTG", "TTTTG"})
}

func TestTSV(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	for _, name := range []string{"c.tsv", "c.tsv.gz"} {
		path := filepath.Join(tmpDir, name)
		w, err := CreateTSV(ctx, path, testNames)
		assert.NoError(t, err)
		for _, c := range testClusters() {
			assert.NoError(t, w.WriteCluster(c))
		}
		assert.NoError(t, w.Close(ctx))

		got, err := ReadClusters(ctx, path)
		assert.NoError(t, err)
		checkClusters(t, got)
	}
}

func TestReadTSV(t *testing.T) {
	const data = "CLUSTER\tSIZE\tREAD\tSEQ\tSTRAND\tLOWER\tUPPER\n" +
		"a\t1\tr0\tACGT\t+\t3\t3\n" +
		"b\t2\tr1\tCCGT\t+\t5\t6\n" +
		"b\t2\tr2\tCCGT\t+\t5\t6\n"
	got, err := ReadTSV(strings.NewReader(data))
	assert.NoError(t, err)
	assert.EQ(t, len(got), 2)
	expect.EQ(t, got[0].Seqs(), []string{"ACGT"})
	expect.EQ(t, got[1].Rows[1].Read, "r2")
	expect.EQ(t, got[1].Rows[1].Upper, int64(6))
}

func TestReadTSVErrors(t *testing.T) {
	for _, data := range []string{
		// Not contiguous.
		"CLUSTER\tSIZE\tREAD\tSEQ\tSTRAND\tLOWER\tUPPER\n" +
			"a\t1\tr0\tACGT\t+\t3\t3\n" +
			"b\t1\tr1\tCCGT\t+\t5\t5\n" +
			"a\t1\tr2\tGGGT\t+\t7\t7\n",
		// Bad number.
		"CLUSTER\tSIZE\tREAD\tSEQ\tSTRAND\tLOWER\tUPPER\n" +
			"a\tone\tr0\tACGT\t+\t3\t3\n",
	} {
		_, err := ReadTSV(bytes.NewReader([]byte(data)))
		expect.True(t, errors.Is(errors.Invalid, err), "%q: %v", data, err)
	}
}

func TestRIO(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	path := filepath.Join(tmpDir, "c.rio")
	opts := cluster.DefaultOpts
	opts.MinOverlap = 31
	w, err := CreateRIO(ctx, path, testNames, opts)
	assert.NoError(t, err)
	for _, c := range testClusters() {
		assert.NoError(t, w.WriteCluster(c))
	}
	assert.NoError(t, w.Close(ctx))

	got, gotOpts, err := ReadRIO(ctx, path)
	assert.NoError(t, err)
	checkClusters(t, got)
	expect.EQ(t, gotOpts, opts)
}

func TestRIONotClusterFile(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := vcontext.Background()
	path := filepath.Join(tmpDir, "c.tsv")
	w, err := CreateTSV(ctx, path, testNames)
	assert.NoError(t, err)
	assert.NoError(t, w.Close(ctx))
	_, _, err = ReadRIO(ctx, path)
	expect.NotNil(t, err)
}
