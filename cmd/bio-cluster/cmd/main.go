// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/readcluster/cluster"
	"v.io/x/lib/cmdline"
)

// registerOpts binds the cluster options to flags, with opts' current values
// as defaults.
func registerOpts(fs *flag.FlagSet, opts *cluster.Opts) {
	fs.IntVar(&opts.MinOverlap, "min-overlap", opts.MinOverlap, "Minimum exact overlap, in bases, between two reads of a cluster.")
	fs.IntVar(&opts.MaxClusterSize, "max-size", opts.MaxClusterSize,
		`Maximum number of reads in a cluster. A cluster that grows past this
size is discarded entirely and its reads are left unclustered.`)
	fs.IntVar(&opts.MinClusterSize, "min-size", opts.MinClusterSize, "Clusters with fewer reads are not written.")
	fs.IntVar(&opts.Parallelism, "parallelism", opts.Parallelism, "Number of clusters built concurrently. Zero means the number of CPUs.")
}

func newCmdCluster() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "cluster",
		Short:    "Build clusters from every read",
		ArgsName: "readpath outpath",
		Long: `
Cluster loads the reads in readpath (FASTA or FASTQ, optionally compressed),
indexes them, and writes every cluster of overlapping reads to outpath.
The output is a recordio file if outpath ends in ".rio", and a TSV otherwise.

Every read must be unique and not contained in another read, on either
strand; use "bio-cluster rmdup" first, or pass -rmdup.`,
	}
	opts := cluster.DefaultOpts
	registerOpts(&cmd.Flags, &opts)
	rmdupFlag := cmd.Flags.Bool("rmdup", false, "Drop duplicate and contained reads before indexing.")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("cluster takes readpath outpath, but got %v", argv)
		}
		_, err := runCluster(vcontext.Background(), argv[0], argv[1], opts, *rmdupFlag)
		return err
	})
	return cmd
}

func newCmdExtend() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "extend",
		Short:    "Grow clusters from an earlier run",
		ArgsName: "readpath clusterpath outpath",
		Long: `
Extend uses the reads of every cluster in clusterpath as seeds, and writes
the clusters they grow into over the reads in readpath. Cluster reads that
are not in readpath are not written, but reads of readpath that overlap them
are. clusterpath and outpath are recordio files
if they end in ".rio", and TSV otherwise.`,
	}
	opts := cluster.DefaultOpts
	registerOpts(&cmd.Flags, &opts)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 3 {
			return fmt.Errorf("extend takes readpath clusterpath outpath, but got %v", argv)
		}
		_, err := runExtend(vcontext.Background(), argv[0], argv[1], argv[2], opts)
		return err
	})
	return cmd
}

func newCmdRmdup() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "rmdup",
		Short:    "Remove duplicate and contained reads",
		ArgsName: "readpath outpath",
		Long: `
Rmdup writes to outpath, as FASTA, the reads of readpath that are neither a
copy of an earlier read nor a substring of another read, on either strand.
The output is gzip compressed if outpath ends in ".gz".`,
	}
	parallelism := cmd.Flags.Int("parallelism", 0, "Number of concurrent containment checks. Zero means the number of CPUs.")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 2 {
			return fmt.Errorf("rmdup takes readpath outpath, but got %v", argv)
		}
		_, err := runRmdup(vcontext.Background(), argv[0], argv[1], *parallelism)
		return err
	})
	return cmd
}

// Run runs the bio-cluster command line and exits.
func Run() {
	shutdown := grail.Init()
	cmdline.HideGlobalFlagsExcept()
	env := cmdline.EnvFromOS()
	err := cmdline.ParseAndRun(&cmdline.Command{
		Name:     "bio-cluster",
		Short:    "Cluster reads by exact overlaps",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdCluster(),
			newCmdExtend(),
			newCmdRmdup(),
		},
	}, env, os.Args[1:])
	shutdown()
	os.Exit(cmdline.ExitCode(err, env.Stderr))
}
