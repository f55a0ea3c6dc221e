// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package clusterio reads and writes cluster files. The text format is a TSV
// with one row per read:
//
//   CLUSTER  SIZE  READ  SEQ  STRAND  LOWER  UPPER
//
// CLUSTER is the cluster id, SIZE the number of reads in the cluster, READ
// the read name, SEQ the read sequence in the orientation it joined the
// cluster, STRAND "+" or "-" for that orientation, and LOWER/UPPER the
// identity interval of the read in the FM-index. Rows of one cluster are
// contiguous. Paths ending in ".gz" are gzip compressed.
package clusterio

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/readcluster/cluster"
	"github.com/klauspost/compress/gzip"
)

const header = "CLUSTER\tSIZE\tREAD\tSEQ\tSTRAND\tLOWER\tUPPER"

// Row is one line of a cluster file.
type Row struct {
	Cluster string `tsv:"CLUSTER"`
	Size    int64  `tsv:"SIZE"`
	Read    string `tsv:"READ"`
	Seq     string `tsv:"SEQ"`
	Strand  string `tsv:"STRAND"`
	Lower   int64  `tsv:"LOWER"`
	Upper   int64  `tsv:"UPPER"`
}

// Reverse reports whether the read joined the cluster reverse complemented.
func (r Row) Reverse() bool { return r.Strand == "-" }

func strand(reverse bool) string {
	if reverse {
		return "-"
	}
	return "+"
}

// toRows flattens c. names[i] is the name of read id i.
func toRows(c cluster.Cluster, names []string) []Row {
	rows := make([]Row, len(c.Members))
	for i, m := range c.Members {
		if m.Read < 0 || m.Read >= len(names) {
			log.Panicf("clusterio: read id %d out of range [0,%d)", m.Read, len(names))
		}
		rows[i] = Row{
			Cluster: c.ID,
			Size:    int64(len(c.Members)),
			Read:    names[m.Read],
			Seq:     m.Node.Seq,
			Strand:  strand(m.Node.Reverse),
			Lower:   m.Node.Interval.Lower,
			Upper:   m.Node.Interval.Upper,
		}
	}
	return rows
}

// TSVWriter writes clusters in the TSV format. It implements cluster.Writer.
type TSVWriter struct {
	out   file.File
	gz    *gzip.Writer
	w     *tsv.Writer
	names []string
}

// CreateTSV creates a cluster file at path. names[i] is the name written for
// read id i.
func CreateTSV(ctx context.Context, path string, names []string) (*TSVWriter, error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "clusterio: create", path)
	}
	tw := &TSVWriter{out: out, names: names}
	var w io.Writer = out.Writer(ctx)
	if strings.HasSuffix(path, ".gz") {
		tw.gz = gzip.NewWriter(w)
		w = tw.gz
	}
	tw.w = tsv.NewWriter(w)
	tw.w.WriteString(header)
	if err := tw.w.EndLine(); err != nil {
		out.Close(ctx) // nolint: errcheck
		return nil, err
	}
	return tw, nil
}

// WriteCluster appends the rows of one cluster.
func (tw *TSVWriter) WriteCluster(c cluster.Cluster) error {
	for _, row := range toRows(c, tw.names) {
		tw.w.WriteString(row.Cluster)
		tw.w.WriteInt64(row.Size)
		tw.w.WriteString(row.Read)
		tw.w.WriteString(row.Seq)
		tw.w.WriteString(row.Strand)
		tw.w.WriteInt64(row.Lower)
		tw.w.WriteInt64(row.Upper)
		if err := tw.w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes the rows and closes the file.
func (tw *TSVWriter) Close(ctx context.Context) error {
	e := errors.Once{}
	e.Set(tw.w.Flush())
	if tw.gz != nil {
		e.Set(tw.gz.Close())
	}
	e.Set(tw.out.Close(ctx))
	return e.Err()
}

// Cluster is a cluster read back from a file.
type Cluster struct {
	ID   string
	Rows []Row
}

// Seqs returns the sequences of the cluster's reads, in file order.
func (c Cluster) Seqs() []string {
	seqs := make([]string, len(c.Rows))
	for i, r := range c.Rows {
		seqs[i] = r.Seq
	}
	return seqs
}

// ReadTSV parses a cluster file from r. Rows with the same CLUSTER value
// must be contiguous.
func ReadTSV(r io.Reader) ([]Cluster, error) {
	tr := tsv.NewReader(r)
	tr.HasHeaderRow = true
	tr.UseHeaderNames = true
	var (
		clusters []Cluster
		seen     = map[string]bool{}
	)
	for {
		var row Row
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, err, "clusterio: parse")
		}
		if n := len(clusters); n > 0 && clusters[n-1].ID == row.Cluster {
			clusters[n-1].Rows = append(clusters[n-1].Rows, row)
			continue
		}
		if seen[row.Cluster] {
			return nil, errors.E(errors.Invalid, "clusterio: rows of cluster", row.Cluster, "are not contiguous")
		}
		seen[row.Cluster] = true
		clusters = append(clusters, Cluster{ID: row.Cluster, Rows: []Row{row}})
	}
	return clusters, nil
}

// ReadClusters loads the cluster file at path. Compressed files are
// decompressed transparently.
func ReadClusters(ctx context.Context, path string) (clusters []Cluster, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "clusterio: open", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	if clusters, err = ReadTSV(r); err != nil {
		return nil, errors.E(err, path)
	}
	log.Printf("clusterio: read %d clusters from %s", len(clusters), path)
	return clusters, nil
}
