// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package clusterio

// This file defines the binary cluster file: a zstd-compressed recordio file
// with one gob-encoded Cluster per record and the cluster.Opts of the run in
// the trailer.

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
	"github.com/grailbio/readcluster/cluster"
)

const (
	// <fileVersionHeader, fileVersion> is stored in the recordio header.
	fileVersionHeader = "clusterversion"
	fileVersion       = "CLUSTER_V1"
)

// fileTrailer is stored in the trailer section of the recordio file.
type fileTrailer struct {
	// Opts is the options used to build the clusters.
	Opts cluster.Opts
	// Clusters is the number of records.
	Clusters int
}

// RIOWriter writes clusters to a recordio file. It implements
// cluster.Writer.
type RIOWriter struct {
	out      file.File
	w        recordio.Writer
	names    []string
	opts     cluster.Opts
	clusters int
}

// CreateRIO creates a recordio cluster file at path. names[i] is the name
// recorded for read id i; opts is stored in the trailer.
func CreateRIO(ctx context.Context, path string, names []string, opts cluster.Opts) (*RIOWriter, error) {
	recordiozstd.Init()
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "clusterio: create", path)
	}
	w := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
		Transformers: []string{recordiozstd.Name},
	})
	w.AddHeader(fileVersionHeader, fileVersion)
	w.AddHeader(recordio.KeyTrailer, true)
	return &RIOWriter{out: out, w: w, names: names, opts: opts}, nil
}

// WriteCluster appends one cluster. Write errors are reported by Close.
func (rw *RIOWriter) WriteCluster(c cluster.Cluster) error {
	b := bytes.NewBuffer(nil)
	if err := gob.NewEncoder(b).Encode(Cluster{ID: c.ID, Rows: toRows(c, rw.names)}); err != nil {
		return errors.E(err, "clusterio: encode", c.ID)
	}
	rw.w.Append(b.Bytes())
	rw.clusters++
	return nil
}

// Close writes the trailer and closes the file. It must be called exactly
// once.
func (rw *RIOWriter) Close(ctx context.Context) error {
	b := bytes.NewBuffer(nil)
	e := errors.Once{}
	e.Set(gob.NewEncoder(b).Encode(fileTrailer{Opts: rw.opts, Clusters: rw.clusters}))
	rw.w.SetTrailer(b.Bytes())
	e.Set(rw.w.Finish())
	e.Set(rw.out.Close(ctx))
	return e.Err()
}

// ReadRIO loads every cluster of a file created by CreateRIO, along with the
// options it was built with.
func ReadRIO(ctx context.Context, path string) (clusters []Cluster, opts cluster.Opts, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, opts, errors.E(err, "clusterio: open", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	recordiozstd.Init()
	r := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	defer func() {
		if e := r.Finish(); e != nil && err == nil {
			err = e
		}
	}()
	versionFound := false
	for _, kv := range r.Header() {
		if kv.Key == fileVersionHeader {
			if v, _ := kv.Value.(string); v != fileVersion {
				return nil, opts, errors.E(errors.Invalid, fmt.Sprintf("clusterio: %s: file version %v, expect %s",
					path, kv.Value, fileVersion))
			}
			versionFound = true
			break
		}
	}
	if !versionFound {
		return nil, opts, errors.E(errors.Invalid, "clusterio:", path, "is not a cluster file:", fileVersionHeader, "not found")
	}
	for r.Scan() {
		var c Cluster
		if err := gob.NewDecoder(bytes.NewReader(r.Get().([]byte))).Decode(&c); err != nil {
			return nil, opts, errors.E(err, "clusterio: decode", path)
		}
		clusters = append(clusters, c)
	}
	if err := r.Err(); err != nil {
		return nil, opts, errors.E(err, "clusterio: read", path)
	}
	var t fileTrailer
	if err := gob.NewDecoder(bytes.NewReader(r.Trailer())).Decode(&t); err != nil {
		return nil, opts, errors.E(err, "clusterio: decode trailer", path)
	}
	if t.Clusters != len(clusters) {
		return nil, opts, errors.E(errors.Invalid, fmt.Sprintf("clusterio: %s: trailer lists %d clusters, found %d",
			path, t.Clusters, len(clusters)))
	}
	log.Printf("clusterio: read %d clusters from %s", len(clusters), path)
	return clusters, t.Opts, nil
}
