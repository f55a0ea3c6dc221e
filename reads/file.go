// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package reads

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// ReadAll scans every record in r.
func ReadAll(r io.Reader) ([]Read, error) {
	var (
		sc   = NewScanner(r)
		all  []Read
		read Read
	)
	for sc.Scan(&read) {
		all = append(all, read)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return all, nil
}

// Load reads all the records in the given FASTA or FASTQ file. The path may
// name any location supported by grailbio/base/file. Compressed files are
// decompressed transparently.
func Load(ctx context.Context, path string) (all []Read, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	if all, err = ReadAll(r); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	log.Printf("Loaded %d reads from %s", len(all), path)
	return all, nil
}

// WriteFASTA writes the reads in FASTA format, one sequence line per read.
func WriteFASTA(w io.Writer, all []Read) error {
	bw := bufio.NewWriter(w)
	for _, r := range all {
		bw.WriteByte('>')
		bw.WriteString(r.Name)
		bw.WriteByte('\n')
		bw.WriteString(r.Seq)
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes the reads as FASTA to path. A path ending in ".gz" is gzip
// compressed.
func Save(ctx context.Context, path string, all []Read) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if e := out.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	w := out.Writer(ctx)
	if !strings.HasSuffix(path, ".gz") {
		return WriteFASTA(w, all)
	}
	gz := gzip.NewWriter(w)
	if err = WriteFASTA(gz, all); err != nil {
		return err
	}
	return gz.Close()
}
