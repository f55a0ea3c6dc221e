// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package reads

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const maxLineLength = 64 << 20

var (
	// ErrShort is returned when a truncated FASTQ record is encountered.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when the input is neither FASTA nor FASTQ.
	ErrInvalid = errors.New("invalid read file")

	errEOF = errors.New("eof")
)

// Format is the on-disk format of a read file.
type Format int

const (
	// Unknown means the format has not been determined yet.
	Unknown Format = iota
	// FASTA records start with '>' and may span multiple sequence lines.
	FASTA
	// FASTQ records are four lines starting with '@'.
	FASTQ
)

// Scanner reads FASTA or FASTQ records one at a time. The format is guessed
// from the first non-empty line. Scanners are not threadsafe.
//
// Read names are the text after the '>' or '@' marker, up to the first
// space. Quality strings are dropped. Sequences are normalized with
// Normalize.
type Scanner struct {
	b      *bufio.Scanner
	err    error
	format Format

	// pending is the FASTA header line read ahead of the current record.
	pending string
	nRead   int
}

// NewScanner creates a Scanner that reads from r.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, maxLineLength)
	return &Scanner{b: b}
}

// Format returns the detected format. It is Unknown until the first call to
// Scan.
func (s *Scanner) Format() Format { return s.format }

// Scan reads the next record into read. It returns false at EOF or on error;
// the caller should then check Err.
func (s *Scanner) Scan(read *Read) bool {
	if s.err != nil {
		return false
	}
	if s.format == Unknown {
		line, ok := s.nextNonEmpty()
		if !ok {
			return false
		}
		switch line[0] {
		case '>':
			s.format = FASTA
		case '@':
			s.format = FASTQ
		default:
			s.err = errors.Wrapf(ErrInvalid, "unexpected first line %q", line)
			return false
		}
		s.pending = line
	}
	var ok bool
	if s.format == FASTA {
		ok = s.scanFASTA(read)
	} else {
		ok = s.scanFASTQ(read)
	}
	if ok {
		s.nRead++
	}
	return ok
}

func (s *Scanner) scanFASTA(read *Read) bool {
	header := s.pending
	s.pending = ""
	if header == "" {
		var ok bool
		if header, ok = s.nextNonEmpty(); !ok {
			return false
		}
	}
	if header[0] != '>' {
		s.err = errors.Wrapf(ErrInvalid, "record %d: expect '>', found %q", s.nRead, header)
		return false
	}
	var seq strings.Builder
	for s.b.Scan() {
		line := s.b.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			s.pending = line
			break
		}
		seq.WriteString(line)
	}
	if err := s.b.Err(); err != nil {
		s.err = errors.Wrap(err, "couldn't read FASTA data")
		return false
	}
	read.Name = recordName(header)
	read.Seq = Normalize(seq.String())
	return true
}

func (s *Scanner) scanFASTQ(read *Read) bool {
	id := s.pending
	s.pending = ""
	if id == "" {
		var ok bool
		if id, ok = s.nextNonEmpty(); !ok {
			return false
		}
	}
	if id[0] != '@' {
		s.err = errors.Wrapf(ErrInvalid, "record %d: expect '@', found %q", s.nRead, id)
		return false
	}
	if !s.scan() {
		return false
	}
	seq := s.b.Text()
	if !s.scan() {
		return false
	}
	if unk := s.b.Bytes(); len(unk) == 0 || unk[0] != '+' {
		s.err = errors.Wrapf(ErrInvalid, "record %d: expect '+', found %q", s.nRead, unk)
		return false
	}
	if !s.scan() {
		return false
	}
	read.Name = recordName(id)
	read.Seq = Normalize(seq)
	return true
}

func (s *Scanner) nextNonEmpty() (string, bool) {
	for s.b.Scan() {
		if line := s.b.Text(); len(line) > 0 {
			return line, true
		}
	}
	if s.err = s.b.Err(); s.err == nil {
		s.err = errEOF
	}
	return "", false
}

func (s *Scanner) scan() bool {
	ok := s.b.Scan()
	if !ok {
		if s.err = s.b.Err(); s.err == nil {
			s.err = ErrShort
		}
	}
	return ok
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// recordName strips the marker byte and everything after the first space.
func recordName(header string) string {
	name := header[1:]
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	return name
}
