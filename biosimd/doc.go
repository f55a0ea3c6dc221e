// Copyright 2019 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package biosimd provides the byte-array kernels used on read sequences:
// reverse complement, case folding and validation of ASCII bases. The
// byte-reordering passes are delegated to github.com/grailbio/base/simd;
// per-byte remapping goes through 256-entry lookup tables.
package biosimd
