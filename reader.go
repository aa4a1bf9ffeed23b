// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fileenc

import (
	"io"

	"github.com/grailbio/base/errors"
)

// Reader is an io.Reader that reads ciphertext from an underlying reader
// and decrypts it in place. Because the transform adds no framing, the
// decryptor's logical offset tracks the underlying stream position byte for
// byte, and Reader supports seeking whenever the underlying reader does.
//
// Reader is not safe for concurrent use.
type Reader struct {
	dec *Encryptor
	r   io.Reader
}

// NewReader returns a Reader that reads ciphertext from r and decrypts with
// dec. Reading starts at dec's current offset, which must correspond to r's
// current position.
func NewReader(r io.Reader, dec *Encryptor) *Reader {
	return &Reader{dec: dec, r: r}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.dec.Decrypt(p[:n], p[:n])
	}
	return n, err
}

// Seek implements io.Seeker by seeking the underlying reader and resetting
// the decryptor's offset to the new absolute position. If the underlying
// reader is not an io.Seeker, Seek returns a NotSupported error.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	s, ok := r.r.(io.Seeker)
	if !ok {
		return 0, errors.E(errors.NotSupported, "fileenc: underlying reader is not seekable")
	}
	pos, err := s.Seek(offset, whence)
	if err != nil {
		return pos, err
	}
	r.dec.SetOffset(pos)
	return pos, nil
}
