// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fileenc

import (
	"io"
)

// Writer is an io.Writer that encrypts everything written to it and
// forwards the ciphertext to an underlying writer. It adds no framing:
// position n of the ciphertext stream corresponds to logical plaintext
// offset n, which is what lets the storage layer seek and append.
//
// Writer is not safe for concurrent use.
type Writer struct {
	enc *Encryptor
	w   io.Writer
}

// NewWriter returns a Writer that encrypts with enc and writes ciphertext
// to w. Writing starts at enc's current offset.
func NewWriter(w io.Writer, enc *Encryptor) *Writer {
	return &Writer{enc: enc, w: w}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if err := w.enc.Encrypt(w.w, p); err != nil {
		return 0, err
	}
	return len(p), nil
}
