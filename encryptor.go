// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fileenc

import (
	"crypto/aes"
	"crypto/cipher"
	"io"

	"github.com/grailbio/base/errors"
)

// BlockSize is the cipher block size in bytes. One keystream block is
// generated per counter value.
const BlockSize = aes.BlockSize

// Encryptor encrypts and decrypts byte ranges of a logical stream. The byte
// at logical offset o is always XORed with keystream byte o%BlockSize of
// the block generated from counter iv+o/BlockSize, so ciphertext depends
// only on (key, iv, o) and never on how calls are chunked. That makes it
// possible to append to and seek within encrypted files without touching
// existing data: counter mode pads nothing and ciphers one byte as one
// byte.
//
// The encryptor keeps the current logical offset and advances it by the
// size of each call, so consecutive calls compose without the caller
// tracking position. It is not safe for concurrent use; callers that need
// concurrent access must use one Encryptor per position (sharing a key and
// base counter across instances is fine).
type Encryptor struct {
	alg   Algorithm
	block cipher.Block
	iv    Counter

	// The current position in the logical stream, from the very beginning
	// of the data.
	offset uint64
}

// NewEncryptor returns an Encryptor keyed with key, with iv as the counter
// value of logical offset 0. The key must be 16, 24 or 32 bytes long; its
// length selects the AES-128, AES-192 or AES-256 variant of counter mode.
// The key slice itself is not retained; the caller may zero it after
// construction.
func NewEncryptor(key []byte, iv Counter) (*Encryptor, error) {
	alg, err := AlgorithmForKey(key)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.E("fileenc: new cipher", err)
	}
	return &Encryptor{alg: alg, block: block, iv: iv}, nil
}

// Algorithm returns the cipher variant selected from the key length at
// construction.
func (e *Encryptor) Algorithm() Algorithm {
	return e.alg
}

// SetOffset sets the current position in the logical stream, counted from
// the very beginning of the data. It determines how subsequent data is
// encrypted or decrypted: the counter is advanced by the index of the block
// containing offset, and the first offset%BlockSize keystream bytes of that
// block are skipped. offset must be non-negative; it is not otherwise
// validated.
func (e *Encryptor) SetOffset(offset int64) {
	e.offset = uint64(offset)
}

// Offset returns the current position in the logical stream.
func (e *Encryptor) Offset() int64 {
	return int64(e.offset)
}

// keystream returns a generator aligned to the current offset: its first
// byte is keystream byte offset%BlockSize of the block derived from counter
// iv+offset/BlockSize. The generator carries across block boundaries on its
// own, including wraparound of the full 128-bit counter.
func (e *Encryptor) keystream() cipher.Stream {
	blockIV := e.iv.Add(e.offset / BlockSize).Bytes()
	stream := cipher.NewCTR(e.block, blockIV[:])
	if skip := e.offset % BlockSize; skip > 0 {
		var scratch [BlockSize]byte
		stream.XORKeyStream(scratch[:skip], scratch[:skip])
	}
	return stream
}

// Encrypt encrypts p at the current offset and writes exactly len(p) bytes
// of ciphertext to w. On success the offset moves past p, so successive
// calls encrypt consecutive ranges; a write failure is propagated without
// retry and leaves the offset unchanged, positioned at the failed range.
// Encrypting zero bytes is a no-op.
func (e *Encryptor) Encrypt(w io.Writer, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	buf := make([]byte, len(p))
	e.keystream().XORKeyStream(buf, p)
	if _, err := w.Write(buf); err != nil {
		return errors.E("fileenc: write ciphertext", err)
	}
	e.offset += uint64(len(p))
	return nil
}

// Decrypt decrypts src at the current offset into dst and moves the offset
// past src. Counter mode deciphers one byte to one byte, so exactly
// len(src) bytes of plaintext are written. dst and src may be the same
// slice; dst shorter than src is a caller contract violation and panics.
// Decrypting zero bytes is a no-op.
func (e *Encryptor) Decrypt(dst, src []byte) {
	if len(src) == 0 {
		return
	}
	e.keystream().XORKeyStream(dst[:len(src)], src)
	e.offset += uint64(len(src))
}
