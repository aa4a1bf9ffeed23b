// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fileenc

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Algorithm identifies the cipher variant used by an Encryptor. The variant
// is selected once, from the key length, at construction, so the hot
// encrypt/decrypt path never branches on key length.
type Algorithm int

const (
	// AES128CTR is AES with a 128-bit key in counter mode.
	AES128CTR Algorithm = iota
	// AES192CTR is AES with a 192-bit key in counter mode.
	AES192CTR
	// AES256CTR is AES with a 256-bit key in counter mode.
	AES256CTR
)

// String returns the conventional name of the algorithm a.
func (a Algorithm) String() string {
	switch a {
	case AES128CTR:
		return "aes-128-ctr"
	case AES192CTR:
		return "aes-192-ctr"
	case AES256CTR:
		return "aes-256-ctr"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// KeySize returns the key size of the algorithm a in bytes.
func (a Algorithm) KeySize() int {
	switch a {
	case AES128CTR:
		return 16
	case AES192CTR:
		return 24
	case AES256CTR:
		return 32
	}
	return 0
}

// IsKeyLengthSupported reports whether a key of n bytes selects a supported
// cipher variant, i.e. whether n is 16, 24 or 32 (a 128, 192 or 256 bit
// key).
func IsKeyLengthSupported(n int) bool {
	return n == 16 || n == 24 || n == 32
}

// AlgorithmForKey returns the cipher variant selected by the length of key.
// A key of any other length than 16, 24 or 32 bytes is a NotSupported
// error.
func AlgorithmForKey(key []byte) (Algorithm, error) {
	switch len(key) {
	case 16:
		return AES128CTR, nil
	case 24:
		return AES192CTR, nil
	case 32:
		return AES256CTR, nil
	}
	return 0, errors.E(errors.NotSupported,
		fmt.Sprintf("fileenc: unsupported key length %d: must be 16, 24 or 32 bytes", len(key)))
}
