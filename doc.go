// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package fileenc provides transparent, random-access encryption of byte
// streams stored on disk, for storage layers that must append to and seek
// within already-encrypted files without re-encrypting existing data.
//
// The package is a pure confidentiality transform built on AES in counter
// mode: a 128-bit big-endian Counter addresses keystream blocks, and an
// Encryptor turns an arbitrary byte range at an arbitrary logical offset
// into ciphertext or plaintext. Counter mode was chosen because it has no
// padding (encrypted files can be appended to without deciphering) and
// ciphers one byte as one byte (encrypted files support random access).
//
// The package does not choose or manage keys, does not persist metadata and
// provides no authentication or integrity checking. Deciding where keys and
// counters are stored relative to the ciphertext is left to the surrounding
// file format.
package fileenc
