// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fileenc

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math/bits"

	"github.com/grailbio/base/errors"
)

// CounterSize is the size of a serialized Counter in bytes.
const CounterSize = 16

var randomSource io.Reader = rand.Reader

// SetRandSource sets the source of random numbers used by RandomCounter and
// is intended primarily for testing purposes.
func SetRandSource(rd io.Reader) {
	randomSource = rd
}

// Counter is a 128-bit block counter. Its external representation is always
// exactly 16 bytes in big endian order, because the CTR cipher mode treats
// the initialization vector as a big-endian counter. All arithmetic wraps
// modulo 2^128.
//
// Counter is a value type; operations return new values and never share
// state. The zero value is the counter 0.
type Counter struct {
	hi, lo uint64
}

// NewCounter returns the counter with value hi*2^64 + lo.
func NewCounter(hi, lo uint64) Counter {
	return Counter{hi: hi, lo: lo}
}

// RandomCounter returns a cryptographically random counter, used as the base
// counter of a fresh stream. A secure source is required here: predictable
// counters enable keystream reuse across files sharing a key.
func RandomCounter() (Counter, error) {
	var b [CounterSize]byte
	if _, err := io.ReadFull(randomSource, b[:]); err != nil {
		return Counter{}, errors.E(fmt.Sprintf("fileenc: failed to read %d bytes of random data", CounterSize), err)
	}
	var c Counter
	c.setBytes(b)
	return c, nil
}

// Words returns the counter value as two 64-bit words, most significant
// first.
func (c Counter) Words() (hi, lo uint64) {
	return c.hi, c.lo
}

// Add returns c + n modulo 2^128.
func (c Counter) Add(n uint64) Counter {
	lo, carry := bits.Add64(c.lo, n, 0)
	hi, _ := bits.Add64(c.hi, 0, carry)
	return Counter{hi: hi, lo: lo}
}

// Inc returns c + 1 modulo 2^128.
func (c Counter) Inc() Counter {
	return c.Add(1)
}

// Bytes returns the 16-byte big-endian encoding of the counter.
func (c Counter) Bytes() [CounterSize]byte {
	var b [CounterSize]byte
	binary.BigEndian.PutUint64(b[:8], c.hi)
	binary.BigEndian.PutUint64(b[8:], c.lo)
	return b
}

func (c *Counter) setBytes(b [CounterSize]byte) {
	c.hi = binary.BigEndian.Uint64(b[:8])
	c.lo = binary.BigEndian.Uint64(b[8:])
}

// String returns the hex encoding of the counter's big-endian form.
func (c Counter) String() string {
	b := c.Bytes()
	return hex.EncodeToString(b[:])
}

// MarshalBinary implements encoding.BinaryMarshaler. The encoding is the
// 16-byte big-endian form and never fails.
func (c Counter) MarshalBinary() ([]byte, error) {
	b := c.Bytes()
	return b[:], nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. data must be
// exactly 16 bytes.
func (c *Counter) UnmarshalBinary(data []byte) error {
	if len(data) != CounterSize {
		return errors.E(errors.Invalid,
			fmt.Sprintf("fileenc: counter encoding must be %d bytes, not %d", CounterSize, len(data)))
	}
	var b [CounterSize]byte
	copy(b[:], data)
	c.setBytes(b)
	return nil
}

// WriteTo implements io.WriterTo, writing the 16-byte big-endian encoding
// of the counter to w.
func (c Counter) WriteTo(w io.Writer) (int64, error) {
	b := c.Bytes()
	n, err := w.Write(b[:])
	if err != nil {
		err = errors.E("fileenc: write counter", err)
	}
	return int64(n), err
}

// ReadFrom implements io.ReaderFrom, consuming exactly 16 bytes from r.
// A short read is reported as an Invalid error.
func (c *Counter) ReadFrom(r io.Reader) (int64, error) {
	var b [CounterSize]byte
	n, err := io.ReadFull(r, b[:])
	if err != nil {
		return int64(n), errors.E(errors.Invalid,
			fmt.Sprintf("fileenc: read counter: got %d bytes of %d", n, CounterSize), err)
	}
	c.setBytes(b)
	return int64(n), nil
}

// MarshalJSON marshals a Counter as a hex encoded string.
func (c Counter) MarshalJSON() ([]byte, error) {
	b := c.Bytes()
	dst := make([]byte, hex.EncodedLen(len(b))+2)
	hex.Encode(dst[1:], b[:])
	// need to supply leading/trailing double quotes.
	dst[0], dst[len(dst)-1] = '"', '"'
	return dst, nil
}

// UnmarshalJSON unmarshals a hex encoded string into a Counter.
func (c *Counter) UnmarshalJSON(data []byte) error {
	// need to strip leading and trailing double quotes
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.E(errors.Invalid, "fileenc: counter is not quoted")
	}
	data = data[1 : len(data)-1]
	raw := make([]byte, hex.DecodedLen(len(data)))
	if _, err := hex.Decode(raw, data); err != nil {
		return errors.E(errors.Invalid, "fileenc: counter is not valid hex", err)
	}
	return c.UnmarshalBinary(raw)
}
