// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package fileenc_test

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/fileenc"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestCounterArithmetic(t *testing.T) {
	c := fileenc.NewCounter(0, math.MaxUint64)
	if got, want := c.Inc(), fileenc.NewCounter(1, 0); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := c.Add(3), fileenc.NewCounter(1, 2); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	c = fileenc.NewCounter(7, 100)
	step := c
	for i := 0; i < 5; i++ {
		step = step.Inc()
	}
	if got, want := step, c.Add(5); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	// The original value is unchanged: Counter has value semantics.
	if got, want := c, fileenc.NewCounter(7, 100); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCounterWraparound(t *testing.T) {
	max := fileenc.NewCounter(math.MaxUint64, math.MaxUint64)
	if got, want := max.Inc(), fileenc.NewCounter(0, 0); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := max.Add(11), fileenc.NewCounter(0, 10); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCounterBigEndian(t *testing.T) {
	b := fileenc.NewCounter(0, 1).Bytes()
	want := make([]byte, fileenc.CounterSize)
	want[fileenc.CounterSize-1] = 1
	assert.EQ(t, b[:], want)

	b = fileenc.NewCounter(1, 0).Bytes()
	want = make([]byte, fileenc.CounterSize)
	want[7] = 1
	assert.EQ(t, b[:], want)
}

func TestCounterBinaryRoundTrip(t *testing.T) {
	f := fuzz.NewWithSeed(1)
	for i := 0; i < 1000; i++ {
		var hi, lo uint64
		f.Fuzz(&hi)
		f.Fuzz(&lo)
		c := fileenc.NewCounter(hi, lo)
		data, err := c.MarshalBinary()
		assert.NoError(t, err)
		if got, want := len(data), fileenc.CounterSize; got != want {
			t.Fatalf("got %v, want %v", got, want)
		}
		var d fileenc.Counter
		assert.NoError(t, d.UnmarshalBinary(data))
		if d != c {
			t.Fatalf("round trip mismatch: got %v, want %v", d, c)
		}
	}
}

func TestCounterUnmarshalBinarySize(t *testing.T) {
	var c fileenc.Counter
	for _, n := range []int{0, 1, 15, 17, 32} {
		err := c.UnmarshalBinary(make([]byte, n))
		if err == nil {
			t.Fatalf("expected an error for %d bytes", n)
		}
		if !errors.Is(errors.Invalid, err) {
			t.Errorf("error for %d bytes should be Invalid: %v", n, err)
		}
		expect.HasSubstr(t, err, fmt.Sprintf("must be 16 bytes, not %d", n))
	}
}

func TestCounterReadWrite(t *testing.T) {
	c := fileenc.NewCounter(0xdeadbeef, 42)
	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	assert.NoError(t, err)
	if got, want := n, int64(fileenc.CounterSize); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	var d fileenc.Counter
	_, err = d.ReadFrom(&buf)
	assert.NoError(t, err)
	if d != c {
		t.Errorf("got %v, want %v", d, c)
	}
}

func TestCounterShortRead(t *testing.T) {
	var c fileenc.Counter
	for _, n := range []int{0, 1, 15} {
		_, err := c.ReadFrom(bytes.NewReader(make([]byte, n)))
		if err == nil {
			t.Fatalf("expected an error for a %d byte source", n)
		}
		if !errors.Is(errors.Invalid, err) {
			t.Errorf("error for %d bytes should be Invalid: %v", n, err)
		}
		expect.HasSubstr(t, err, "read counter")
	}
}

func TestCounterJSON(t *testing.T) {
	c := fileenc.NewCounter(0, 255)
	out, err := json.Marshal(c)
	assert.NoError(t, err)
	if got, want := string(out), `"000000000000000000000000000000ff"`; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	var d fileenc.Counter
	assert.NoError(t, json.Unmarshal(out, &d))
	if d != c {
		t.Errorf("got %v, want %v", d, c)
	}
	err = json.Unmarshal([]byte(`"zz"`), &d)
	expect.HasSubstr(t, err, "not valid hex")
	err = d.UnmarshalJSON([]byte(`12`))
	expect.HasSubstr(t, err, "not quoted")
}

func TestCounterString(t *testing.T) {
	if got, want := fileenc.NewCounter(0, 0x0102).String(), "00000000000000000000000000000102"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

type errorRand struct{}

func (errorRand) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("rand failure")
}

func TestRandomCounter(t *testing.T) {
	a, err := fileenc.RandomCounter()
	assert.NoError(t, err)
	b, err := fileenc.RandomCounter()
	assert.NoError(t, err)
	if a == b {
		t.Errorf("consecutive random counters are equal: %v", a)
	}
}

func TestRandomCounterErrors(t *testing.T) {
	defer fileenc.SetRandSource(rand.Reader)

	fileenc.SetRandSource(errorRand{})
	_, err := fileenc.RandomCounter()
	expect.HasSubstr(t, err, "failed to read 16 bytes of random data")
}
