// Copyright 2021 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Command fileenc encrypts or decrypts a byte stream with AES-CTR, reading
// stdin and writing stdout. It is an operational tool for inspecting and
// repairing encrypted storage files: given the file's key, base counter and
// the logical offset of the first input byte, it reproduces exactly the
// transform the storage layer applies. It stores neither keys nor counters.
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/must"
	"github.com/grailbio/fileenc"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage:
%s -key HEXKEY [flags...] < plaintext > ciphertext

Encrypts (or, with -d, decrypts) stdin to stdout. The counter and offset
must match the ones used to produce the data being decrypted.
`, os.Args[0])
		flag.PrintDefaults()
	}
	keyFlag := flag.String("key", "", "hex encoded key; must be 16, 24 or 32 bytes")
	ivFlag := flag.String("iv", "", "hex encoded 16-byte base counter; zero if empty")
	offsetFlag := flag.Int64("offset", 0, "logical stream offset of the first input byte")
	decryptFlag := flag.Bool("d", false, "decrypt instead of encrypt")
	log.AddFlags()
	flag.Parse()
	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(2)
	}

	key, err := hex.DecodeString(*keyFlag)
	must.Nil(err, "decoding -key")
	var iv fileenc.Counter
	if *ivFlag != "" {
		raw, err := hex.DecodeString(*ivFlag)
		must.Nil(err, "decoding -iv")
		must.Nil(iv.UnmarshalBinary(raw), "decoding -iv")
	}
	codec, err := fileenc.NewEncryptor(key, iv)
	if err != nil {
		log.Fatal(err)
	}
	codec.SetOffset(*offsetFlag)
	log.Debug.Printf("fileenc: %s, offset %d", codec.Algorithm(), *offsetFlag)

	in := bufio.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	buf := make([]byte, 64<<10)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if *decryptFlag {
				codec.Decrypt(buf[:n], buf[:n])
				_, werr := out.Write(buf[:n])
				must.Nil(werr, "writing stdout")
			} else {
				must.Nil(codec.Encrypt(out, buf[:n]), "writing stdout")
			}
		}
		if err == io.EOF {
			break
		}
		must.Nil(err, "reading stdin")
	}
	must.Nil(out.Flush(), "writing stdout")
}
