// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command williamson is the CLI surface of spec §6: it is an external
// collaborator of the core codec, not part of it — encode-ids and
// decode-ids write and read the canonical container, and roundtrip
// verifies losslessness end to end.
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/themeadbrewer/williamson/codec"
	"github.com/themeadbrewer/williamson/container"
	"github.com/themeadbrewer/williamson/lexicon"
)

// Exit codes, spec §6.
const (
	exitSuccess = iota
	exitLosslessFailure
	exitMalformedInput
	exitLexiconError
	exitIOError
)

func main() {
	os.Exit(doMain(os.Args[1:], os.Stdout, os.Stderr))
}

// doMain is separated out for the purpose of unit testing.
func doMain(args []string, stdOut, stdErr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdErr)
		return exitMalformedInput
	}

	switch args[0] {
	case "encode-ids":
		return doEncode(args[1:], stdErr)
	case "decode-ids":
		return doDecode(args[1:], stdErr)
	case "roundtrip":
		return doRoundtrip(args[1:], stdErr)
	case "-h", "--help", "help":
		printUsage(stdOut)
		return exitSuccess
	default:
		fmt.Fprintf(stdErr, "williamson: unknown command %q\n", args[0])
		printUsage(stdErr)
		return exitMalformedInput
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: williamson <command> --lex PATH --in FILE [--out FILE]")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  encode-ids --lex PATH --in FILE --out FILE   write canonical container")
	fmt.Fprintln(w, "  decode-ids --lex PATH --in FILE --out FILE   write reconstructed bytes")
	fmt.Fprintln(w, "  roundtrip  --lex PATH --in FILE               verify decode(encode(FILE)) == FILE")
}

func doEncode(args []string, stdErr io.Writer) int {
	flags := flag.NewFlagSet("encode-ids", flag.ContinueOnError)
	flags.SetOutput(stdErr)
	lexPath := flags.String("lex", "", "path to a lexicon artifact (text or binary)")
	inPath := flags.String("in", "", "path to the input file")
	outPath := flags.String("out", "", "path to write the canonical container")
	if err := flags.Parse(args); err != nil {
		return exitMalformedInput
	}

	lex, err := loadLexicon(*lexPath)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return exitLexiconError
	}

	src, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return exitIOError
	}

	atoms := lex.NewAtomizer().Atomize(src)
	msg := codec.NewEncoder(lex, nil).Encode(atoms)

	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return exitIOError
	}
	defer out.Close()

	if err := container.Write(msg.Tokens, msg.Slots, out); err != nil {
		fmt.Fprintln(stdErr, err)
		return exitIOError
	}
	return exitSuccess
}

func doDecode(args []string, stdErr io.Writer) int {
	flags := flag.NewFlagSet("decode-ids", flag.ContinueOnError)
	flags.SetOutput(stdErr)
	lexPath := flags.String("lex", "", "path to a lexicon artifact (text or binary)")
	inPath := flags.String("in", "", "path to a canonical container")
	outPath := flags.String("out", "", "path to write the reconstructed bytes")
	if err := flags.Parse(args); err != nil {
		return exitMalformedInput
	}

	lex, err := loadLexicon(*lexPath)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return exitLexiconError
	}

	in, err := os.Open(*inPath)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return exitIOError
	}
	defer in.Close()

	tokens, slots, err := container.Read(in)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return exitMalformedInput
	}

	out, err := codec.NewDecoder(lex, nil).Decode(codec.Message{Tokens: tokens, Slots: slots})
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return exitMalformedInput
	}

	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		fmt.Fprintln(stdErr, err)
		return exitIOError
	}
	return exitSuccess
}

func doRoundtrip(args []string, stdErr io.Writer) int {
	flags := flag.NewFlagSet("roundtrip", flag.ContinueOnError)
	flags.SetOutput(stdErr)
	lexPath := flags.String("lex", "", "path to a lexicon artifact (text or binary)")
	inPath := flags.String("in", "", "path to the input file")
	if err := flags.Parse(args); err != nil {
		return exitMalformedInput
	}

	lex, err := loadLexicon(*lexPath)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return exitLexiconError
	}

	src, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return exitIOError
	}

	atoms := lex.NewAtomizer().Atomize(src)
	enc := codec.NewEncoder(lex, nil)
	msg := enc.Encode(atoms)

	var buf bytes.Buffer
	if err := container.Write(msg.Tokens, msg.Slots, &buf); err != nil {
		fmt.Fprintln(stdErr, err)
		return exitIOError
	}

	tokens, slots, err := container.Read(&buf)
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return exitMalformedInput
	}

	out, err := codec.NewDecoder(lex, enc.Extensions()).Decode(codec.Message{Tokens: tokens, Slots: slots})
	if err != nil {
		fmt.Fprintln(stdErr, err)
		return exitMalformedInput
	}

	if !bytes.Equal(out, src) {
		fmt.Fprintln(stdErr, "williamson: roundtrip mismatch")
		return exitLosslessFailure
	}
	return exitSuccess
}

func loadLexicon(path string) (*lexicon.Lexicon, error) {
	if path == "" {
		return nil, fmt.Errorf("williamson: missing --lex")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(raw) >= 4 && binary.LittleEndian.Uint32(raw[0:4]) == lexicon.BinaryMagic {
		return lexicon.LoadBinary(raw)
	}
	return lexicon.LoadText(raw)
}
