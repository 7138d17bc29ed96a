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

// Package williamson is a lossless, structure-aware text codec: it
// atomizes a byte stream, matches the longest known template against
// the atom sequence, and encodes the rest as literal fallback atoms,
// producing a (token ids, slot strings) message that decodes back to
// the original bytes exactly.
//
// The package-level EncodeBytes/DecodeBytes pair is the single entry
// point most callers need, the way protocompile.Compiler.Compile is
// the one call most callers of that module ever make; the atom,
// lexicon, codec, container, and batch packages underneath are free-
// standing and usable directly for anything more specialized (custom
// I/O, bounded-parallelism batches, building a lexicon from scratch).
package williamson

import (
	"io"

	"github.com/themeadbrewer/williamson/codec"
	"github.com/themeadbrewer/williamson/container"
	"github.com/themeadbrewer/williamson/lexicon"
)

// EncodeBytes atomizes src against lex, encodes it, and writes the
// canonical container form to sink. It is infallible except for errors
// from sink itself (spec §4.4: the encoder is infallible on any atom
// stream).
func EncodeBytes(lex *lexicon.Lexicon, src []byte, sink io.Writer) error {
	atoms := lex.NewAtomizer().Atomize(src)
	enc := codec.NewEncoder(lex, nil)
	msg := enc.Encode(atoms)
	return container.Write(msg.Tokens, msg.Slots, sink)
}

// DecodeBytes reads a canonical container from source and inverts it
// against lex, returning the original bytes. Any container or decoder
// error (bad magic/version, truncation, an unknown token or slot
// mismatch) is returned verbatim and the partial output is discarded,
// per spec §7's "never partially emitted" policy.
func DecodeBytes(lex *lexicon.Lexicon, source io.Reader) ([]byte, error) {
	tokens, slots, err := container.Read(source)
	if err != nil {
		return nil, err
	}
	dec := codec.NewDecoder(lex, nil)
	return dec.Decode(codec.Message{Tokens: tokens, Slots: slots})
}
