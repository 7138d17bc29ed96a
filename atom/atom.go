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

// Package atom implements the deterministic byte-stream to atom-sequence
// conversion that every other Williamson component depends on bit-exactly.
//
// An atom is a tagged value: six kinds, a payload, and (for LIT, WS, PUNC)
// a fixed identity determined entirely by that payload. NUM, CAP and VAR
// atoms carry a payload that varies per occurrence and travels in the slot
// stream once encoded; see package codec.
package atom

import "fmt"

// Kind identifies which of the six atom shapes a value is.
type Kind uint8

const (
	// LIT is one of a fixed closed stopword set. Payload is the exact
	// stopword bytes.
	LIT Kind = iota
	// WS is one contiguous whitespace run. Payload is the literal bytes.
	WS
	// PUNC is a single punctuation code point. Payload is its UTF-8 bytes.
	PUNC
	// NUM is a maximal run matching the number grammar. Slot kind.
	NUM
	// CAP is a word whose first code point has the Uppercase property.
	// Slot kind.
	CAP
	// VAR is any other word (lowercase, not a stopword). Slot kind.
	VAR
)

func (k Kind) String() string {
	switch k {
	case LIT:
		return "LIT"
	case WS:
		return "WS"
	case PUNC:
		return "PUNC"
	case NUM:
		return "NUM"
	case CAP:
		return "CAP"
	case VAR:
		return "VAR"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// IsSlot reports whether atoms of this kind carry a per-occurrence payload
// that rides the slot stream rather than being determined by the atom's
// lexicon identity.
func (k Kind) IsSlot() bool {
	switch k {
	case NUM, CAP, VAR:
		return true
	default:
		return false
	}
}

// Atom is one structural unit produced by Atomize. Payload is always the
// exact source bytes for that unit; concatenating the Payload of every
// Atom in the sequence returned by Atomize reproduces the original input
// (the atomizer contract, spec §4.1).
type Atom struct {
	Kind    Kind
	Payload []byte
}

// Text returns Payload as a string without copying semantics beyond what
// the Go runtime already does for a byte-slice-to-string conversion.
func (a Atom) Text() string {
	return string(a.Payload)
}

func (a Atom) String() string {
	if a.Kind.IsSlot() {
		return fmt.Sprintf("%s(%q)", a.Kind, a.Payload)
	}
	return fmt.Sprintf("%s(%q)", a.Kind, a.Payload)
}

// Detokenize concatenates the payload of every atom in order, reproducing
// the exact byte stream a conforming Atomize call consumed. This is the
// dual of the atomizer: Detokenize(Atomize(b)) == b for every b.
func Detokenize(atoms []Atom) []byte {
	n := 0
	for _, a := range atoms {
		n += len(a.Payload)
	}
	out := make([]byte, 0, n)
	for _, a := range atoms {
		out = append(out, a.Payload...)
	}
	return out
}
