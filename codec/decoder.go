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

package codec

import (
	"github.com/themeadbrewer/williamson/lexicon"
	"github.com/themeadbrewer/williamson/reporter"
)

// Decoder inverts Encoder exactly (spec §4.5): single pass over the
// token stream, a slot cursor consumed left to right, emitting the
// original byte sequence.
type Decoder struct {
	lex *lexicon.Lexicon
	ext *Extensions
}

// NewDecoder builds a Decoder against lex. ext is the job-local
// extension table to consult for literal-fallback ids the lexicon
// itself doesn't cover; pass the Encoder's Extensions() to decode in
// the same job, or nil for a fresh, empty one (any such id will then
// surface as ErrUnknownToken, spec §7).
func NewDecoder(lex *lexicon.Lexicon, ext *Extensions) *Decoder {
	if ext == nil {
		ext = NewExtensions(lex.Interner.Size())
	}
	return &Decoder{lex: lex, ext: ext}
}

// Decode inverts msg back into the original byte stream. Every error
// kind is fatal to the message (spec §7 policy): a message that cannot
// be decoded losslessly is rejected outright, never partially emitted.
func (d *Decoder) Decode(msg Message) ([]byte, error) {
	t := uint32(d.lex.Templates.Len())
	var out []byte
	cursor := 0

	for i, tok := range msg.Tokens {
		if tok < t {
			seq, _ := d.lex.Templates.Sequence(tok)
			for _, aid := range seq {
				payload, err := d.payloadOrSlot(aid, msg.Slots, &cursor)
				if err != nil {
					return nil, reporter.Atf(uint64(i), "%w", err)
				}
				out = append(out, payload...)
			}
			continue
		}

		aid := tok - t
		if aid >= d.lex.Interner.Size()+d.ext.Len() {
			return nil, reporter.Atf(uint64(i), "%w: token %d", ErrUnknownToken, tok)
		}
		payload, err := d.payloadOrSlot(aid, msg.Slots, &cursor)
		if err != nil {
			return nil, reporter.Atf(uint64(i), "%w", err)
		}
		out = append(out, payload...)
	}

	if cursor != len(msg.Slots) {
		return nil, reporter.Atf(uint64(len(msg.Tokens)), "%w: consumed %d of %d slots", ErrSlotCountMismatch, cursor, len(msg.Slots))
	}
	return out, nil
}

// payloadOrSlot resolves one atom id to its output bytes, consuming a
// slot if the id names a slot kind.
func (d *Decoder) payloadOrSlot(id uint32, slots []string, cursor *int) ([]byte, error) {
	if d.lex.Interner.IsSlotID(id) {
		if *cursor >= len(slots) {
			return nil, ErrSlotUnderflow
		}
		s := slots[*cursor]
		*cursor++
		return []byte(s), nil
	}
	if payload, ok := d.lex.Interner.Payload(id); ok {
		return payload, nil
	}
	if a, ok := d.ext.Lookup(id); ok {
		return a.Payload, nil
	}
	return nil, ErrUnknownAtom
}
