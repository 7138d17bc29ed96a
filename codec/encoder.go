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
	"github.com/themeadbrewer/williamson/atom"
	"github.com/themeadbrewer/williamson/lexicon"
)

// Encoder converts an atom sequence into a Message by the greedy
// longest-prefix-match policy of spec §4.4. It never backtracks, never
// looks beyond the trie's max template depth, and is infallible: a
// lexicon missing a fixed atom the input needs is absorbed by the
// Encoder's Extensions rather than raising an error.
type Encoder struct {
	lex *lexicon.Lexicon
	ext *Extensions
}

// NewEncoder builds an Encoder against lex. ext is this job's extension
// table; pass nil to get a fresh, private one. Pass the same *Extensions
// to both an Encoder and a Decoder to be able to round-trip input that
// exercises the extension region (spec §8's in-memory round-trip
// property); see the Extensions doc comment for the cross-process
// caveat.
func NewEncoder(lex *lexicon.Lexicon, ext *Extensions) *Encoder {
	if ext == nil {
		ext = NewExtensions(lex.Interner.Size())
	}
	return &Encoder{lex: lex, ext: ext}
}

// Extensions returns this encoder's job-local extension table, so a
// caller can hand it to a Decoder for a same-job round trip.
func (e *Encoder) Extensions() *Extensions {
	return e.ext
}

// Encode runs the greedy matching loop of spec §4.4 over atoms.
func (e *Encoder) Encode(atoms []atom.Atom) Message {
	var msg Message
	p := 0
	n := len(atoms)
	t := uint32(e.lex.Templates.Len())

	for p < n {
		limit := len(atoms) - p
		if limit > lexicon.MaxTemplateLength {
			limit = lexicon.MaxTemplateLength
		}
		ids := e.idWindow(atoms, p, limit)

		if len(ids) > 0 {
			if tid, length, ok := e.lex.Trie.LongestMatch(ids); ok {
				msg.Tokens = append(msg.Tokens, tid)
				for i := 0; i < length; i++ {
					if atoms[p+i].Kind.IsSlot() {
						msg.Slots = append(msg.Slots, atoms[p+i].Text())
					}
				}
				p += length
				continue
			}
		}

		// Literal fallback: one atom, one token.
		a := atoms[p]
		id := e.internID(a)
		msg.Tokens = append(msg.Tokens, t+id)
		if a.Kind.IsSlot() {
			msg.Slots = append(msg.Slots, a.Text())
		}
		p++
	}
	return msg
}

// idWindow resolves the interner/extension id for each atom starting at
// p, up to limit atoms, stopping early at the first atom that cannot be
// interned as a fixed atom (such an atom can never be part of a
// template match, since templates are built only from ids present in
// the lexicon at load time — so there is nothing more a longer window
// could match).
func (e *Encoder) idWindow(atoms []atom.Atom, p, limit int) []uint32 {
	ids := make([]uint32, 0, limit)
	for i := 0; i < limit; i++ {
		a := atoms[p+i]
		if a.Kind.IsSlot() {
			ids = append(ids, e.lex.Interner.KindID(a.Kind))
			continue
		}
		id, ok := e.lex.Interner.InternFixed(a.Kind, a.Payload)
		if !ok {
			break
		}
		ids = append(ids, id)
	}
	return ids
}

// internID resolves a is fixed or slot interner id, falling back to the
// job-local extension region for a fixed atom the lexicon never
// declared.
func (e *Encoder) internID(a atom.Atom) uint32 {
	if a.Kind.IsSlot() {
		return e.lex.Interner.KindID(a.Kind)
	}
	if id, ok := e.lex.Interner.InternFixed(a.Kind, a.Payload); ok {
		return id
	}
	// Cannot fail (spec §4.4 "Errors"): Extensions.Intern only errors for
	// slot kinds, which are handled above.
	id, _ := e.ext.Intern(a.Kind, a.Payload)
	return id
}
