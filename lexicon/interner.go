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

// Package lexicon implements the lexicon file: the atom interner, the
// template table, and the prefix trie that indexes it, plus the text and
// binary artifact forms a lexicon is shipped and loaded as (spec §3, §4.2,
// §4.3, §6).
package lexicon

import (
	"fmt"

	"github.com/themeadbrewer/williamson/atom"
)

// entry is one interner slot: a fixed atom's kind and payload, or a slot
// kind marker (payload is nil/empty; no per-occurrence data is stored
// here, ever — it rides the slot stream, see package codec).
type entry struct {
	kind    atom.Kind
	payload []byte
}

func (e entry) key() string {
	return fmt.Sprintf("%d:%s", e.kind, e.payload)
}

// Interner is the bidirectional mapping between atoms and dense
// nonnegative integer ids described in spec §4.2. It is append-only at
// load time and immutable for the rest of its life: any number of
// encoders and decoders may hold a read-only reference to the same
// Interner without synchronization (spec §5).
type Interner struct {
	byID  []entry
	byKey map[string]uint32

	varID, capID, numID uint32
	hasSlotIDs           bool
}

// NewInterner builds an Interner from an ordered list of fixed-atom
// entries plus the three reserved slot-kind ids. The caller (the text or
// binary lexicon loader, or Builder) is responsible for assigning a
// contiguous, stable id to every atom; NewInterner does not reorder
// anything; the id of fixedAtoms[i] is i.
func NewInterner(fixedAtoms []atom.Atom, varID, capID, numID uint32) (*Interner, error) {
	in := &Interner{
		byID:       make([]entry, len(fixedAtoms)),
		byKey:      make(map[string]uint32, len(fixedAtoms)),
		varID:      varID,
		capID:      capID,
		numID:      numID,
		hasSlotIDs: true,
	}
	for i, a := range fixedAtoms {
		if a.Kind.IsSlot() {
			return nil, fmt.Errorf("lexicon: fixed atom table entry %d has slot kind %s", i, a.Kind)
		}
		e := entry{kind: a.Kind, payload: a.Payload}
		if _, dup := in.byKey[e.key()]; dup {
			return nil, fmt.Errorf("lexicon: duplicate fixed atom %s(%q)", a.Kind, a.Payload)
		}
		in.byID[i] = e
		in.byKey[e.key()] = uint32(i)
	}
	for _, id := range []uint32{varID, capID, numID} {
		if int(id) < len(fixedAtoms) {
			return nil, fmt.Errorf("lexicon: slot-kind id %d collides with fixed atom range [0,%d)", id, len(fixedAtoms))
		}
	}
	return in, nil
}

// Size returns A, the interner's id-space size: one past the highest id
// it holds, fixed-atom or slot-kind. Token ids in [T, T+A) address a
// single atom by this interner (spec §3 "Token id space").
func (in *Interner) Size() uint32 {
	size := uint32(len(in.byID))
	for _, id := range []uint32{in.varID, in.capID, in.numID} {
		if id >= size {
			size = id + 1
		}
	}
	return size
}

// InternFixed looks up the stable id for a fixed atom already present in
// the lexicon. It never mutates the Interner and never assigns a new id;
// a caller that needs the job-local extension-region behavior of spec
// §4.2 for an atom absent here uses codec.Extensions instead (see the
// codec.Extensions doc comment for why that lives outside the immutable
// Interner).
func (in *Interner) InternFixed(k atom.Kind, payload []byte) (id uint32, ok bool) {
	id, ok = in.byKey[entry{kind: k, payload: payload}.key()]
	return id, ok
}

// KindID returns the reserved interner id for one of the three slot
// kinds (VAR, CAP, NUM). It panics for any other kind: slot-kind ids are
// fixed at load time and exist only for those three kinds.
func (in *Interner) KindID(k atom.Kind) uint32 {
	switch k {
	case atom.VAR:
		return in.varID
	case atom.CAP:
		return in.capID
	case atom.NUM:
		return in.numID
	default:
		panic(fmt.Sprintf("lexicon: %s is not a slot kind", k))
	}
}

// Kind reports the atom.Kind for a valid interner id without requiring
// the caller to separately know whether it's a slot-kind id or a fixed
// entry.
func (in *Interner) Kind(id uint32) (atom.Kind, bool) {
	switch id {
	case in.varID:
		return atom.VAR, true
	case in.capID:
		return atom.CAP, true
	case in.numID:
		return atom.NUM, true
	}
	if int(id) < len(in.byID) {
		return in.byID[id].kind, true
	}
	return 0, false
}

// IsSlotID reports whether id names one of the three slot kinds.
func (in *Interner) IsSlotID(id uint32) bool {
	return id == in.varID || id == in.capID || id == in.numID
}

// Payload returns the fixed payload for a non-slot interner id. It
// returns ok=false for a slot-kind id (VAR/CAP/NUM carry no payload of
// their own) or an id outside the loaded range.
func (in *Interner) Payload(id uint32) (payload []byte, ok bool) {
	if in.IsSlotID(id) {
		return nil, false
	}
	if int(id) >= len(in.byID) {
		return nil, false
	}
	return in.byID[id].payload, true
}

// FixedAtoms returns the ordered fixed-atom table: entry i is the atom
// with id i. Used by the text and binary lexicon writers.
func (in *Interner) FixedAtoms() []atom.Atom {
	out := make([]atom.Atom, len(in.byID))
	for i, e := range in.byID {
		out[i] = atom.Atom{Kind: e.kind, Payload: e.payload}
	}
	return out
}

// Stopwords returns the exact bytes of every LIT entry, in id order —
// this is the lexicon-sourced stopword list the atomizer must use (spec
// §9 open question: the stopword set is never compiled into the core).
func (in *Interner) Stopwords() []string {
	var out []string
	for _, e := range in.byID {
		if e.kind == atom.LIT {
			out = append(out, string(e.payload))
		}
	}
	return out
}
