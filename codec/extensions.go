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
	"fmt"

	"github.com/themeadbrewer/williamson/atom"
)

// Extensions is the per-process, job-local "extension region" of spec
// §4.2/§5: ids beyond a lexicon's own interner range, assigned the
// first time the encoder meets a fixed atom (typically rare
// non-ASCII punctuation, or a whitespace run) the loaded lexicon never
// declared. It is deliberately its own type rather than a mutable part
// of lexicon.Interner: the Interner is shared, read-only, and safe for
// any number of concurrent jobs (spec §5); this table is not — it is
// owned by exactly one job, grows only for that job, and is never
// merged back into the shared lexicon.
//
// An Encoder and Decoder pair that share one Extensions instance can
// round-trip any input even when the lexicon is missing fixed atoms
// (the in-memory codec round-trip property of spec §8's first bullet).
// A message written by one job's Extensions and later decoded by a
// fresh Decoder with a new, empty Extensions will fail with
// ErrUnknownToken for any token that fell into the extension region —
// this is the cost of "job-local, never written into a shared lexicon"
// (spec §5), not a bug.
type Extensions struct {
	base  uint32
	byID  []atom.Atom
	byKey map[string]uint32
}

// NewExtensions starts an empty extension table whose first assigned id
// is base — callers pass lexicon.Interner.Size() for base so extension
// ids sit immediately past the lexicon's own id range.
func NewExtensions(base uint32) *Extensions {
	return &Extensions{base: base, byKey: make(map[string]uint32)}
}

// Intern finds or assigns an id for a fixed atom not present in the
// shared lexicon. Only fixed (non-slot) kinds are valid here — slot
// atoms always use the lexicon's three reserved kind ids instead.
func (e *Extensions) Intern(k atom.Kind, payload []byte) (uint32, error) {
	if k.IsSlot() {
		return 0, fmt.Errorf("codec: extension region cannot hold slot kind %s", k)
	}
	key := fmt.Sprintf("%d:%s", k, payload)
	if id, ok := e.byKey[key]; ok {
		return id, nil
	}
	id := e.base + uint32(len(e.byID))
	e.byID = append(e.byID, atom.Atom{Kind: k, Payload: append([]byte(nil), payload...)})
	e.byKey[key] = id
	return id, nil
}

// Lookup resolves an id previously assigned by Intern. ok is false for
// any id outside this table's range, including ids below base.
func (e *Extensions) Lookup(id uint32) (atom.Atom, bool) {
	if id < e.base || int(id-e.base) >= len(e.byID) {
		return atom.Atom{}, false
	}
	return e.byID[id-e.base], true
}

// Len returns how many atoms have been interned into the extension
// region so far, i.e. how far past base this job's id space currently
// reaches.
func (e *Extensions) Len() uint32 {
	return uint32(len(e.byID))
}
