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

package lexicon

import (
	"fmt"

	"github.com/themeadbrewer/williamson/atom"
)

// Builder assembles a Lexicon in memory: add fixed atoms, then
// templates referencing them, then Build. It performs none of the
// corpus-frequency analysis that the (out-of-scope) template-mining
// tool does — it is a plain constructor, the same role Builder plays
// for, e.g., a protobuf FileDescriptorProto built up field by field
// rather than parsed from source.
type Builder struct {
	version int32
	fixed   []atom.Atom
	byKey   map[string]uint32
	seqs    [][]atom.Atom
}

// NewBuilder starts a Builder for the given lexicon version.
func NewBuilder(version int32) *Builder {
	return &Builder{
		version: version,
		byKey:   make(map[string]uint32),
	}
}

// AddFixed declares a fixed (LIT, WS, or PUNC) atom and returns its id,
// assigning a new one the first time this exact kind+payload is seen.
func (b *Builder) AddFixed(k atom.Kind, payload []byte) (uint32, error) {
	if k.IsSlot() {
		return 0, fmt.Errorf("lexicon: AddFixed called with slot kind %s", k)
	}
	key := fmt.Sprintf("%d:%s", k, payload)
	if id, ok := b.byKey[key]; ok {
		return id, nil
	}
	id := uint32(len(b.fixed))
	b.fixed = append(b.fixed, atom.Atom{Kind: k, Payload: payload})
	b.byKey[key] = id
	return id, nil
}

// AddTemplate declares one template as a sequence of atoms: fixed atoms
// (by exact kind+payload, which must already have been added via
// AddFixed) or slot atoms (atom.VAR / atom.CAP / atom.NUM, with any
// payload — it is ignored). The new template's id is its insertion
// index.
func (b *Builder) AddTemplate(seq ...atom.Atom) (uint32, error) {
	if len(seq) == 0 {
		return 0, fmt.Errorf("lexicon: template must be non-empty")
	}
	if len(seq) > MaxTemplateLength {
		return 0, fmt.Errorf("lexicon: template length %d exceeds max %d", len(seq), MaxTemplateLength)
	}
	cp := make([]atom.Atom, len(seq))
	copy(cp, seq)
	tid := uint32(len(b.seqs))
	b.seqs = append(b.seqs, cp)
	return tid, nil
}

// Build validates and assembles the Lexicon. Slot-kind ids are appended
// immediately after the fixed-atom range.
func (b *Builder) Build() (*Lexicon, error) {
	varID := uint32(len(b.fixed))
	capID := varID + 1
	numID := varID + 2

	in, err := NewInterner(b.fixed, varID, capID, numID)
	if err != nil {
		return nil, err
	}

	sequences := make([][]uint32, len(b.seqs))
	for tid, seq := range b.seqs {
		ids := make([]uint32, len(seq))
		for i, a := range seq {
			if a.Kind.IsSlot() {
				ids[i] = in.KindID(a.Kind)
				continue
			}
			id, ok := in.InternFixed(a.Kind, a.Payload)
			if !ok {
				return nil, fmt.Errorf("lexicon: template %d references undeclared fixed atom %s(%q)", tid, a.Kind, a.Payload)
			}
			ids[i] = id
		}
		sequences[tid] = ids
	}

	tmpl, err := NewTemplates(sequences, in)
	if err != nil {
		return nil, err
	}
	return New(b.version, in, tmpl), nil
}
