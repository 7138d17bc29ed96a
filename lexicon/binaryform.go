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
	"encoding/binary"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/themeadbrewer/williamson/atom"
)

// BinaryMagic identifies the binary lexicon artifact (spec §6, §9: "an
// implementation-chosen serialization... must be producible from the
// text form by a deterministic conversion such that two runs on the
// same text form produce byte-identical binaries"). It is deliberately
// distinct from the canonical container's magic (spec §6): the two
// formats are never interchangeable.
const BinaryMagic uint32 = 0x4C455821 // "LEX!"

const (
	fieldFixedAtom = protowire.Number(1)
	fieldVarID     = protowire.Number(2)
	fieldCapID     = protowire.Number(3)
	fieldNumID     = protowire.Number(4)
	fieldTemplate  = protowire.Number(5)

	subfieldAtomKind    = protowire.Number(1)
	subfieldAtomPayload = protowire.Number(2)
	subfieldTemplateAID = protowire.Number(1)
)

// MarshalBinary renders l as the binary lexicon artifact. The encoding
// is deterministic: fields are emitted by iterating the Interner's and
// Templates' ordered, slice-backed tables directly, never a map, so the
// same Lexicon state always serializes to the same bytes.
func (l *Lexicon) MarshalBinary() ([]byte, error) {
	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], BinaryMagic)
	binary.LittleEndian.PutUint32(header[4:8], uint32(l.Version))

	var body []byte
	for _, a := range l.Interner.FixedAtoms() {
		sub := appendVarintField(nil, subfieldAtomKind, uint64(a.Kind))
		sub = appendBytesField(sub, subfieldAtomPayload, a.Payload)
		body = appendBytesField(body, fieldFixedAtom, sub)
	}
	body = appendVarintField(body, fieldVarID, uint64(l.Interner.KindID(atom.VAR)))
	body = appendVarintField(body, fieldCapID, uint64(l.Interner.KindID(atom.CAP)))
	body = appendVarintField(body, fieldNumID, uint64(l.Interner.KindID(atom.NUM)))

	for tid := 0; tid < l.Templates.Len(); tid++ {
		seq, _ := l.Templates.Sequence(uint32(tid))
		var sub []byte
		for _, aid := range seq {
			sub = appendVarintField(sub, subfieldTemplateAID, uint64(aid))
		}
		body = appendBytesField(body, fieldTemplate, sub)
	}

	return append(header, body...), nil
}

// LoadBinary parses the binary lexicon artifact produced by MarshalBinary.
func LoadBinary(data []byte) (*Lexicon, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: binary lexicon truncated before header", ErrCorrupt)
	}
	magic := binary.LittleEndian.Uint32(data[0:4])
	if magic != BinaryMagic {
		return nil, fmt.Errorf("%w: bad magic %#x", ErrCorrupt, magic)
	}
	version := int32(binary.LittleEndian.Uint32(data[4:8]))

	var fixed []atom.Atom
	var templateSeqs [][]uint32
	var varID, capID, numID uint32
	var haveVar, haveCap, haveNum bool

	b := data[8:]
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: malformed field tag: %v", ErrCorrupt, protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case fieldFixedAtom:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: malformed fixed atom entry", ErrCorrupt)
			}
			b = b[m:]
			a, err := parseFixedAtomField(raw)
			if err != nil {
				return nil, err
			}
			fixed = append(fixed, a)
		case fieldVarID:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: malformed var-id field", ErrCorrupt)
			}
			b = b[m:]
			varID, haveVar = uint32(v), true
		case fieldCapID:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: malformed cap-id field", ErrCorrupt)
			}
			b = b[m:]
			capID, haveCap = uint32(v), true
		case fieldNumID:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: malformed num-id field", ErrCorrupt)
			}
			b = b[m:]
			numID, haveNum = uint32(v), true
		case fieldTemplate:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: malformed template entry", ErrCorrupt)
			}
			b = b[m:]
			seq, err := parseTemplateField(raw)
			if err != nil {
				return nil, err
			}
			templateSeqs = append(templateSeqs, seq)
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return nil, fmt.Errorf("%w: malformed unknown field %d", ErrCorrupt, num)
			}
			b = b[m:]
		}
	}
	if !haveVar || !haveCap || !haveNum {
		return nil, fmt.Errorf("%w: binary lexicon missing one or more of var/cap/num ids", ErrCorrupt)
	}

	in, err := NewInterner(fixed, varID, capID, numID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	tmpl, err := NewTemplates(templateSeqs, in)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return New(version, in, tmpl), nil
}

func parseFixedAtomField(b []byte) (atom.Atom, error) {
	var k atom.Kind
	var payload []byte
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return atom.Atom{}, fmt.Errorf("%w: malformed atom subfield tag", ErrCorrupt)
		}
		b = b[n:]
		switch num {
		case subfieldAtomKind:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return atom.Atom{}, fmt.Errorf("%w: malformed atom kind", ErrCorrupt)
			}
			b = b[m:]
			k = atom.Kind(v)
		case subfieldAtomPayload:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return atom.Atom{}, fmt.Errorf("%w: malformed atom payload", ErrCorrupt)
			}
			b = b[m:]
			payload = append([]byte(nil), v...)
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return atom.Atom{}, fmt.Errorf("%w: malformed atom subfield", ErrCorrupt)
			}
			b = b[m:]
		}
	}
	return atom.Atom{Kind: k, Payload: payload}, nil
}

func parseTemplateField(b []byte) ([]uint32, error) {
	var seq []uint32
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: malformed template subfield tag", ErrCorrupt)
		}
		b = b[n:]
		switch num {
		case subfieldTemplateAID:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return nil, fmt.Errorf("%w: malformed template atom id", ErrCorrupt)
			}
			b = b[m:]
			seq = append(seq, uint32(v))
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return nil, fmt.Errorf("%w: malformed template subfield", ErrCorrupt)
			}
			b = b[m:]
		}
	}
	return seq, nil
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}
