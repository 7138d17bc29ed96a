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
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/themeadbrewer/williamson/atom"
)

// textDocument is the JSON shape of the human-readable lexicon artifact
// (spec §6 "Text" form): version, str_to_id (atom textual form -> id),
// id_to_template (template-id string -> list of atom textual forms). The
// stopword set is implicit in the LIT entries of str_to_id.
type textDocument struct {
	Version      int32               `json:"version"`
	StrToID      map[string]uint32   `json:"str_to_id"`
	IDToTemplate map[string][]string `json:"id_to_template"`
}

// MarshalText renders l as the §6 text-form JSON document.
func (l *Lexicon) MarshalText() ([]byte, error) {
	doc := textDocument{
		Version:      l.Version,
		StrToID:      make(map[string]uint32),
		IDToTemplate: make(map[string][]string),
	}
	for id, a := range l.Interner.FixedAtoms() {
		doc.StrToID[formatAtomText(a.Kind, a.Payload)] = uint32(id)
	}
	doc.StrToID[formatAtomText(atom.VAR, nil)] = l.Interner.KindID(atom.VAR)
	doc.StrToID[formatAtomText(atom.CAP, nil)] = l.Interner.KindID(atom.CAP)
	doc.StrToID[formatAtomText(atom.NUM, nil)] = l.Interner.KindID(atom.NUM)

	for tid := 0; tid < l.Templates.Len(); tid++ {
		seq, _ := l.Templates.Sequence(uint32(tid))
		parts := make([]string, len(seq))
		for i, aid := range seq {
			k, _ := l.Interner.Kind(aid)
			payload, _ := l.Interner.Payload(aid)
			parts[i] = formatAtomText(k, payload)
		}
		doc.IDToTemplate[strconv.Itoa(tid)] = parts
	}
	return json.MarshalIndent(doc, "", "  ")
}

// LoadText parses the §6 text-form JSON document into a Lexicon.
func LoadText(data []byte) (*Lexicon, error) {
	var doc textDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	// Recover the ordered fixed-atom table and the three slot-kind ids
	// from the (id -> atom text) inverse of str_to_id.
	type idEntry struct {
		id      uint32
		text    string
		kind    atom.Kind
		payload []byte
		isSlot  bool
	}
	entries := make([]idEntry, 0, len(doc.StrToID))
	for text, id := range doc.StrToID {
		k, payload, isSlot, err := parseAtomText(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		entries = append(entries, idEntry{id: id, text: text, kind: k, payload: payload, isSlot: isSlot})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	var varID, capID, numID uint32
	var haveVar, haveCap, haveNum bool
	var fixed []atom.Atom
	nextFixedID := uint32(0)
	for _, e := range entries {
		if e.isSlot {
			switch e.kind {
			case atom.VAR:
				varID, haveVar = e.id, true
			case atom.CAP:
				capID, haveCap = e.id, true
			case atom.NUM:
				numID, haveNum = e.id, true
			}
			continue
		}
		if e.id != nextFixedID {
			return nil, fmt.Errorf("%w: fixed atom ids are not contiguous starting at 0 (got %d, expected %d)", ErrCorrupt, e.id, nextFixedID)
		}
		fixed = append(fixed, atom.Atom{Kind: e.kind, Payload: e.payload})
		nextFixedID++
	}
	if !haveVar || !haveCap || !haveNum {
		return nil, fmt.Errorf("%w: missing one or more of VAR/CAP/NUM slot-kind ids", ErrCorrupt)
	}

	in, err := NewInterner(fixed, varID, capID, numID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	tids := make([]int, 0, len(doc.IDToTemplate))
	byTid := make(map[int][]string, len(doc.IDToTemplate))
	for tidStr, parts := range doc.IDToTemplate {
		tid, err := strconv.Atoi(tidStr)
		if err != nil || tid < 0 {
			return nil, fmt.Errorf("%w: invalid template id %q", ErrCorrupt, tidStr)
		}
		tids = append(tids, tid)
		byTid[tid] = parts
	}
	sort.Ints(tids)
	sequences := make([][]uint32, len(tids))
	for i, tid := range tids {
		if tid != i {
			return nil, fmt.Errorf("%w: template ids are not a contiguous range starting at 0 (got %d, expected %d)", ErrCorrupt, tid, i)
		}
		parts := byTid[tid]
		seq := make([]uint32, len(parts))
		for j, part := range parts {
			k, payload, isSlot, err := parseAtomText(part)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			if isSlot {
				seq[j] = in.KindID(k)
				continue
			}
			id, ok := in.InternFixed(k, payload)
			if !ok {
				return nil, fmt.Errorf("%w: template %d references undeclared atom %s", ErrCorrupt, tid, part)
			}
			seq[j] = id
		}
		sequences[i] = seq
	}

	tmpl, err := NewTemplates(sequences, in)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	return New(doc.Version, in, tmpl), nil
}

// formatAtomText renders an atom's identity using the §6 atom textual
// form: VAR, CAP, NUM for slot kinds; LIT(<word>) with the raw word
// bytes; WS('c') and PUNC('c') with a Go-style quoted rune literal for a
// one-rune payload, or the Go-escaped run between single quotes (e.g.
// WS('\n\t')) for a longer one.
func formatAtomText(k atom.Kind, payload []byte) string {
	switch k {
	case atom.VAR, atom.CAP, atom.NUM:
		return k.String()
	case atom.LIT:
		return fmt.Sprintf("LIT(%s)", payload)
	case atom.WS, atom.PUNC:
		r := []rune(string(payload))
		var quoted string
		if len(r) == 1 {
			quoted = strconv.QuoteRune(r[0])
		} else {
			quoted = strconv.Quote(string(payload))
			quoted = "'" + quoted[1:len(quoted)-1] + "'"
		}
		return fmt.Sprintf("%s(%s)", k, quoted)
	default:
		return fmt.Sprintf("%s(%q)", k, payload)
	}
}

// parseAtomText inverts formatAtomText. isSlot is true for VAR/CAP/NUM,
// in which case payload is nil.
func parseAtomText(s string) (k atom.Kind, payload []byte, isSlot bool, err error) {
	switch s {
	case "VAR":
		return atom.VAR, nil, true, nil
	case "CAP":
		return atom.CAP, nil, true, nil
	case "NUM":
		return atom.NUM, nil, true, nil
	}
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return 0, nil, false, fmt.Errorf("lexicon: malformed atom textual form %q", s)
	}
	head := s[:open]
	body := s[open+1 : len(s)-1]
	switch head {
	case "LIT":
		return atom.LIT, []byte(body), false, nil
	case "WS":
		r, err := unquoteSingle(body)
		if err != nil {
			return 0, nil, false, err
		}
		return atom.WS, []byte(r), false, nil
	case "PUNC":
		r, err := unquoteSingle(body)
		if err != nil {
			return 0, nil, false, err
		}
		return atom.PUNC, []byte(r), false, nil
	default:
		return 0, nil, false, fmt.Errorf("lexicon: unknown atom kind %q", head)
	}
}

// unquoteSingle parses a Go-style single-quoted literal's exact byte
// payload, e.g. 'x', '\n', or a multi-rune run like '\n\t'.
func unquoteSingle(body string) (string, error) {
	if len(body) < 2 || body[0] != '\'' || body[len(body)-1] != '\'' {
		return "", fmt.Errorf("lexicon: malformed quoted atom payload %q", body)
	}
	rest := body[1 : len(body)-1]
	var out strings.Builder
	for rest != "" {
		r, _, tail, err := strconv.UnquoteChar(rest, '\'')
		if err != nil {
			return "", fmt.Errorf("lexicon: malformed quoted atom payload %q: %w", body, err)
		}
		out.WriteRune(r)
		rest = tail
	}
	return out.String(), nil
}
