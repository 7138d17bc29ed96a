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

	art "github.com/plar/go-adaptive-radix-tree"
)

// PrefixTrie supports the encoder's hot inner loop (spec §4.3): given the
// atom stream starting at some position, find the longest prefix that
// equals some stored template, and report its template id.
//
// It is a thin, read-only-after-build wrapper over an adaptive radix
// tree (github.com/plar/go-adaptive-radix-tree), the same structure
// linker.Result uses in the teacher repo to index descriptors by
// qualified name (linker/linker.go's `descriptors: art.New()`), here
// keyed by an atom-id path instead of a dotted symbol name.
type PrefixTrie struct {
	tree art.Tree
}

// atomKey encodes an atom-id sequence as a byte string such that the
// byte-lexicographic order of two keys agrees with the prefix order of
// the underlying atom-id sequences (each id is 4 bytes, big-endian).
func atomKey(ids []uint32) art.Key {
	buf := make([]byte, 4*len(ids))
	for i, id := range ids {
		binary.BigEndian.PutUint32(buf[4*i:], id)
	}
	return art.Key(buf)
}

// BuildPrefixTrie indexes every template in t by its atom-id sequence.
func BuildPrefixTrie(t *Templates) *PrefixTrie {
	tree := art.New()
	for tid := 0; tid < t.Len(); tid++ {
		seq, _ := t.Sequence(uint32(tid))
		tree.Insert(atomKey(seq), uint32(tid))
	}
	return &PrefixTrie{tree: tree}
}

// LongestMatch finds the longest prefix of atoms that is a stored
// template and returns its template id and length — the greedy
// longest-prefix match of spec §4.3. ok is false if no template
// matches any non-empty prefix of atoms.
//
// Lookup grows the candidate prefix one atom at a time and asks the
// trie for an exact match at each length, stopping at MaxTemplateLength
// or end of stream; this is bounded work per atom (spec §4.4's O(n*d)
// with d capped by the longest template), not a second linear scan.
func (p *PrefixTrie) LongestMatch(atoms []uint32) (tid uint32, length int, ok bool) {
	limit := len(atoms)
	if limit > MaxTemplateLength {
		limit = MaxTemplateLength
	}
	for l := 1; l <= limit; l++ {
		// Templates don't need to share prefixes with each other, so a
		// miss at length l says nothing about length l+1; every length
		// up to the cap is checked.
		v, found := p.tree.Search(atomKey(atoms[:l]))
		if !found {
			continue
		}
		tid = v.(uint32)
		length = l
		ok = true
	}
	return tid, length, ok
}

// Size returns the number of templates indexed.
func (p *PrefixTrie) Size() int {
	return p.tree.Size()
}
