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

import "fmt"

// MaxTemplateLength bounds a template's atom-id sequence length (spec
// §3, "length bounded by an implementation constant, e.g. <= 30").
const MaxTemplateLength = 30

// Templates is the template table of spec §3: an ordered, contiguous set
// of non-empty atom-id sequences, each with a stable numeric template id
// equal to its index, and a derived arity (count of slot atoms).
type Templates struct {
	sequences [][]uint32
	arities   []int
}

// NewTemplates validates and wraps a template table. interner is used
// only to validate that every referenced atom-id is valid at load time
// (spec §3 invariant i); it is not retained.
func NewTemplates(sequences [][]uint32, interner *Interner) (*Templates, error) {
	t := &Templates{
		sequences: make([][]uint32, len(sequences)),
		arities:   make([]int, len(sequences)),
	}
	for tid, seq := range sequences {
		if len(seq) == 0 {
			return nil, fmt.Errorf("lexicon: template %d is empty", tid)
		}
		if len(seq) > MaxTemplateLength {
			return nil, fmt.Errorf("lexicon: template %d has length %d > %d", tid, len(seq), MaxTemplateLength)
		}
		arity := 0
		cp := make([]uint32, len(seq))
		for i, aid := range seq {
			if _, ok := interner.Kind(aid); !ok {
				return nil, fmt.Errorf("lexicon: template %d references unknown atom id %d", tid, aid)
			}
			if interner.IsSlotID(aid) {
				arity++
			}
			cp[i] = aid
		}
		t.sequences[tid] = cp
		t.arities[tid] = arity
	}
	return t, nil
}

// Len returns T, the number of templates. Template ids occupy [0, Len()).
func (t *Templates) Len() int {
	return len(t.sequences)
}

// Sequence returns the atom-id sequence for tid in O(1).
func (t *Templates) Sequence(tid uint32) ([]uint32, bool) {
	if int(tid) >= len(t.sequences) {
		return nil, false
	}
	return t.sequences[tid], true
}

// Arity returns the slot-atom count of tid.
func (t *Templates) Arity(tid uint32) (int, bool) {
	if int(tid) >= len(t.arities) {
		return 0, false
	}
	return t.arities[tid], true
}
