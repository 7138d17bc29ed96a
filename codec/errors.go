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

// Package codec implements the greedy linear-time encoder and its exact
// inverse decoder (spec §4.4, §4.5): the atom stream <-> (token, slot)
// stream conversion built on top of a *lexicon.Lexicon's prefix trie.
package codec

import "errors"

// Sentinel errors, spec §7. Every decode failure is fatal to the
// message; none of them are recovered from silently (spec §7 policy:
// "losslessness is unconditional").
var (
	// ErrUnknownToken is returned for a token id >= T + A (spec: decoder
	// error "UnknownToken").
	ErrUnknownToken = errors.New("codec: unknown token id")
	// ErrSlotUnderflow is returned when a token calls for more slots than
	// remain in the slot stream.
	ErrSlotUnderflow = errors.New("codec: slot stream underflow")
	// ErrSlotCountMismatch is returned when, after the last token, the
	// slot cursor does not equal len(slots) (spec §4.5, §8).
	ErrSlotCountMismatch = errors.New("codec: slot count mismatch")
	// ErrUnknownAtom is returned for a literal-fallback id that names no
	// entry in the interner or this job's extension table (spec:
	// "UnknownAtom (fallback to an id not in the interner)").
	ErrUnknownAtom = errors.New("codec: unknown atom id")
)
