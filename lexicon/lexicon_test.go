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

package lexicon_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/themeadbrewer/williamson/atom"
	"github.com/themeadbrewer/williamson/lexicon"
)

// buildKingdomLexicon builds a small lexicon containing the exact
// template used by spec scenario 1: "the X of the Y".
func buildKingdomLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	b := lexicon.NewBuilder(lexicon.Version)

	theID, err := b.AddFixed(atom.LIT, []byte("the"))
	require.NoError(t, err)
	ofID, err := b.AddFixed(atom.LIT, []byte("of"))
	require.NoError(t, err)
	spaceID, err := b.AddFixed(atom.WS, []byte(" "))
	require.NoError(t, err)
	_ = theID
	_ = ofID
	_ = spaceID

	_, err = b.AddTemplate(
		atom.Atom{Kind: atom.LIT, Payload: []byte("the")},
		atom.Atom{Kind: atom.WS, Payload: []byte(" ")},
		atom.Atom{Kind: atom.VAR},
		atom.Atom{Kind: atom.WS, Payload: []byte(" ")},
		atom.Atom{Kind: atom.LIT, Payload: []byte("of")},
		atom.Atom{Kind: atom.WS, Payload: []byte(" ")},
		atom.Atom{Kind: atom.LIT, Payload: []byte("the")},
		atom.Atom{Kind: atom.WS, Payload: []byte(" ")},
		atom.Atom{Kind: atom.VAR},
	)
	require.NoError(t, err)

	lex, err := b.Build()
	require.NoError(t, err)
	return lex
}

func TestBuilderLongestMatch(t *testing.T) {
	lex := buildKingdomLexicon(t)
	atoms := lex.NewAtomizer().Atomize([]byte("the king of the castle"))
	ids := make([]uint32, len(atoms))
	for i, a := range atoms {
		if a.Kind.IsSlot() {
			ids[i] = lex.Interner.KindID(a.Kind)
		} else {
			id, ok := lex.Interner.InternFixed(a.Kind, a.Payload)
			require.True(t, ok, "atom %v should be in lexicon", a)
			ids[i] = id
		}
	}
	tid, length, ok := lex.Trie.LongestMatch(ids)
	require.True(t, ok)
	require.Equal(t, len(ids), length)
	require.Equal(t, uint32(0), tid)
}

func TestTextFormRoundTrip(t *testing.T) {
	lex := buildKingdomLexicon(t)
	data, err := lex.MarshalText()
	require.NoError(t, err)

	reloaded, err := lexicon.LoadText(data)
	require.NoError(t, err)

	require.Equal(t, lex.Interner.Size(), reloaded.Interner.Size())
	require.Equal(t, lex.Templates.Len(), reloaded.Templates.Len())
	seqA, _ := lex.Templates.Sequence(0)
	seqB, _ := reloaded.Templates.Sequence(0)
	require.Equal(t, seqA, seqB)
}

func TestBinaryFormRoundTrip(t *testing.T) {
	lex := buildKingdomLexicon(t)
	data, err := lex.MarshalBinary()
	require.NoError(t, err)

	reloaded, err := lexicon.LoadBinary(data)
	require.NoError(t, err)
	require.Equal(t, lex.Interner.Size(), reloaded.Interner.Size())
	seqA, _ := lex.Templates.Sequence(0)
	seqB, _ := reloaded.Templates.Sequence(0)
	require.Equal(t, seqA, seqB)
}

func TestBinaryFormDeterministic(t *testing.T) {
	lex := buildKingdomLexicon(t)
	a, err := lex.MarshalBinary()
	require.NoError(t, err)
	b, err := lex.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestLoadBinaryBadMagic(t *testing.T) {
	_, err := lexicon.LoadBinary([]byte{0, 0, 0, 0, 1, 0, 0, 0})
	require.ErrorIs(t, err, lexicon.ErrCorrupt)
}
