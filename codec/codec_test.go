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

package codec_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/themeadbrewer/williamson/atom"
	"github.com/themeadbrewer/williamson/codec"
	"github.com/themeadbrewer/williamson/lexicon"
)

func buildKingdomLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	b := lexicon.NewBuilder(lexicon.Version)
	_, err := b.AddFixed(atom.LIT, []byte("the"))
	require.NoError(t, err)
	_, err = b.AddFixed(atom.LIT, []byte("of"))
	require.NoError(t, err)
	_, err = b.AddFixed(atom.WS, []byte(" "))
	require.NoError(t, err)

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

func roundTrip(t *testing.T, lex *lexicon.Lexicon, input string) ([]byte, codec.Message) {
	t.Helper()
	atoms := lex.NewAtomizer().Atomize([]byte(input))
	enc := codec.NewEncoder(lex, nil)
	msg := enc.Encode(atoms)
	dec := codec.NewDecoder(lex, enc.Extensions())
	out, err := dec.Decode(msg)
	require.NoError(t, err)
	return out, msg
}

func TestEncodeDecodeTemplateMatch(t *testing.T) {
	lex := buildKingdomLexicon(t)
	out, msg := roundTrip(t, lex, "the king of the castle")
	require.Equal(t, "the king of the castle", string(out))
	require.Equal(t, []uint32{0}, msg.Tokens)
	require.Equal(t, []string{"king", "castle"}, msg.Slots)
}

func TestEncodeDecodeLiteralFallback(t *testing.T) {
	lex := buildKingdomLexicon(t)
	out, msg := roundTrip(t, lex, "restrictions")
	require.Equal(t, "restrictions", string(out))
	require.Len(t, msg.Tokens, 1)
	require.Equal(t, []string{"restrictions"}, msg.Slots)
}

func TestEncodeDecodeUsesExtensionRegionForUnknownPunctuation(t *testing.T) {
	lex := buildKingdomLexicon(t)
	out, _ := roundTrip(t, lex, "the king of the castle§")
	require.Equal(t, "the king of the castle§", string(out))
}

func TestRoundTripManyInputs(t *testing.T) {
	lex := buildKingdomLexicon(t)
	inputs := []string{
		"",
		"   \n\t",
		"the king of the castle",
		"restrictions",
		"Hello, world.\n",
		"3.14 and 42",
		"theory",
		"the king of the castle and the queen of the realm",
	}
	for _, in := range inputs {
		out, _ := roundTrip(t, lex, in)
		if diff := cmp.Diff(in, string(out)); diff != "" {
			t.Errorf("round trip mismatch for %q (-want +got):\n%s", in, diff)
		}
	}
}

func TestDecodeUnknownTokenErrors(t *testing.T) {
	lex := buildKingdomLexicon(t)
	dec := codec.NewDecoder(lex, nil)
	hugeID := lex.Interner.Size() + 1000
	_, err := dec.Decode(codec.Message{Tokens: []uint32{uint32(lex.Templates.Len()) + hugeID}})
	require.ErrorIs(t, err, codec.ErrUnknownToken)
}

func TestDecodeSlotCountMismatchErrors(t *testing.T) {
	lex := buildKingdomLexicon(t)
	dec := codec.NewDecoder(lex, nil)
	// Template 0 has arity 2 but we supply only one slot.
	_, err := dec.Decode(codec.Message{Tokens: []uint32{0}, Slots: []string{"king"}})
	require.Error(t, err)
}

func TestEncoderMonotonicityUnderLargerLexicon(t *testing.T) {
	small := buildKingdomLexicon(t)
	big := buildKingdomLexicon(t)
	bBuilder := lexicon.NewBuilder(lexicon.Version)
	_, _ = bBuilder.AddFixed(atom.LIT, []byte("the"))
	_, _ = bBuilder.AddFixed(atom.LIT, []byte("of"))
	_, _ = bBuilder.AddFixed(atom.WS, []byte(" "))
	_, _ = bBuilder.AddTemplate(
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
	_, _ = bBuilder.AddTemplate(atom.Atom{Kind: atom.VAR}) // superset: also covers a bare word
	var err error
	big, err = bBuilder.Build()
	require.NoError(t, err)

	input := "restrictions"
	atoms := small.NewAtomizer().Atomize([]byte(input))
	smallMsg := codec.NewEncoder(small, nil).Encode(atoms)
	bigMsg := codec.NewEncoder(big, nil).Encode(atoms)
	require.LessOrEqual(t, len(bigMsg.Tokens), len(smallMsg.Tokens))
}
