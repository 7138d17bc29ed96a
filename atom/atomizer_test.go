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

package atom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themeadbrewer/williamson/atom"
)

var defaultStopwords = atom.NewStopwordSet([]string{"the", "and", "of", "is"})

func TestAtomizeTheoryIsNotStopwordPrefix(t *testing.T) {
	atoms := atom.NewAtomizer(defaultStopwords).Atomize([]byte("theory"))
	require.Len(t, atoms, 1)
	assert.Equal(t, atom.VAR, atoms[0].Kind)
	assert.Equal(t, "theory", atoms[0].Text())
}

func TestAtomizeHelloWorld(t *testing.T) {
	atoms := atom.NewAtomizer(defaultStopwords).Atomize([]byte("Hello, world.\n"))
	want := []atom.Atom{
		{Kind: atom.CAP, Payload: []byte("Hello")},
		{Kind: atom.PUNC, Payload: []byte(",")},
		{Kind: atom.WS, Payload: []byte(" ")},
		{Kind: atom.VAR, Payload: []byte("world")},
		{Kind: atom.PUNC, Payload: []byte(".")},
		{Kind: atom.WS, Payload: []byte("\n")},
	}
	require.Equal(t, want, atoms)
}

func TestAtomizeNumberGrammar(t *testing.T) {
	atoms := atom.NewAtomizer(defaultStopwords).Atomize([]byte("3.14 and 42"))
	var nums []string
	for _, a := range atoms {
		if a.Kind == atom.NUM {
			nums = append(nums, a.Text())
		}
	}
	assert.Equal(t, []string{"3.14", "42"}, nums)
}

func TestAtomizeDotNotFollowedByDigitStaysPunc(t *testing.T) {
	atoms := atom.NewAtomizer(defaultStopwords).Atomize([]byte("42."))
	require.Len(t, atoms, 2)
	assert.Equal(t, atom.NUM, atoms[0].Kind)
	assert.Equal(t, "42", atoms[0].Text())
	assert.Equal(t, atom.PUNC, atoms[1].Kind)
	assert.Equal(t, ".", atoms[1].Text())
}

func TestAtomizeStopwordTemplate(t *testing.T) {
	atoms := atom.NewAtomizer(defaultStopwords).Atomize([]byte("the king of the castle"))
	var kinds []atom.Kind
	for _, a := range atoms {
		kinds = append(kinds, a.Kind)
	}
	assert.Equal(t, []atom.Kind{
		atom.LIT, atom.WS, atom.VAR, atom.WS, atom.LIT, atom.WS, atom.LIT, atom.WS, atom.VAR,
	}, kinds)
}

func TestAtomizeMalformedUTF8FallsBackToPunc(t *testing.T) {
	atoms := atom.NewAtomizer(defaultStopwords).Atomize([]byte{0xFF})
	require.Len(t, atoms, 1)
	assert.Equal(t, atom.PUNC, atoms[0].Kind)
	assert.Equal(t, []byte{0xFF}, atoms[0].Payload)
}

func TestAtomizeEmptyInput(t *testing.T) {
	atoms := atom.NewAtomizer(defaultStopwords).Atomize([]byte(""))
	assert.Empty(t, atoms)
}

func TestDetokenizeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t",
		"the king of the castle",
		"restrictions",
		"Hello, world.\n",
		"3.14 and 42",
		"theory",
		"snake_case_name(arg1, arg2):",
	}
	for _, in := range inputs {
		atoms := atom.NewAtomizer(defaultStopwords).Atomize([]byte(in))
		got := atom.Detokenize(atoms)
		assert.Equal(t, in, string(got), "round trip for %q", in)
	}
}
