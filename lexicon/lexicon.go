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

import "github.com/themeadbrewer/williamson/atom"

// Version is the lexicon artifact format version this package reads and
// writes, both for the text and the binary form.
const Version = 1

// Lexicon is the bundle of spec §3: atom interner, template table,
// prefix trie, and a version tag. It is loaded once by LoadText or
// LoadBinary (or assembled in memory by Builder) and is immutable for
// the rest of the process's life — any number of encoders and decoders
// may share one by reference without synchronization (spec §5).
type Lexicon struct {
	Version   int32
	Interner  *Interner
	Templates *Templates
	Trie      *PrefixTrie
}

// New assembles a Lexicon from its already-validated parts. Prefer
// LoadText, LoadBinary, or Builder.Build over calling this directly.
func New(version int32, in *Interner, tmpl *Templates) *Lexicon {
	return &Lexicon{
		Version:   version,
		Interner:  in,
		Templates: tmpl,
		Trie:      BuildPrefixTrie(tmpl),
	}
}

// StopwordSet returns the atom.StopwordSet an Atomizer must use to
// classify LIT atoms against this lexicon's exact stopword list.
func (l *Lexicon) StopwordSet() atom.StopwordSet {
	return atom.NewStopwordSet(l.Interner.Stopwords())
}

// NewAtomizer returns an atom.Atomizer configured with this lexicon's
// stopword list — the only place the stopword set used for atomization
// is allowed to come from (spec §9 open question 1).
func (l *Lexicon) NewAtomizer() *atom.Atomizer {
	return atom.NewAtomizer(l.StopwordSet())
}
