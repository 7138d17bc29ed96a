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

package atom

import (
	"unicode"
	"unicode/utf8"
)

// StopwordSet tests whether a word's exact bytes are one of the lexicon's
// closed stopword list. The atomizer never hard-codes this set (spec §9,
// open question 1): callers construct it from whatever lexicon they have
// loaded and pass it to NewAtomizer.
type StopwordSet interface {
	IsStopword(word []byte) bool
}

// stopwordMap is the straightforward StopwordSet backing: an exact-match
// set built once from a lexicon's LIT entries.
type stopwordMap map[string]struct{}

// NewStopwordSet builds a StopwordSet from a list of stopword strings.
func NewStopwordSet(words []string) StopwordSet {
	m := make(stopwordMap, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func (m stopwordMap) IsStopword(word []byte) bool {
	_, ok := m[string(word)]
	return ok
}

// Atomizer converts a UTF-8 byte stream into an ordered atom sequence by
// the greedy, longest-prefix-wins recognition rules of spec §4.1. It is
// total: it never rejects input, falling back to per-byte PUNC atoms on
// ill-formed UTF-8.
type Atomizer struct {
	stopwords StopwordSet
}

// NewAtomizer constructs an Atomizer bound to the given stopword set. A
// nil set is treated as empty (no input word will ever be classified LIT).
func NewAtomizer(stopwords StopwordSet) *Atomizer {
	if stopwords == nil {
		stopwords = stopwordMap{}
	}
	return &Atomizer{stopwords: stopwords}
}

// Atomize is the deterministic, total function from bytes to atoms
// described by spec §4.1. Detokenize(Atomize(b)) == b for every b.
func (z *Atomizer) Atomize(input []byte) []Atom {
	var out []Atom
	pos := 0
	n := len(input)
	for pos < n {
		r, size := utf8.DecodeRune(input[pos:])
		if r == utf8.RuneError && size <= 1 {
			// Ill-formed UTF-8: emit the offending byte verbatim rather
			// than failing. Losslessness beats rejection (spec §4.1).
			out = append(out, Atom{Kind: PUNC, Payload: input[pos : pos+1]})
			pos++
			continue
		}

		switch {
		case unicode.IsSpace(r):
			end := pos + size
			for end < n {
				r2, sz2 := utf8.DecodeRune(input[end:])
				if r2 == utf8.RuneError && sz2 <= 1 {
					break
				}
				if !unicode.IsSpace(r2) {
					break
				}
				end += sz2
			}
			out = append(out, Atom{Kind: WS, Payload: input[pos:end]})
			pos = end

		case isDigit(r):
			end := scanNumber(input, pos)
			out = append(out, Atom{Kind: NUM, Payload: input[pos:end]})
			pos = end

		case isWordChar(r):
			end := scanWord(input, pos)
			word := input[pos:end]
			switch {
			case z.stopwords.IsStopword(word):
				out = append(out, Atom{Kind: LIT, Payload: word})
			case unicode.IsUpper(r):
				out = append(out, Atom{Kind: CAP, Payload: word})
			default:
				out = append(out, Atom{Kind: VAR, Payload: word})
			}
			pos = end

		default:
			out = append(out, Atom{Kind: PUNC, Payload: input[pos : pos+size]})
			pos += size
		}
	}
	return out
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isWordChar reports whether r is a "word character": letter, digit, or
// underscore, by Unicode category (spec §4.1 glossary).
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// scanNumber consumes a maximal run matching [0-9]+('.'[0-9]+)? starting
// at pos, which must point at a digit. The dot is only consumed when it
// is itself followed by at least one digit (spec testable scenario 4).
func scanNumber(input []byte, pos int) int {
	n := len(input)
	end := pos
	for end < n && input[end] >= '0' && input[end] <= '9' {
		end++
	}
	if end < n && input[end] == '.' && end+1 < n && input[end+1] >= '0' && input[end+1] <= '9' {
		end++
		for end < n && input[end] >= '0' && input[end] <= '9' {
			end++
		}
	}
	return end
}

// scanWord consumes a maximal run of word characters starting at pos.
func scanWord(input []byte, pos int) int {
	n := len(input)
	end := pos
	for end < n {
		r, sz := utf8.DecodeRune(input[end:])
		if r == utf8.RuneError && sz <= 1 {
			break
		}
		if !isWordChar(r) {
			break
		}
		end += sz
	}
	return end
}
