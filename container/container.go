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

package container

import (
	"encoding/binary"
	"io"
	"unicode/utf8"

	"github.com/themeadbrewer/williamson/reporter"
)

const (
	// Magic is the 4-byte container magic, "WILL" when the u32 value is
	// spelled most significant byte first; written little-endian, the
	// bytes on disk are "LLIW".
	Magic uint32 = 0x57494C4C
	// Version is the only container version this package writes or
	// accepts.
	Version uint32 = 1

	headerSize = 16 // magic + version + token count
)

// Write serializes tokens and slots to sink in the canonical layout of
// spec §6. It never fails on well-formed input; an error here can only
// come from sink itself.
func Write(tokens []uint32, slots []string, sink io.Writer) error {
	var hdr [headerSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], Magic)
	binary.LittleEndian.PutUint32(hdr[4:8], Version)
	binary.LittleEndian.PutUint64(hdr[8:16], uint64(len(tokens)))
	if _, err := sink.Write(hdr[:]); err != nil {
		return err
	}

	if len(tokens) > 0 {
		buf := make([]byte, 4*len(tokens))
		for i, tok := range tokens {
			binary.LittleEndian.PutUint32(buf[4*i:4*i+4], tok)
		}
		if _, err := sink.Write(buf); err != nil {
			return err
		}
	}

	var mbuf [8]byte
	binary.LittleEndian.PutUint64(mbuf[:], uint64(len(slots)))
	if _, err := sink.Write(mbuf[:]); err != nil {
		return err
	}

	for _, s := range slots {
		var lbuf [4]byte
		binary.LittleEndian.PutUint32(lbuf[:], uint32(len(s)))
		if _, err := sink.Write(lbuf[:]); err != nil {
			return err
		}
		if len(s) > 0 {
			if _, err := sink.Write([]byte(s)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read parses the canonical container layout of spec §6 from source,
// reading exactly as many bytes as the header declares: magic and
// version are validated, and every length-prefixed region is checked
// against the bytes actually read before any allocation proportional to
// a declared length, so a corrupt or hostile oversize count fails with
// ErrTruncated rather than exhausting memory.
func Read(source io.Reader) (tokens []uint32, slots []string, err error) {
	br := &boundedReader{r: source}

	hdr := make([]byte, headerSize)
	if err := br.readFull(hdr); err != nil {
		return nil, nil, reporter.At(br.offset, ErrTruncated)
	}
	magic := binary.LittleEndian.Uint32(hdr[0:4])
	if magic != Magic {
		return nil, nil, reporter.Atf(0, "%w: got 0x%08X", ErrBadMagic, magic)
	}
	version := binary.LittleEndian.Uint32(hdr[4:8])
	if version != Version {
		return nil, nil, reporter.Atf(4, "%w: got %d", ErrBadVersion, version)
	}
	n := binary.LittleEndian.Uint64(hdr[8:16])

	tokens, err = readTokens(br, n)
	if err != nil {
		return nil, nil, err
	}

	mbuf := make([]byte, 8)
	if err := br.readFull(mbuf); err != nil {
		return nil, nil, reporter.At(br.offset, ErrTruncated)
	}
	m := binary.LittleEndian.Uint64(mbuf)

	slots, err = readSlots(br, m)
	if err != nil {
		return nil, nil, err
	}

	// Any leftover byte after the declared slots is itself malformed
	// input (spec §6: "trailing bytes beyond the last slot are an
	// error").
	var probe [1]byte
	if k, _ := io.ReadFull(br.r, probe[:]); k > 0 {
		return nil, nil, reporter.At(br.offset, ErrTruncated)
	}
	return tokens, slots, nil
}

func readTokens(br *boundedReader, n uint64) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	tokens := make([]uint32, 0, clampCap(n))
	buf := make([]byte, 4)
	for i := uint64(0); i < n; i++ {
		if err := br.readFull(buf); err != nil {
			return nil, reporter.At(br.offset, ErrTruncated)
		}
		tokens = append(tokens, binary.LittleEndian.Uint32(buf))
	}
	return tokens, nil
}

func readSlots(br *boundedReader, m uint64) ([]string, error) {
	if m == 0 {
		return nil, nil
	}
	slots := make([]string, 0, clampCap(m))
	lbuf := make([]byte, 4)
	for i := uint64(0); i < m; i++ {
		if err := br.readFull(lbuf); err != nil {
			return nil, reporter.At(br.offset, ErrTruncated)
		}
		l := binary.LittleEndian.Uint32(lbuf)
		payload, err := br.readCapped(l)
		if err != nil {
			return nil, reporter.At(br.offset, ErrTruncated)
		}
		if !utf8.Valid(payload) {
			return nil, reporter.Atf(br.offset, "%w: slot %d", ErrInvalidUTF8Slot, i)
		}
		slots = append(slots, string(payload))
	}
	return slots, nil
}

// readChunk bounds how much any single declared length is allowed to
// provision before the bytes behind it are confirmed to exist.
const readChunk = 1 << 20

// clampCap bounds a pre-allocation hint so a declared count far beyond
// anything readFull could actually deliver can't itself be used to
// force a huge allocation; the slice still grows correctly via append
// if the real count is larger.
func clampCap(n uint64) int {
	if n > readChunk {
		return readChunk
	}
	return int(n)
}

// boundedReader tracks how many bytes have been consumed from r, so
// errors can report an accurate stream offset.
type boundedReader struct {
	r      io.Reader
	offset uint64
}

func (b *boundedReader) readFull(p []byte) error {
	n, err := io.ReadFull(b.r, p)
	b.offset += uint64(n)
	if err != nil {
		return err
	}
	return nil
}

// readCapped reads exactly l bytes, the same guarantee as readFull, but
// never allocates more than readChunk bytes ahead of what has actually
// been confirmed present in the stream: a hostile declared length (e.g.
// 0xFFFFFFFF on a tiny source) fails with a short read against the
// first chunk instead of an upfront allocation proportional to l (spec
// §4.6's oversize-declaration guard, applied per slot as well as to the
// token count).
func (b *boundedReader) readCapped(l uint32) ([]byte, error) {
	out := make([]byte, 0, clampCap(uint64(l)))
	remaining := l
	buf := make([]byte, readChunk)
	for remaining > 0 {
		n := remaining
		if n > readChunk {
			n = readChunk
		}
		if err := b.readFull(buf[:n]); err != nil {
			return nil, err
		}
		out = append(out, buf[:n]...)
		remaining -= n
	}
	return out, nil
}
