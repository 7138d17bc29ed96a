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

package container_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/themeadbrewer/williamson/container"
)

func TestWriteReadRoundTrip(t *testing.T) {
	tokens := []uint32{7, 9, 100000}
	slots := []string{"king", "castle", ""}

	var buf bytes.Buffer
	require.NoError(t, container.Write(tokens, slots, &buf))

	gotTokens, gotSlots, err := container.Read(&buf)
	require.NoError(t, err)
	require.Equal(t, tokens, gotTokens)
	require.Equal(t, slots, gotSlots)
}

func TestEmptyInputProducesTwentyFourByteContainer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, container.Write(nil, nil, &buf))
	require.Equal(t, 24, buf.Len())

	tokens, slots, err := container.Read(&buf)
	require.NoError(t, err)
	require.Empty(t, tokens)
	require.Empty(t, slots)
}

func TestLoneUnrecognizedByteProducesTwentyEightByteContainer(t *testing.T) {
	// One PUNC fallback token, no slots: 24-byte empty container plus
	// one 4-byte token id (spec §8).
	var buf bytes.Buffer
	require.NoError(t, container.Write([]uint32{0xFF}, nil, &buf))
	require.Equal(t, 28, buf.Len())
}

func TestReadRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, container.Write(nil, nil, &buf))
	corrupt := buf.Bytes()
	corrupt[0] ^= 0xFF

	_, _, err := container.Read(bytes.NewReader(corrupt))
	require.ErrorIs(t, err, container.ErrBadMagic)
}

func TestReadRejectsBadVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, container.Write(nil, nil, &buf))
	corrupt := buf.Bytes()
	corrupt[4] = 0xFF

	_, _, err := container.Read(bytes.NewReader(corrupt))
	require.ErrorIs(t, err, container.ErrBadVersion)
}

func TestReadRejectsTruncatedSlotCount(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, container.Write([]uint32{1, 2, 3}, nil, &buf))
	truncated := buf.Bytes()[:buf.Len()-2]

	_, _, err := container.Read(bytes.NewReader(truncated))
	require.ErrorIs(t, err, container.ErrTruncated)
}

func TestReadRejectsOversizeDeclaredTokenCount(t *testing.T) {
	// Header declares far more tokens than the source actually holds;
	// Read must fail with ErrTruncated rather than allocate
	// proportionally to the bogus count (spec §4.6 DoS guard).
	var buf bytes.Buffer
	require.NoError(t, container.Write([]uint32{1}, nil, &buf))
	hostile := buf.Bytes()
	hostile[8] = 0xFF
	hostile[9] = 0xFF
	hostile[10] = 0xFF
	hostile[11] = 0xFF

	_, _, err := container.Read(bytes.NewReader(hostile))
	require.ErrorIs(t, err, container.ErrTruncated)
}

func TestReadRejectsOversizeDeclaredSlotLength(t *testing.T) {
	// A single slot's length prefix declares far more bytes than the
	// source actually holds; Read must fail with ErrTruncated rather
	// than allocate proportionally to the bogus length (spec §4.6 DoS
	// guard, applied per slot as well as to the token count).
	var buf bytes.Buffer
	require.NoError(t, container.Write(nil, []string{"ok"}, &buf))
	hostile := buf.Bytes()
	const slotLengthOffset = 24 // header(16) + zero tokens + slot count(8)
	hostile[slotLengthOffset+0] = 0xFF
	hostile[slotLengthOffset+1] = 0xFF
	hostile[slotLengthOffset+2] = 0xFF
	hostile[slotLengthOffset+3] = 0xFF

	_, _, err := container.Read(bytes.NewReader(hostile))
	require.ErrorIs(t, err, container.ErrTruncated)
}

func TestReadRejectsInvalidUTF8Slot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, container.Write(nil, []string{"ok"}, &buf))
	corrupt := buf.Bytes()
	// Overwrite the slot payload with an invalid UTF-8 byte sequence of
	// the same declared length.
	corrupt[len(corrupt)-2] = 0xFF
	corrupt[len(corrupt)-1] = 0xFE

	_, _, err := container.Read(bytes.NewReader(corrupt))
	require.ErrorIs(t, err, container.ErrInvalidUTF8Slot)
}

func TestReadRejectsTrailingBytes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, container.Write(nil, nil, &buf))
	buf.WriteByte(0x00)

	_, _, err := container.Read(&buf)
	require.ErrorIs(t, err, container.ErrTruncated)
}
