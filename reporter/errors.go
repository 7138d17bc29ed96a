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

// Package reporter provides the position-carrying error type shared by
// the codec and container packages. It is adapted from
// protocompile's reporter.ErrorWithPos / errorWithSourcePos: same
// Unwrap/Error shape, but the position is a byte or token offset into a
// stream rather than an ast.SourcePosInfo line/column, since nothing
// downstream of the atomizer has source lines any more.
package reporter

import "fmt"

// OffsetError is an error about an encoded message or container that
// adds the stream offset at which the problem was found (spec §7: every
// decode/container error "surfaces the offset and kind").
type OffsetError interface {
	error
	// Offset returns the byte or token index that caused the error.
	Offset() uint64
	// Unwrap returns the underlying sentinel error.
	Unwrap() error
}

// At creates an OffsetError from a sentinel error and a stream offset.
func At(offset uint64, err error) OffsetError {
	return offsetError{offset: offset, underlying: err}
}

// Atf creates an OffsetError whose underlying error is built from a
// format string and arguments (via fmt.Errorf).
func Atf(offset uint64, format string, args ...interface{}) OffsetError {
	return offsetError{offset: offset, underlying: fmt.Errorf(format, args...)}
}

type offsetError struct {
	underlying error
	offset     uint64
}

func (e offsetError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.offset, e.underlying)
}

func (e offsetError) Offset() uint64 {
	return e.offset
}

func (e offsetError) Unwrap() error {
	return e.underlying
}

var _ OffsetError = offsetError{}
