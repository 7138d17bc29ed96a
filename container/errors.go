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

// Package container implements the canonical on-disk binary layout of
// spec §6: a bit-exact, little-endian serialization of an encoded
// message (token ids plus slot strings).
package container

import "errors"

// Sentinel errors surfaced by Read, wrapped with a reporter.OffsetError
// giving the byte offset at which the problem was found (spec §7).
var (
	ErrBadMagic        = errors.New("container: bad magic")
	ErrBadVersion      = errors.New("container: bad version")
	ErrTruncated       = errors.New("container: truncated")
	ErrInvalidUTF8Slot = errors.New("container: invalid utf-8 in slot")
)
