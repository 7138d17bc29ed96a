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

package codec

// Message is the encoded (token-id sequence, slot sequence) pair of
// spec §3. The invariant "total slot-atom occurrences across the
// expanded message equals len(Slots)" is enforced by both Encode (by
// construction) and Decode (as a hard check, spec §4.5/§8).
type Message struct {
	Tokens []uint32
	Slots  []string
}
