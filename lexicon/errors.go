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

import "errors"

// ErrCorrupt is the sentinel spec §7 "LexiconCorrupt" error: the
// lexicon load, whether from text or binary form, found data that could
// not be assembled into a valid Lexicon. It is fatal to the load; there
// is no partial-recovery path (spec §1 Non-goals: no corrupt-lexicon
// recovery).
var ErrCorrupt = errors.New("lexicon: corrupt artifact")
