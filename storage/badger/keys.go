// Copyright 2025 Wayline Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"encoding/binary"

	"github.com/wayline/guidepost/core"
)

const (
	placePrefix    = "plrec:"
	identityPrefix = "plident:"
	placeSeqName   = "plrecseq"
)

// makePlaceKey builds the key for a place record. The ID is encoded
// big-endian so that lexicographic key order matches numeric ID order,
// which keeps prefix iteration stable for pagination.
func makePlaceKey(id core.ID) []byte {
	key := make([]byte, len(placePrefix)+8)
	copy(key, placePrefix)
	binary.BigEndian.PutUint64(key[len(placePrefix):], uint64(id))
	return key
}

// makeIdentityKey builds the index key mapping an identity hash to the
// record that owns it. The value stored under this key is the record ID.
func makeIdentityKey(identityID core.ID) []byte {
	key := make([]byte, len(identityPrefix)+8)
	copy(key, identityPrefix)
	binary.BigEndian.PutUint64(key[len(identityPrefix):], uint64(identityID))
	return key
}
