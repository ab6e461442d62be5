package cache

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Key identifies a cached source image.
type Key uint64

// DeriveKey hashes a decoded source URL into a Key. Equal strings always
// yield equal keys.
func DeriveKey(source string) Key {
	return Key(xxhash.Sum64String(source))
}

// String renders the key as fixed-width hex.
func (k Key) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}
