package corpus

import (
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// payloadNamespace prefixes every hashed block label.
const payloadNamespace = "ncdprime"

// Payload returns n deterministic pseudo-random bytes for a cell.
//
// Block k is BLAKE2b-256("ncdprime:<seed>:<row>:<col>:<k>"); blocks are
// concatenated and truncated to n. The same (seed, row, col) always yields
// the same bytes on every platform.
func Payload(seed int64, row, col, n int) []byte {
	if n <= 0 {
		return []byte{}
	}

	prefix := payloadNamespace + ":" +
		strconv.FormatInt(seed, 10) + ":" +
		strconv.Itoa(row) + ":" +
		strconv.Itoa(col) + ":"

	out := make([]byte, 0, n+blake2b.Size256)
	for counter := 0; len(out) < n; counter++ {
		sum := blake2b.Sum256([]byte(prefix + strconv.Itoa(counter)))
		out = append(out, sum[:]...)
	}
	return out[:n]
}
