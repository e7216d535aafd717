package fairness

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// DeriveRandom maps a (serverSeed, clientSeed, nonce) triple to a float
// in [0, 1). The server seed keys an HMAC-SHA256 over
// "clientSeed:nonce"; the first four digest bytes, read big-endian,
// are scaled by 2^32. The same triple always yields the same value, so
// any resolved draw can be replayed by a third party.
func DeriveRandom(serverSeed, clientSeed string, nonce int64) float64 {
	mac := hmac.New(sha256.New, []byte(serverSeed))
	fmt.Fprintf(mac, "%s:%d", clientSeed, nonce)
	digest := mac.Sum(nil)

	n := binary.BigEndian.Uint32(digest[:4])
	return float64(n) / (1 << 32)
}
