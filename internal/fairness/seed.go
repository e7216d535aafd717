package fairness

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/casevault/backend/internal/domain"
)

// entropy is the randomness source for server seeds. Tests swap it to
// exercise the unavailable path; production always reads crypto/rand.
var entropy io.Reader = rand.Reader

// GenerateServerSeed returns a fresh 32-byte server seed as lowercase
// hex. Failure to read entropy is fatal to the attempt: the caller must
// abort before any funds move.
func GenerateServerSeed() (string, error) {
	buf := make([]byte, serverSeedBytes)
	if _, err := io.ReadFull(entropy, buf); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrEntropyUnavailable, err)
	}
	return hex.EncodeToString(buf), nil
}

// GenerateClientSeed returns a short random seed for actors who did not
// supply their own. Using a random default keeps the derivation honest
// even for actors who never engage with the fairness scheme.
func GenerateClientSeed() (string, error) {
	buf := make([]byte, clientSeedBytes)
	if _, err := io.ReadFull(entropy, buf); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrEntropyUnavailable, err)
	}
	return hex.EncodeToString(buf), nil
}

// Commitment returns the public commitment for a server seed: the hex
// SHA-256 of the seed string. It is published before the draw resolves
// and lets anyone later confirm the revealed seed was fixed in advance.
func Commitment(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}
