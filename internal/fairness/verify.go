package fairness

import (
	"crypto/subtle"
	"fmt"

	"github.com/casevault/backend/internal/domain"
)

// Verify replays a revealed draw record. It confirms the revealed
// server seed hashes to the published commitment, then returns the
// derived random value so the caller can re-run outcome selection.
func Verify(rec domain.VerificationRecord) (float64, error) {
	want := Commitment(rec.ServerSeed)
	if subtle.ConstantTimeCompare([]byte(want), []byte(rec.Commitment)) != 1 {
		return 0, fmt.Errorf("%w: revealed seed does not match commitment", domain.ErrCommitmentMismatch)
	}
	return DeriveRandom(rec.ServerSeed, rec.ClientSeed, rec.Nonce), nil
}
