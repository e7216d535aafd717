package fairness

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casevault/backend/internal/domain"
)

func TestGenerateServerSeed_Shape(t *testing.T) {
	seed, err := GenerateServerSeed()
	require.NoError(t, err)
	assert.Len(t, seed, 64)

	raw, err := hex.DecodeString(seed)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestGenerateServerSeed_EntropyFailure(t *testing.T) {
	orig := entropy
	entropy = bytes.NewReader(nil)
	defer func() { entropy = orig }()

	_, err := GenerateServerSeed()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEntropyUnavailable)
}

func TestCommitment_MatchesKnownDigest(t *testing.T) {
	// sha256("abc")
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		Commitment("abc"))
}

func TestDeriveRandom_Deterministic(t *testing.T) {
	a := DeriveRandom("server", "client", 7)
	b := DeriveRandom("server", "client", 7)
	assert.Equal(t, a, b)
}

func TestDeriveRandom_SensitiveToEveryInput(t *testing.T) {
	base := DeriveRandom("server", "client", 7)
	assert.NotEqual(t, base, DeriveRandom("server2", "client", 7))
	assert.NotEqual(t, base, DeriveRandom("server", "client2", 7))
	assert.NotEqual(t, base, DeriveRandom("server", "client", 8))
}

func TestDeriveRandom_Range(t *testing.T) {
	for nonce := int64(1); nonce <= 1000; nonce++ {
		v := DeriveRandom("range-seed", "viewer", nonce)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestDeriveRandom_NonceSeparator(t *testing.T) {
	// "client1" nonce 2 and "client" nonce 12 must not collide: the
	// separator keeps the message unambiguous.
	assert.NotEqual(t,
		DeriveRandom("seed", "client1", 2),
		DeriveRandom("seed", "client", 12))
}

func TestVerify_RoundTrip(t *testing.T) {
	seed, err := GenerateServerSeed()
	require.NoError(t, err)

	rec := domain.VerificationRecord{
		Commitment: Commitment(seed),
		ServerSeed: seed,
		ClientSeed: "my-lucky-charm",
		Nonce:      42,
	}

	got, err := Verify(rec)
	require.NoError(t, err)
	assert.Equal(t, DeriveRandom(seed, "my-lucky-charm", 42), got)
}

func TestVerify_RejectsForgedSeed(t *testing.T) {
	seed, err := GenerateServerSeed()
	require.NoError(t, err)
	forged, err := GenerateServerSeed()
	require.NoError(t, err)

	rec := domain.VerificationRecord{
		Commitment: Commitment(seed),
		ServerSeed: forged,
		ClientSeed: "my-lucky-charm",
		Nonce:      42,
	}

	_, err = Verify(rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCommitmentMismatch)
}

// memNonces is an in-memory repository.Nonce for exercising concurrent
// sealing without a database.
type memNonces struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (m *memNonces) NextNonce(_ context.Context, actorID string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = make(map[string]int64)
	}
	m.counts[actorID]++
	return m.counts[actorID], nil
}

func (m *memNonces) CurrentNonce(_ context.Context, actorID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[actorID], nil
}

func TestNewCommit_SealsMonotonicNonces(t *testing.T) {
	svc := NewService(&memNonces{})
	ctx := context.Background()

	const workers = 50
	nonces := make(chan int64, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := svc.NewCommit(ctx, "actor-1")
			assert.NoError(t, err)
			nonces <- c.Nonce
		}()
	}
	wg.Wait()
	close(nonces)

	seen := make(map[int64]bool, workers)
	for n := range nonces {
		assert.False(t, seen[n], "nonce %d issued twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
	for n := int64(1); n <= workers; n++ {
		assert.True(t, seen[n], "gap at nonce %d", n)
	}
}

func TestNewCommit_CommitmentMatchesSeed(t *testing.T) {
	svc := NewService(&memNonces{})

	c, err := svc.NewCommit(context.Background(), "actor-1")
	require.NoError(t, err)
	assert.Equal(t, Commitment(c.ServerSeed), c.Commitment)
	assert.Equal(t, int64(1), c.Nonce)
}

func TestNewCommit_NonceFailure(t *testing.T) {
	svc := NewService(&memNonces{err: errors.New("connection reset")})

	_, err := svc.NewCommit(context.Background(), "actor-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to seal nonce")
}

func TestEntropyIsCryptoRandByDefault(t *testing.T) {
	assert.Equal(t, rand.Reader, entropy)
}
