package catalog

import (
	"fmt"
	"math"

	"github.com/casevault/backend/internal/domain"
)

// WeightSumEpsilon is the tolerance applied when checking that a
// case's weights sum to 1. Drift beyond this is a configuration error,
// not float noise.
const WeightSumEpsilon = 1e-6

// Validate checks a case definition at publish time. Every violation
// wraps domain.ErrInvalidOddsTable so callers can treat the whole class
// as non-retryable. The resolver assumes tables passed this check;
// it is never asked to defend against a malformed table mid-draw.
func Validate(c *domain.Case) error {
	if c == nil {
		return fmt.Errorf("%w: nil case", domain.ErrInvalidOddsTable)
	}
	if c.ID == "" {
		return fmt.Errorf("%w: missing case id", domain.ErrInvalidOddsTable)
	}
	if c.Price <= 0 {
		return fmt.Errorf("%w: case %q price must be positive", domain.ErrInvalidOddsTable, c.ID)
	}
	if len(c.Entries) == 0 {
		return fmt.Errorf("%w: case %q has no entries", domain.ErrInvalidOddsTable, c.ID)
	}

	seen := make(map[string]bool, len(c.Entries))
	sum := 0.0
	for i, e := range c.Entries {
		if e.ID == "" {
			return fmt.Errorf("%w: case %q entry %d has no id", domain.ErrInvalidOddsTable, c.ID, i)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: case %q has duplicate entry id %q", domain.ErrInvalidOddsTable, c.ID, e.ID)
		}
		seen[e.ID] = true

		if e.Weight <= 0 || e.Weight > 1 {
			return fmt.Errorf("%w: case %q entry %q weight %v outside (0, 1]",
				domain.ErrInvalidOddsTable, c.ID, e.ID, e.Weight)
		}
		if e.PayoutMultiplier < 0 {
			return fmt.Errorf("%w: case %q entry %q has negative payout multiplier",
				domain.ErrInvalidOddsTable, c.ID, e.ID)
		}
		if !e.Rarity.Valid() {
			return fmt.Errorf("%w: case %q entry %q has unknown rarity %q",
				domain.ErrInvalidOddsTable, c.ID, e.ID, e.Rarity)
		}
		sum += e.Weight
	}

	if math.Abs(sum-1.0) > WeightSumEpsilon {
		return fmt.Errorf("%w: case %q weights sum to %v, want 1±%v",
			domain.ErrInvalidOddsTable, c.ID, sum, WeightSumEpsilon)
	}

	return nil
}
