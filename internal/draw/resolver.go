package draw

import (
	"fmt"

	"github.com/casevault/backend/internal/domain"
)

// Resolve maps a random value in [0, 1) to an odds entry by walking the
// table in catalog order and picking the first entry whose cumulative
// weight reaches the value. Accumulated float drift can leave the final
// cumulative sum a hair under 1; any value beyond it lands on the last
// entry so the function is total for every validated table.
func Resolve(c *domain.Case, randomValue float64) (domain.OddsEntry, error) {
	if c == nil || len(c.Entries) == 0 {
		return domain.OddsEntry{}, fmt.Errorf("%w: no entries to resolve against", domain.ErrInvalidOddsTable)
	}
	if randomValue < 0 || randomValue >= 1 {
		return domain.OddsEntry{}, fmt.Errorf("%w: random value %v outside [0, 1)", domain.ErrInvalidOddsTable, randomValue)
	}

	cumulative := 0.0
	for _, e := range c.Entries {
		cumulative += e.Weight
		if randomValue <= cumulative {
			return e, nil
		}
	}

	return c.Entries[len(c.Entries)-1], nil
}
