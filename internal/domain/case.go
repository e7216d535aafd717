package domain

// RarityTier classifies a prize entry for display and drop-feed styling.
// It plays no part in outcome resolution.
type RarityTier string

const (
	RarityCommon    RarityTier = "common"
	RarityUncommon  RarityTier = "uncommon"
	RarityRare      RarityTier = "rare"
	RarityEpic      RarityTier = "epic"
	RarityLegendary RarityTier = "legendary"
)

// Valid reports whether the tier is one of the known rarity tiers.
func (t RarityTier) Valid() bool {
	switch t {
	case RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary:
		return true
	}
	return false
}

// OddsEntry is one possible prize in a case.
type OddsEntry struct {
	ID               string     `json:"id"`
	Weight           float64    `json:"weight"`
	PayoutMultiplier float64    `json:"payout_multiplier"`
	Rarity           RarityTier `json:"rarity"`
}

// Case is a purchasable bundle with a fixed price and a fixed,
// ordered odds table. The entry order is the catalog order used by
// cumulative-weight selection; it must not be reordered after publish.
type Case struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Price   int64       `json:"price_cents"`
	Entries []OddsEntry `json:"entries"`
}

// Payout computes the winnings for the given entry, in cents.
func (c *Case) Payout(entry OddsEntry) int64 {
	return MultiplyPrice(c.Price, entry.PayoutMultiplier)
}

// Entry returns the odds entry with the given ID.
func (c *Case) Entry(id string) (OddsEntry, bool) {
	for _, e := range c.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return OddsEntry{}, false
}
