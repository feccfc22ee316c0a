package domain

// Amount returns the stored price for a tier. The price must be present and
// positive; events are created with all three tiers priced.
func (p Pricing) Amount(tier Tier) (int64, error) {
	var amount int64
	switch tier {
	case TierGold:
		amount = p.Gold
	case TierPlatinum:
		amount = p.Platinum
	case TierDiamond:
		amount = p.Diamond
	default:
		return 0, ErrInvalidTier
	}
	if amount <= 0 {
		return 0, ErrInvalidPricing
	}
	return amount, nil
}

// Valid reports whether all tiers carry a positive price.
func (p Pricing) Valid() bool {
	return p.Gold > 0 && p.Platinum > 0 && p.Diamond > 0
}
