package domain

import (
	"errors"
	"testing"
)

func TestParseTier(t *testing.T) {
	for _, name := range []string{"gold", "platinum", "diamond"} {
		tier, err := ParseTier(name)
		if err != nil {
			t.Fatalf("expected %q to parse, got %v", name, err)
		}
		if string(tier) != name {
			t.Errorf("expected %q, got %q", name, tier)
		}
	}

	for _, name := range []string{"", "silver", "GOLD", "gold "} {
		if _, err := ParseTier(name); !errors.Is(err, ErrInvalidTier) {
			t.Errorf("expected ErrInvalidTier for %q, got %v", name, err)
		}
	}
}

func TestPricingAmount(t *testing.T) {
	p := Pricing{Gold: 50000, Platinum: 100000, Diamond: 200000}

	cases := []struct {
		tier Tier
		want int64
	}{
		{TierGold, 50000},
		{TierPlatinum, 100000},
		{TierDiamond, 200000},
	}
	for _, c := range cases {
		got, err := p.Amount(c.tier)
		if err != nil {
			t.Fatalf("Amount(%s): %v", c.tier, err)
		}
		if got != c.want {
			t.Errorf("Amount(%s) = %d, want %d", c.tier, got, c.want)
		}
	}

	if _, err := p.Amount("silver"); !errors.Is(err, ErrInvalidTier) {
		t.Errorf("expected ErrInvalidTier, got %v", err)
	}
}

func TestPricingAmountRejectsMissingPrice(t *testing.T) {
	cases := []Pricing{
		{Gold: 0, Platinum: 100, Diamond: 100},
		{Gold: -500, Platinum: 100, Diamond: 100},
	}
	for _, p := range cases {
		if _, err := p.Amount(TierGold); !errors.Is(err, ErrInvalidPricing) {
			t.Errorf("pricing %+v: expected ErrInvalidPricing, got %v", p, err)
		}
	}
}

func TestPricingAmountIsStable(t *testing.T) {
	p := Pricing{Gold: 50000, Platinum: 100000, Diamond: 200000}
	first, err := p.Amount(TierGold)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		got, err := p.Amount(TierGold)
		if err != nil || got != first {
			t.Fatalf("call %d: got %d (%v), want %d", i, got, err, first)
		}
	}
}

func TestPricingValid(t *testing.T) {
	if !(Pricing{Gold: 1, Platinum: 1, Diamond: 1}).Valid() {
		t.Error("expected all-positive pricing to be valid")
	}
	if (Pricing{Gold: 1, Platinum: 0, Diamond: 1}).Valid() {
		t.Error("expected zero platinum price to be invalid")
	}
}
