package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestWastePriceUrgentTier(t *testing.T) {
	s, err := SuggestWastePrice(100, 60, 5, DefaultWasteConfiguration())
	require.NoError(t, err)

	assert.Equal(t, "Urgent (4-7 days)", s.TierName)
	assert.True(t, s.TierMatched)
	assert.Equal(t, 30.0, s.ScheduleDiscount)
	assert.Equal(t, 70.0, s.WastePrice)
	assert.Equal(t, 30.0, s.DiscountPercent)
	assert.Equal(t, 16.7, s.MarginPercent)
	assert.False(t, s.MarginFloorApplied)
}

func TestSuggestWastePriceMarginFloorWins(t *testing.T) {
	// Critical tier: 40% + 3 days x 5% = 55% would give 45, far below 95 x 1.05.
	s, err := SuggestWastePrice(100, 95, 0, DefaultWasteConfiguration())
	require.NoError(t, err)

	assert.Equal(t, 55.0, s.ScheduleDiscount)
	assert.True(t, s.MarginFloorApplied)
	assert.Equal(t, 99.99, s.WastePrice)
	assert.GreaterOrEqual(t, s.WastePrice, 99.75)
	assert.Equal(t, 0.0, s.DiscountPercent)
	assert.InDelta(t, 5.0, s.MarginPercent, 0.5)
}

func TestSuggestWastePriceMarginFloorAboveNinetyNine(t *testing.T) {
	// 95.235 x 1.05 = 99.99675; normalizing alone would land on 99.99.
	s, err := SuggestWastePrice(100, 95.235, 0, DefaultWasteConfiguration())
	require.NoError(t, err)

	assert.True(t, s.MarginFloorApplied)
	assert.Equal(t, 100.0, s.WastePrice)
	assert.Equal(t, 5.0, s.MarginPercent)
}

func TestSuggestWastePriceMarginFloorInvariant(t *testing.T) {
	cfg := DefaultWasteConfiguration()
	sellingPrices := []float64{1.25, 9.9, 14.5, 37.8, 100, 249.99}
	buyingRatios := []float64{0.2, 0.5, 0.8, 0.95, 1.1}

	for _, selling := range sellingPrices {
		for _, ratio := range buyingRatios {
			buying := Round2(selling * ratio)
			for days := 0; days <= 40; days++ {
				s, err := SuggestWastePrice(selling, buying, days, cfg)
				require.NoError(t, err)

				minAllowed := decimal.NewFromFloat(buying).Mul(decimal.RequireFromString("1.05"))
				assert.True(t, decimal.NewFromFloat(s.WastePrice).GreaterThanOrEqual(minAllowed),
					"selling=%v buying=%v days=%d price=%v", selling, buying, days, s.WastePrice)
				assert.LessOrEqual(t, s.ScheduleDiscount, cfg.MaxDiscountPercent)
			}
		}
	}
}

func TestSuggestWastePriceTierBoundary(t *testing.T) {
	cfg := DefaultWasteConfiguration()
	for _, tier := range cfg.AggressionTiers {
		t.Run(tier.Name, func(t *testing.T) {
			s, err := SuggestWastePrice(100, 1, tier.MaxDays, cfg)
			require.NoError(t, err)
			assert.Equal(t, tier.BaseDiscount, s.ScheduleDiscount)
			assert.Equal(t, tier.Name, s.TierName)
		})
	}
}

func TestSuggestWastePriceScheduleDiscount(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		expected float64
		tier     string
	}{
		{"critical day zero", 0, 55, "Critical (0-3 days)"},
		{"critical day three", 3, 40, "Critical (0-3 days)"},
		{"urgent day four", 4, 35, "Urgent (4-7 days)"},
		{"warning day eight", 8, 19, "Warning (8-14 days)"},
		{"safe day fifteen", 15, 497, "Safe (15+ days)"},
	}

	cfg := DefaultWasteConfiguration()
	cfg.MaxDiscountPercent = 100
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discount, tier := cfg.scheduleDiscount(tt.days)
			require.NotNil(t, tier)
			assert.Equal(t, tt.tier, tier.Name)
			if tt.expected > cfg.MaxDiscountPercent {
				assert.Equal(t, cfg.MaxDiscountPercent, discount.InexactFloat64())
			} else {
				assert.Equal(t, tt.expected, discount.InexactFloat64())
			}
		})
	}
}

func TestSuggestWastePriceDiscountCeiling(t *testing.T) {
	cfg := DefaultWasteConfiguration()
	cfg.MaxDiscountPercent = 30

	s, err := SuggestWastePrice(100, 10, 0, cfg)
	require.NoError(t, err)
	assert.Equal(t, 30.0, s.ScheduleDiscount)
	assert.Equal(t, 70.0, s.WastePrice)
	assert.Equal(t, 30.0, s.DiscountPercent)
}

func TestSuggestWastePriceFallbackDiscount(t *testing.T) {
	cfg := &WasteConfiguration{
		AggressionTiers: []AggressionTier{
			{Name: "Soon", MinDays: 0, MaxDays: 3, BaseDiscount: 40, DailyIncrement: 5},
			{Name: "Later", MinDays: 10, MaxDays: 20, BaseDiscount: 10, DailyIncrement: 1},
		},
		MinMarginPercent:   5,
		MaxDiscountPercent: 70,
	}

	t.Run("gap between tiers", func(t *testing.T) {
		s, err := SuggestWastePrice(100, 10, 6, cfg)
		require.NoError(t, err)
		assert.False(t, s.TierMatched)
		assert.Empty(t, s.TierName)
		assert.Equal(t, 5.0, s.ScheduleDiscount)
		assert.Equal(t, 95.0, s.WastePrice)
	})

	t.Run("beyond every tier", func(t *testing.T) {
		s, err := SuggestWastePrice(100, 10, 400, cfg)
		require.NoError(t, err)
		assert.False(t, s.TierMatched)
		assert.Equal(t, 5.0, s.ScheduleDiscount)
	})

	t.Run("fallback capped by max discount", func(t *testing.T) {
		capped := *cfg
		capped.MaxDiscountPercent = 3
		s, err := SuggestWastePrice(100, 10, 6, &capped)
		require.NoError(t, err)
		assert.Equal(t, 3.0, s.ScheduleDiscount)
		assert.Equal(t, 97.0, s.WastePrice)
	})

	t.Run("no tiers at all", func(t *testing.T) {
		empty := &WasteConfiguration{MinMarginPercent: 5, MaxDiscountPercent: 70}
		s, err := SuggestWastePrice(100, 10, 0, empty)
		require.NoError(t, err)
		assert.Equal(t, 5.0, s.ScheduleDiscount)
	})
}

func TestSuggestWastePriceFirstMatchWins(t *testing.T) {
	cfg := &WasteConfiguration{
		AggressionTiers: []AggressionTier{
			{Name: "Wide", MinDays: 0, MaxDays: 10, BaseDiscount: 10, DailyIncrement: 1},
			{Name: "Narrow", MinDays: 5, MaxDays: 10, BaseDiscount: 50, DailyIncrement: 0},
		},
		MinMarginPercent:   0,
		MaxDiscountPercent: 70,
	}

	s, err := SuggestWastePrice(100, 10, 7, cfg)
	require.NoError(t, err)
	assert.Equal(t, "Wide", s.TierName)
	assert.Equal(t, 13.0, s.ScheduleDiscount)
	assert.Equal(t, 87.0, s.WastePrice)
}

func TestSuggestWastePriceNormalizesDiscountedPrice(t *testing.T) {
	// Warning tier at 10 days: 10% + 4 x 1.5% = 16% off 12.40 = 10.416
	s, err := SuggestWastePrice(12.40, 5, 10, DefaultWasteConfiguration())
	require.NoError(t, err)
	assert.Equal(t, 16.0, s.ScheduleDiscount)
	assert.Equal(t, 10.5, s.WastePrice)
	assert.Equal(t, 15.3, s.DiscountPercent)
	assert.Equal(t, 110.0, s.MarginPercent)
}

func TestSuggestWastePriceInvalidInput(t *testing.T) {
	cfg := DefaultWasteConfiguration()

	tests := []struct {
		name    string
		selling float64
		buying  float64
		days    int
		field   string
	}{
		{"zero selling price", 0, 10, 3, "sellingPrice"},
		{"negative selling price", -5, 10, 3, "sellingPrice"},
		{"zero buying price", 10, 0, 3, "buyingPrice"},
		{"negative days", 10, 5, -1, "daysUntilExpiry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SuggestWastePrice(tt.selling, tt.buying, tt.days, cfg)
			var target ErrInvalidInput
			require.ErrorAs(t, err, &target)
			assert.Equal(t, tt.field, target.Field)
		})
	}
}

func TestSuggestWastePriceConfigurationMissing(t *testing.T) {
	_, err := SuggestWastePrice(10, 5, 3, nil)
	assert.True(t, errors.Is(err, ErrConfigurationMissing))
}

func TestWasteConfigurationValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *WasteConfiguration)
		field  string
	}{
		{"max days below min days", func(c *WasteConfiguration) { c.AggressionTiers[1].MaxDays = 2 }, "aggressionTiers[1].maxDays"},
		{"negative min days", func(c *WasteConfiguration) { c.AggressionTiers[0].MinDays = -1 }, "aggressionTiers[0].minDays"},
		{"base discount above 100", func(c *WasteConfiguration) { c.AggressionTiers[2].BaseDiscount = 120 }, "aggressionTiers[2].baseDiscount"},
		{"negative increment", func(c *WasteConfiguration) { c.AggressionTiers[3].DailyIncrement = -0.5 }, "aggressionTiers[3].dailyIncrement"},
		{"max discount above 100", func(c *WasteConfiguration) { c.MaxDiscountPercent = 101 }, "maxDiscountPercent"},
		{"negative min margin", func(c *WasteConfiguration) { c.MinMarginPercent = -1 }, "minMarginPercent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultWasteConfiguration()
			tt.mutate(cfg)

			err := cfg.Validate()
			var target ErrInvalidInput
			require.ErrorAs(t, err, &target)
			assert.Equal(t, tt.field, target.Field)

			_, err = SuggestWastePrice(10, 5, 3, cfg)
			assert.ErrorAs(t, err, &target)
		})
	}

	assert.NoError(t, DefaultWasteConfiguration().Validate())
}

func TestProjectedWasteValue(t *testing.T) {
	assert.Equal(t, 37.5, ProjectedWasteValue(12.5, 3))
	assert.Equal(t, 209.79, ProjectedWasteValue(69.93, 3))
	assert.Equal(t, 0.0, ProjectedWasteValue(12.5, 0))
}
