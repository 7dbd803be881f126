package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// fallbackDiscount is applied when the days until expiry fall outside every tier.
const fallbackDiscount = 5.0

// AggressionTier is one row of the markdown schedule.
// BaseDiscount applies at MaxDays and grows by DailyIncrement for every day closer to expiry.
type AggressionTier struct {
	Name           string  `json:"name" bson:"name"`
	MinDays        int     `json:"minDays" bson:"minDays"`
	MaxDays        int     `json:"maxDays" bson:"maxDays"`
	BaseDiscount   float64 `json:"baseDiscount" bson:"baseDiscount"`
	DailyIncrement float64 `json:"dailyIncrement" bson:"dailyIncrement"`
}

// Contains reports whether days falls inside the tier's inclusive bounds.
func (t AggressionTier) Contains(days int) bool {
	return t.MinDays <= days && days <= t.MaxDays
}

// WasteConfiguration is the markdown schedule plus its margin and discount limits.
// Tier order matters: the first tier containing the day count wins.
type WasteConfiguration struct {
	AggressionTiers    []AggressionTier `json:"aggressionTiers" bson:"aggressionTiers"`
	MinMarginPercent   float64          `json:"minMarginPercent" bson:"minMarginPercent"`
	MaxDiscountPercent float64          `json:"maxDiscountPercent" bson:"maxDiscountPercent"`
}

// DefaultWasteConfiguration returns the schedule used when none has been stored yet.
func DefaultWasteConfiguration() *WasteConfiguration {
	return &WasteConfiguration{
		AggressionTiers: []AggressionTier{
			{Name: "Critical (0-3 days)", MinDays: 0, MaxDays: 3, BaseDiscount: 40, DailyIncrement: 5},
			{Name: "Urgent (4-7 days)", MinDays: 4, MaxDays: 7, BaseDiscount: 20, DailyIncrement: 5},
			{Name: "Warning (8-14 days)", MinDays: 8, MaxDays: 14, BaseDiscount: 10, DailyIncrement: 1.5},
			{Name: "Safe (15+ days)", MinDays: 15, MaxDays: 999, BaseDiscount: 5, DailyIncrement: 0.5},
		},
		MinMarginPercent:   5,
		MaxDiscountPercent: 70,
	}
}

// Validate checks the limits and every tier. Overlapping or non-contiguous tiers are allowed.
func (c *WasteConfiguration) Validate() error {
	if err := checkAmount("minMarginPercent", c.MinMarginPercent, false); err != nil {
		return err
	}
	if err := checkAmount("maxDiscountPercent", c.MaxDiscountPercent, false); err != nil {
		return err
	}
	if c.MaxDiscountPercent > 100 {
		return ErrInvalidInput{Field: "maxDiscountPercent", Reason: "must not exceed 100"}
	}

	for i, t := range c.AggressionTiers {
		field := fmt.Sprintf("aggressionTiers[%d]", i)
		if t.MinDays < 0 {
			return ErrInvalidInput{Field: field + ".minDays", Reason: "must not be negative"}
		}
		if t.MaxDays < t.MinDays {
			return ErrInvalidInput{Field: field + ".maxDays", Reason: "must be >= minDays"}
		}
		if err := checkAmount(field+".baseDiscount", t.BaseDiscount, false); err != nil {
			return err
		}
		if t.BaseDiscount > 100 {
			return ErrInvalidInput{Field: field + ".baseDiscount", Reason: "must not exceed 100"}
		}
		if err := checkAmount(field+".dailyIncrement", t.DailyIncrement, false); err != nil {
			return err
		}
	}
	return nil
}

// MatchTier returns the first tier containing days.
func (c *WasteConfiguration) MatchTier(days int) (AggressionTier, bool) {
	for _, t := range c.AggressionTiers {
		if t.Contains(days) {
			return t, true
		}
	}
	return AggressionTier{}, false
}

// scheduleDiscount returns the clamped schedule discount for days and the tier it came from.
func (c *WasteConfiguration) scheduleDiscount(days int) (decimal.Decimal, *AggressionTier) {
	maxDiscount := decimal.NewFromFloat(c.MaxDiscountPercent)

	tier, ok := c.MatchTier(days)
	if !ok {
		return decimal.Min(decimal.NewFromFloat(fallbackDiscount), maxDiscount), nil
	}

	daysFromMax := decimal.NewFromInt(int64(tier.MaxDays - days))
	raw := decimal.NewFromFloat(tier.BaseDiscount).
		Add(daysFromMax.Mul(decimal.NewFromFloat(tier.DailyIncrement)))

	return decimal.Min(raw, maxDiscount), &tier
}

// WasteSuggestion is the engine output for one product.
type WasteSuggestion struct {
	WastePrice      float64 `json:"wastePrice"`
	DiscountPercent float64 `json:"discountPercent"`
	MarginPercent   float64 `json:"marginPercent"`

	// ScheduleDiscount is the clamped discount from the schedule, before the margin floor.
	ScheduleDiscount   float64 `json:"scheduleDiscount"`
	TierName           string  `json:"tierName,omitempty"`
	TierMatched        bool    `json:"tierMatched"`
	MarginFloorApplied bool    `json:"marginFloorApplied"`
}

// SuggestWastePrice computes the markdown price for a product expiring in daysUntilExpiry
// days. The schedule discount is capped at MaxDiscountPercent, the price is normalized and
// then raised to the minimum margin over buyingPrice when needed. Discount and margin are
// reported from the final price, rounded to one decimal.
func SuggestWastePrice(sellingPrice, buyingPrice float64, daysUntilExpiry int, cfg *WasteConfiguration) (*WasteSuggestion, error) {
	if cfg == nil {
		return nil, ErrConfigurationMissing
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkAmount("sellingPrice", sellingPrice, true); err != nil {
		return nil, err
	}
	if err := checkAmount("buyingPrice", buyingPrice, true); err != nil {
		return nil, err
	}
	if daysUntilExpiry < 0 {
		return nil, ErrInvalidInput{Field: "daysUntilExpiry", Reason: "must not be negative"}
	}

	selling := decimal.NewFromFloat(sellingPrice)
	buying := decimal.NewFromFloat(buyingPrice)

	discount, tier := cfg.scheduleDiscount(daysUntilExpiry)
	waste := normalize(selling.Mul(one.Sub(discount.Div(hundred))))

	s := &WasteSuggestion{ScheduleDiscount: discount.InexactFloat64()}
	if tier != nil {
		s.TierName = tier.Name
		s.TierMatched = true
	}

	minAllowed := buying.Mul(one.Add(decimal.NewFromFloat(cfg.MinMarginPercent).Div(hundred)))
	if waste.LessThan(minAllowed) {
		waste = normalize(minAllowed)
		// a fraction above .99 normalizes downwards
		if waste.LessThan(minAllowed) {
			waste = minAllowed.Ceil()
		}
		s.MarginFloorApplied = true
	}

	s.WastePrice = waste.InexactFloat64()
	s.DiscountPercent = selling.Sub(waste).Div(selling).Mul(hundred).Round(1).InexactFloat64()
	s.MarginPercent = waste.Sub(buying).Div(buying).Mul(hundred).Round(1).InexactFloat64()
	return s, nil
}

// ProjectedWasteValue is the revenue expected from selling quantity units at wastePrice.
func ProjectedWasteValue(wastePrice float64, quantity int) float64 {
	if quantity <= 0 {
		return 0
	}
	return decimal.NewFromFloat(wastePrice).Mul(decimal.NewFromInt(int64(quantity))).Round(2).InexactFloat64()
}
