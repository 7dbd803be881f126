package pricing

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// matchIndex is the index value meaning "sell at the competitor's price".
const matchIndex = 100

var locationMultipliers = map[string]float64{
	"istanbul":  1.00,
	"izmir":     0.98,
	"antalya":   1.02,
	"bursa":     0.97,
	"ankara":    0.95,
	"konya":     0.92,
	"adana":     0.93,
	"gaziantep": 0.90,
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(location), "İ", "i"))
}

// LocationMultiplier returns the regional price adjustment for location.
// Unknown locations are priced like Istanbul.
func LocationMultiplier(location string) float64 {
	if m, ok := locationMultipliers[normalizeLocation(location)]; ok {
		return m
	}
	return 1.0
}

// Locations returns the pricing locations with a known multiplier, sorted.
func Locations() []string {
	out := make([]string, 0, len(locationMultipliers))
	for l := range locationMultipliers {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// SellPriceStatus tells whether a sell price could be computed and, if not, what is missing.
type SellPriceStatus string

const (
	StatusPriced          SellPriceStatus = "priced"
	StatusMissingLocation SellPriceStatus = "missing_location"
	StatusMissingIndex    SellPriceStatus = "missing_index"
	StatusMissingBoth     SellPriceStatus = "missing_location_and_index"
)

// Message is the explanation shown in place of a price.
func (s SellPriceStatus) Message() string {
	switch s {
	case StatusPriced:
		return ""
	case StatusMissingLocation:
		return "No pricing location configured for this segment"
	case StatusMissingIndex:
		return "No index value configured for this segment, KVI type, competitor and channel"
	case StatusMissingBoth:
		return "Pricing location and index value are not configured"
	default:
		return "Unknown pricing status"
	}
}

// UnsetStatus picks the status for the preconditions at hand.
func UnsetStatus(hasLocation, hasIndex bool) SellPriceStatus {
	switch {
	case !hasLocation && !hasIndex:
		return StatusMissingBoth
	case !hasLocation:
		return StatusMissingLocation
	case !hasIndex:
		return StatusMissingIndex
	default:
		return StatusPriced
	}
}

// SellPrice is the result of an index calculation. Price is meaningful only when
// Status is StatusPriced; a priced zero is a real price.
type SellPrice struct {
	Status SellPriceStatus `json:"status"`
	Price  float64         `json:"price"`
}

// Priced reports whether a price was computed.
func (p SellPrice) Priced() bool {
	return p.Status == StatusPriced
}

// CalculateSellPrice applies index (percent of competitor price) to a competitor price that
// was already observed in the right location. A nil index means no index is configured.
// An index of exactly 100 returns the competitor price as is, without retail rounding.
func CalculateSellPrice(competitorPrice float64, index *float64) (SellPrice, error) {
	if err := checkIndexInputs(competitorPrice, index); err != nil {
		return SellPrice{}, err
	}
	if index == nil {
		return SellPrice{Status: StatusMissingIndex}, nil
	}
	if *index == matchIndex {
		return SellPrice{Status: StatusPriced, Price: competitorPrice}, nil
	}

	base := decimal.NewFromFloat(competitorPrice).Mul(decimal.NewFromFloat(*index)).Div(hundred)
	return SellPrice{Status: StatusPriced, Price: normalize(base).InexactFloat64()}, nil
}

// CalculateLocationSellPrice prices against a national competitor price: it first scales the
// competitor price by the location multiplier (rounded to cents), then applies the index and
// retail rounding. An empty location or nil index yields the matching unset status.
func CalculateLocationSellPrice(competitorPrice float64, index *float64, location string) (SellPrice, error) {
	if err := checkIndexInputs(competitorPrice, index); err != nil {
		return SellPrice{}, err
	}

	hasLocation := strings.TrimSpace(location) != ""
	if status := UnsetStatus(hasLocation, index != nil); status != StatusPriced {
		return SellPrice{Status: status}, nil
	}

	adjusted := decimal.NewFromFloat(competitorPrice).
		Mul(decimal.NewFromFloat(LocationMultiplier(location))).
		Round(2)
	base := adjusted.Mul(decimal.NewFromFloat(*index)).Div(hundred)
	return SellPrice{Status: StatusPriced, Price: normalize(base).InexactFloat64()}, nil
}

func checkIndexInputs(competitorPrice float64, index *float64) error {
	if err := checkAmount("competitorPrice", competitorPrice, false); err != nil {
		return err
	}
	if index != nil {
		if err := checkAmount("indexValue", *index, false); err != nil {
			return err
		}
	}
	return nil
}
