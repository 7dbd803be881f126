package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestCalculateSellPrice(t *testing.T) {
	tests := []struct {
		name       string
		competitor float64
		index      *float64
		status     SellPriceStatus
		price      float64
	}{
		{"index 100 passes through", 50, ptr(100), StatusPriced, 50},
		{"index 100 keeps odd cents", 49.37, ptr(100), StatusPriced, 49.37},
		{"index below 100 rounds to .99", 50, ptr(95), StatusPriced, 47.99},
		{"whole result kept", 50, ptr(90), StatusPriced, 45},
		{"index above 100 rounds to .50", 10, ptr(104), StatusPriced, 10.5},
		{"zero competitor price is a real price", 0, ptr(95), StatusPriced, 0},
		{"zero index is a real price", 35, ptr(0), StatusPriced, 0},
		{"missing index", 50, nil, StatusMissingIndex, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSellPrice(tt.competitor, tt.index)
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.price, got.Price)
			assert.Equal(t, tt.status == StatusPriced, got.Priced())
		})
	}
}

func TestCalculateSellPriceUnsetIsNotZero(t *testing.T) {
	unset, err := CalculateSellPrice(50, nil)
	require.NoError(t, err)
	zero, err := CalculateSellPrice(50, ptr(0))
	require.NoError(t, err)

	assert.False(t, unset.Priced())
	assert.True(t, zero.Priced())
	assert.NotEqual(t, unset, zero)
}

func TestCalculateSellPriceInvalidInput(t *testing.T) {
	var target ErrInvalidInput

	_, err := CalculateSellPrice(-1, ptr(100))
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "competitorPrice", target.Field)

	_, err = CalculateSellPrice(10, ptr(-5))
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "indexValue", target.Field)
}

func TestCalculateLocationSellPrice(t *testing.T) {
	tests := []struct {
		name       string
		competitor float64
		index      *float64
		location   string
		status     SellPriceStatus
		price      float64
	}{
		{"missing both", 10, nil, "", StatusMissingBoth, 0},
		{"missing location", 10, ptr(100), "  ", StatusMissingLocation, 0},
		{"missing index", 10, nil, "izmir", StatusMissingIndex, 0},
		{"izmir at index 100", 100, ptr(100), "izmir", StatusPriced, 98},
		{"izmir rounds adjusted price to cents", 10.15, ptr(100), "izmir", StatusPriced, 9.99},
		{"ankara below index", 10, ptr(90), "ankara", StatusPriced, 8.99},
		{"unknown location uses identity", 20, ptr(80), "trabzon", StatusPriced, 16},
		{"istanbul baseline", 12.2, ptr(100), "Istanbul", StatusPriced, 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateLocationSellPrice(tt.competitor, tt.index, tt.location)
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.price, got.Price)
		})
	}
}

func TestLocationMultiplier(t *testing.T) {
	assert.Equal(t, 0.98, LocationMultiplier("İzmir"))
	assert.Equal(t, 1.0, LocationMultiplier(" ISTANBUL "))
	assert.Equal(t, 0.90, LocationMultiplier("gaziantep"))
	assert.Equal(t, 1.0, LocationMultiplier("rize"))
	assert.Len(t, Locations(), 8)
	assert.Equal(t, "adana", Locations()[0])
}

func TestUnsetStatus(t *testing.T) {
	assert.Equal(t, StatusPriced, UnsetStatus(true, true))
	assert.Equal(t, StatusMissingLocation, UnsetStatus(false, true))
	assert.Equal(t, StatusMissingIndex, UnsetStatus(true, false))
	assert.Equal(t, StatusMissingBoth, UnsetStatus(false, false))
}

func TestSellPriceStatusMessagesAreDistinct(t *testing.T) {
	seen := map[string]SellPriceStatus{}
	for _, s := range []SellPriceStatus{StatusMissingLocation, StatusMissingIndex, StatusMissingBoth} {
		msg := s.Message()
		require.NotEmpty(t, msg)
		_, dup := seen[msg]
		assert.False(t, dup, "message for %s reused", s)
		seen[msg] = s
	}
	assert.Empty(t, StatusPriced.Message())
}
