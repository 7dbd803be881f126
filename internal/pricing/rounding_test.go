package pricing

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"whole price kept", 10.00, 10.00},
		{"zero kept", 0, 0},
		{"small fraction to .50", 10.40, 10.50},
		{"just below half", 10.49, 10.50},
		{"half goes to .99", 10.50, 10.99},
		{"just above half", 10.51, 10.99},
		{"large fraction", 10.60, 10.99},
		{"one cent", 0.01, 0.50},
		{"already .99", 24.99, 24.99},
		{"margin floor value", 99.75, 99.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePrice(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizePriceEndings(t *testing.T) {
	allowed := []decimal.Decimal{
		decimal.Zero,
		decimal.RequireFromString("0.5"),
		decimal.RequireFromString("0.99"),
	}

	for cents := 0; cents <= 5000; cents += 7 {
		price := float64(cents) / 100
		got, err := NormalizePrice(price)
		require.NoError(t, err)

		d := decimal.NewFromFloat(got)
		frac := d.Sub(d.Floor())
		matched := false
		for _, a := range allowed {
			if frac.Equal(a) {
				matched = true
				break
			}
		}
		assert.True(t, matched, "NormalizePrice(%v) = %v has fraction %s", price, got, frac)
		assert.GreaterOrEqual(t, got, price, "NormalizePrice(%v) went down", price)
	}
}

func TestNormalizePriceFixedPoints(t *testing.T) {
	// .00 and .99 endings are stable under a second pass.
	for _, price := range []float64{3, 7.8, 3.7, 18.99, 120.51} {
		once, err := NormalizePrice(price)
		require.NoError(t, err)
		twice, err := NormalizePrice(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "price %v", price)
	}

	// A .50 ending sits on the tie boundary and moves up to .99.
	once, err := NormalizePrice(10.4)
	require.NoError(t, err)
	assert.Equal(t, 10.5, once)
	twice, err := NormalizePrice(once)
	require.NoError(t, err)
	assert.Equal(t, 10.99, twice)
}

func TestNormalizePriceRejectsInvalidInput(t *testing.T) {
	for _, price := range []float64{-0.01, -10, math.NaN(), math.Inf(1)} {
		_, err := NormalizePrice(price)
		var target ErrInvalidInput
		require.ErrorAs(t, err, &target, "price %v", price)
		assert.Equal(t, "price", target.Field)
	}
}

func TestRoundHelpers(t *testing.T) {
	assert.Equal(t, 16.7, Round1(16.666666))
	assert.Equal(t, 0.1, Round1(0.05))
	assert.Equal(t, 2.68, Round2(2.675))
	assert.Equal(t, 9.95, Round2(9.947))
}
