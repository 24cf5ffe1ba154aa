// internal/services/pricing_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clipcoin/clipcoin-backend/internal/config"
	"github.com/clipcoin/clipcoin-backend/internal/models"
)

func TestQuoteNoSurchargeByDefault(t *testing.T) {
	policy := NewPricingPolicy(config.LedgerConfig{BasePaySurcharge: 0, AmountDecimals: 6})

	for _, method := range []models.PaymentMethod{
		models.PaymentMethodCrypto,
		models.PaymentMethodBasePay,
		models.PaymentMethodCredit,
		models.PaymentMethodFarcaster,
	} {
		quote := policy.Quote(100000, method)
		assert.Equal(t, int64(100000), quote.FinalAmount, "method %s", method)
		assert.False(t, quote.BasePayApplied, "method %s", method)
	}
}

func TestQuoteBasePaySurcharge(t *testing.T) {
	policy := NewPricingPolicy(config.LedgerConfig{BasePaySurcharge: 5000, AmountDecimals: 6})

	quote := policy.Quote(100000, models.PaymentMethodBasePay)
	assert.Equal(t, int64(105000), quote.FinalAmount)
	assert.Equal(t, int64(5000), quote.BasePayAmount)
	assert.True(t, quote.BasePayApplied)

	// Other rails never carry the adjustment.
	quote = policy.Quote(100000, models.PaymentMethodCrypto)
	assert.Equal(t, int64(100000), quote.FinalAmount)
	assert.False(t, quote.BasePayApplied)
}

func TestQuoteMonotonic(t *testing.T) {
	// The adjustment is additive: the final amount never drops below the
	// input for any non-negative constant.
	for _, surcharge := range []int64{0, 1, 5000, 100000} {
		policy := NewPricingPolicy(config.LedgerConfig{BasePaySurcharge: surcharge, AmountDecimals: 6})
		for _, amount := range []int64{1, 100, 100000, 5000000} {
			quote := policy.Quote(amount, models.PaymentMethodBasePay)
			assert.GreaterOrEqual(t, quote.FinalAmount, amount)
			if surcharge == 0 {
				assert.Equal(t, amount, quote.FinalAmount)
			}
		}
	}
}

func TestFormatAmount(t *testing.T) {
	policy := NewPricingPolicy(config.LedgerConfig{AmountDecimals: 6})

	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0"},
		{100000, "0.1"},
		{105000, "0.105"},
		{1000000, "1"},
		{1500000, "1.5"},
		{123, "0.000123"},
		{12345678, "12.345678"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, policy.FormatAmount(tt.amount), "amount %d", tt.amount)
	}
}
