// internal/services/pricing.go
package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clipcoin/clipcoin-backend/internal/config"
	"github.com/clipcoin/clipcoin-backend/internal/models"
)

// PriceQuote is the outcome of applying the pricing policy to an amount.
// The Base Pay rail carries a flat additive adjustment; despite the
// "discount" naming in older clients it is a surcharge, and FinalAmount is
// never below the input when the configured constant is non-negative.
type PriceQuote struct {
	FinalAmount    int64 `json:"finalAmount"`
	BasePayAmount  int64 `json:"basePayAmount"`
	BasePayApplied bool  `json:"basePayApplied"`
}

// PricingPolicy is a pure, deterministic function of its configuration.
type PricingPolicy struct {
	surcharge int64
	decimals  int
}

func NewPricingPolicy(cfg config.LedgerConfig) *PricingPolicy {
	return &PricingPolicy{
		surcharge: cfg.BasePaySurcharge,
		decimals:  cfg.AmountDecimals,
	}
}

func (p *PricingPolicy) Quote(amount int64, method models.PaymentMethod) PriceQuote {
	quote := PriceQuote{FinalAmount: amount}

	if method == models.PaymentMethodBasePay && p.surcharge > 0 {
		quote.FinalAmount = amount + p.surcharge
		quote.BasePayAmount = p.surcharge
		quote.BasePayApplied = true
	}

	return quote
}

// FormatAmount renders a smallest-unit amount in reference currency,
// e.g. 100000 at six decimals -> "0.1".
func (p *PricingPolicy) FormatAmount(amount int64) string {
	if amount == 0 {
		return "0"
	}

	divisor := int64(1)
	for i := 0; i < p.decimals; i++ {
		divisor *= 10
	}

	whole := amount / divisor
	frac := amount % divisor
	if frac == 0 {
		return strconv.FormatInt(whole, 10)
	}

	fracStr := strconv.FormatInt(frac, 10)
	fracStr = strings.Repeat("0", p.decimals-len(fracStr)) + fracStr
	fracStr = strings.TrimRight(fracStr, "0")

	return fmt.Sprintf("%d.%s", whole, fracStr)
}
