package services

import (
	"log"
	"math"
	"strconv"
	"sync"

	config "github.com/masarhq/masar_backend/configs"
)

// Course prices are stored in USD; learners pay in Sudanese pounds. The
// USD to SDG factor is configured rather than fetched live, so every surface
// (payment instructions, commissions) quotes the same number.
const defaultSDGPerUSD = 350.0

var (
	factorOnce   sync.Once
	cachedFactor float64
)

// CurrencyFactor returns the configured SDG-per-USD rate, falling back to the
// default when SDG_PER_USD is unset or unparseable.
func CurrencyFactor() float64 {
	factorOnce.Do(func() {
		cachedFactor = defaultSDGPerUSD
		raw := config.Config("SDG_PER_USD")
		if raw == "" {
			return
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f <= 0 {
			log.Printf("Warning: invalid SDG_PER_USD %q, using default %.0f", raw, defaultSDGPerUSD)
			return
		}
		cachedFactor = f
	})
	return cachedFactor
}

// AmountSDG converts a USD course price to whole Sudanese pounds, rounded
// the same way commissions are.
func AmountSDG(amountUSD float64) int64 {
	return amountSDG(amountUSD, CurrencyFactor())
}

func amountSDG(amountUSD, factor float64) int64 {
	return int64(math.Round(amountUSD * factor))
}
