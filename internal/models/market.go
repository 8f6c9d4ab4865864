package models

// MarketSnapshot merges the exchange ticker with CoinGecko market data for
// one asset. It is only built when both upstream calls succeed.
type MarketSnapshot struct {
	Price     float64 `json:"price"`
	MarketCap float64 `json:"marketCap"`
	Rank      int     `json:"rank"`
	Change24h float64 `json:"change24h"` // percent
	Volume24h float64 `json:"volume24h"`
}
