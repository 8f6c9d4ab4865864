// Package market merges exchange ticker prices with CoinGecko market data.
package market

import (
	"context"
	"fmt"

	"github.com/kjannette/cryptochat/internal/external"
	"github.com/kjannette/cryptochat/internal/models"
	"github.com/kjannette/cryptochat/internal/registry"
)

// PriceSource is implemented by *external.BinanceClient.
type PriceSource interface {
	GetLastPrice(ctx context.Context, pair string) (float64, error)
}

// MarketDataSource is implemented by *external.CoinGeckoClient.
type MarketDataSource interface {
	GetCoinMarketData(ctx context.Context, id string) (*external.CoinMarketData, error)
}

type Fetcher struct {
	reg    *registry.Registry
	prices PriceSource
	data   MarketDataSource
}

func NewFetcher(reg *registry.Registry, prices PriceSource, data MarketDataSource) *Fetcher {
	return &Fetcher{reg: reg, prices: prices, data: data}
}

// Snapshots fetches every key one after another. A failing asset lands in
// the error map and does not stop the others; a snapshot is only present
// when both upstream calls for that asset succeeded.
func (f *Fetcher) Snapshots(ctx context.Context, keys []string) (map[string]models.MarketSnapshot, map[string]error) {
	out := make(map[string]models.MarketSnapshot, len(keys))
	errs := make(map[string]error)

	for _, key := range keys {
		if _, done := out[key]; done {
			continue
		}
		snap, err := f.Snapshot(ctx, key)
		if err != nil {
			errs[key] = err
			continue
		}
		out[key] = snap
	}
	return out, errs
}

func (f *Fetcher) Snapshot(ctx context.Context, key string) (models.MarketSnapshot, error) {
	a, ok := f.reg.Get(key)
	if !ok {
		return models.MarketSnapshot{}, fmt.Errorf("unknown asset %q", key)
	}

	price, err := f.prices.GetLastPrice(ctx, a.ExchangePair)
	if err != nil {
		return models.MarketSnapshot{}, err
	}
	md, err := f.data.GetCoinMarketData(ctx, a.PriceProviderID)
	if err != nil {
		return models.MarketSnapshot{}, err
	}

	return models.MarketSnapshot{
		Price:     price,
		MarketCap: md.MarketCapUSD,
		Rank:      md.MarketCapRank,
		Change24h: md.PriceChangePct24h,
		Volume24h: md.TotalVolumeUSD,
	}, nil
}
