package external

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/kjannette/cryptochat/internal/httputil"
)

const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

type CoinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
}

// CoinMarketData is the subset of /coins/{id} the chat renders.
type CoinMarketData struct {
	MarketCapUSD      float64
	MarketCapRank     int
	PriceChangePct24h float64
	TotalVolumeUSD    float64
}

// NewCoinGeckoClient uses a client without a timeout; callers bound the call
// through ctx.
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoURL
	}
	return &CoinGeckoClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

func (c *CoinGeckoClient) GetCoinMarketData(ctx context.Context, id string) (*CoinMarketData, error) {
	op := "coingecko coin " + id

	var data struct {
		MarketCapRank *int `json:"market_cap_rank"`
		MarketData    *struct {
			MarketCap struct {
				USD *float64 `json:"usd"`
			} `json:"market_cap"`
			PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
			TotalVolume              struct {
				USD *float64 `json:"usd"`
			} `json:"total_volume"`
		} `json:"market_data"`
	}

	err := httputil.GetJSON(ctx, c.httpClient, op, c.baseURL+"/coins/"+url.PathEscape(id), nil, &data)
	if err != nil {
		return nil, err
	}

	md := data.MarketData
	switch {
	case md == nil:
		return nil, httputil.MissingField(op, "market_data")
	case md.MarketCap.USD == nil:
		return nil, httputil.MissingField(op, "market_data.market_cap.usd")
	case md.PriceChangePercentage24h == nil:
		return nil, httputil.MissingField(op, "market_data.price_change_percentage_24h")
	case md.TotalVolume.USD == nil:
		return nil, httputil.MissingField(op, "market_data.total_volume.usd")
	}

	out := &CoinMarketData{
		MarketCapUSD:      *md.MarketCap.USD,
		PriceChangePct24h: *md.PriceChangePercentage24h,
		TotalVolumeUSD:    *md.TotalVolume.USD,
	}
	// Unranked coins report null.
	if data.MarketCapRank != nil {
		out.MarketCapRank = *data.MarketCapRank
	}
	return out, nil
}
