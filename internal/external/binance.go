package external

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kjannette/cryptochat/internal/httputil"
)

const DefaultBinanceURL = "https://api.binance.com/api/v3"

type BinanceClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBinanceClient(baseURL string) *BinanceClient {
	if baseURL == "" {
		baseURL = DefaultBinanceURL
	}
	return &BinanceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// GetLastPrice returns lastPrice from the 24hr ticker statistics of pair.
// Binance encodes prices as decimal strings.
func (c *BinanceClient) GetLastPrice(ctx context.Context, pair string) (float64, error) {
	op := "binance ticker " + pair

	var data struct {
		LastPrice *string `json:"lastPrice"`
	}
	err := httputil.GetJSON(ctx, c.httpClient, op, c.baseURL+"/ticker/24hr", url.Values{"symbol": {pair}}, &data)
	if err != nil {
		return 0, err
	}
	if data.LastPrice == nil {
		return 0, httputil.MissingField(op, "lastPrice")
	}

	d, err := decimal.NewFromString(*data.LastPrice)
	if err != nil {
		return 0, httputil.Conversion(op, "lastPrice", err)
	}
	if d.IsNegative() {
		return 0, httputil.Conversion(op, "lastPrice", errors.New("negative price "+d.String()))
	}
	f, _ := d.Float64()
	return f, nil
}
