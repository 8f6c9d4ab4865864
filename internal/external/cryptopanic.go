package external

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/kjannette/cryptochat/internal/httputil"
)

const DefaultCryptoPanicURL = "https://cryptopanic.com/api/v1/posts/"

type CryptoPanicClient struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// CryptoPanicPost mirrors one entry of the posts "results" array. Absent
// fields decode as nil.
type CryptoPanicPost struct {
	Title     *string `json:"title"`
	URL       *string `json:"url"`
	CreatedAt *string `json:"created_at"`
}

// NewCryptoPanicClient does not validate authToken; an empty token is sent
// as-is and rejected upstream.
func NewCryptoPanicClient(baseURL, authToken string) *CryptoPanicClient {
	if baseURL == "" {
		baseURL = DefaultCryptoPanicURL
	}
	return &CryptoPanicClient{
		baseURL:    baseURL,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetNews lists public news posts for a currency code such as "BTC", in
// upstream order.
func (c *CryptoPanicClient) GetNews(ctx context.Context, currency string) ([]CryptoPanicPost, error) {
	params := url.Values{
		"auth_token": {c.authToken},
		"currencies": {currency},
		"kind":       {"news"},
		"public":     {"true"},
	}

	var data struct {
		Results []CryptoPanicPost `json:"results"`
	}
	if err := httputil.GetJSON(ctx, c.httpClient, "cryptopanic posts "+currency, c.baseURL, params, &data); err != nil {
		return nil, err
	}
	return data.Results, nil
}
