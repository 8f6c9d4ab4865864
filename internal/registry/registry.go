package registry

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AssetDescriptor maps a canonical asset key to its ticker symbols, the
// exchange trading pair and the CoinGecko id.
type AssetDescriptor struct {
	Key             string   `yaml:"key" json:"key"`
	Symbols         []string `yaml:"symbols" json:"symbols"`
	ExchangePair    string   `yaml:"exchange_pair" json:"exchangePair"`
	PriceProviderID string   `yaml:"price_provider_id" json:"priceProviderId"`
}

// PrimarySymbol returns the first symbol, or the key when none is set.
func (a AssetDescriptor) PrimarySymbol() string {
	if len(a.Symbols) == 0 {
		return a.Key
	}
	return a.Symbols[0]
}

// Registry is a read-only asset table. Build it once with New, Default or
// LoadFile and share it; nothing mutates it afterwards.
type Registry struct {
	assets []AssetDescriptor
	byKey  map[string]int
}

var defaultAssets = []AssetDescriptor{
	{Key: "bitcoin", Symbols: []string{"btc"}, ExchangePair: "BTCUSDT", PriceProviderID: "bitcoin"},
	{Key: "ethereum", Symbols: []string{"eth"}, ExchangePair: "ETHUSDT", PriceProviderID: "ethereum"},
	{Key: "solana", Symbols: []string{"sol"}, ExchangePair: "SOLUSDT", PriceProviderID: "solana"},
	{Key: "bnb", Symbols: []string{"bnb"}, ExchangePair: "BNBUSDT", PriceProviderID: "binancecoin"},
	{Key: "xrp", Symbols: []string{"xrp"}, ExchangePair: "XRPUSDT", PriceProviderID: "ripple"},
	{Key: "cardano", Symbols: []string{"ada"}, ExchangePair: "ADAUSDT", PriceProviderID: "cardano"},
}

// Default returns the built-in six-asset registry.
func Default() *Registry {
	r, err := New(defaultAssets)
	if err != nil {
		panic(fmt.Sprintf("registry: built-in table invalid: %v", err))
	}
	return r
}

// New validates and freezes the given descriptors. Keys, symbols and
// provider ids are lower-cased; exchange pairs are upper-cased.
func New(assets []AssetDescriptor) (*Registry, error) {
	if len(assets) == 0 {
		return nil, errors.New("registry: no assets")
	}

	r := &Registry{
		assets: make([]AssetDescriptor, 0, len(assets)),
		byKey:  make(map[string]int, len(assets)),
	}

	// Every matching term belongs to exactly one asset.
	owners := make(map[string]string)

	var errs []string
	for i, a := range assets {
		d := AssetDescriptor{
			Key:             strings.ToLower(strings.TrimSpace(a.Key)),
			ExchangePair:    strings.ToUpper(strings.TrimSpace(a.ExchangePair)),
			PriceProviderID: strings.ToLower(strings.TrimSpace(a.PriceProviderID)),
		}
		for _, s := range a.Symbols {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				d.Symbols = append(d.Symbols, s)
			}
		}

		switch {
		case d.Key == "":
			errs = append(errs, fmt.Sprintf("asset %d: key is required", i))
			continue
		case len(d.Symbols) == 0:
			errs = append(errs, fmt.Sprintf("%s: at least one symbol is required", d.Key))
		case d.ExchangePair == "":
			errs = append(errs, fmt.Sprintf("%s: exchange_pair is required", d.Key))
		case d.PriceProviderID == "":
			errs = append(errs, fmt.Sprintf("%s: price_provider_id is required", d.Key))
		}
		if _, dup := r.byKey[d.Key]; dup {
			errs = append(errs, fmt.Sprintf("%s: duplicate key", d.Key))
			continue
		}
		for _, term := range append([]string{d.Key, d.PriceProviderID}, d.Symbols...) {
			if term == "" {
				continue
			}
			if owner, taken := owners[term]; taken && owner != d.Key {
				errs = append(errs, fmt.Sprintf("%s: term %q already used by %s", d.Key, term, owner))
				continue
			}
			owners[term] = d.Key
		}

		r.byKey[d.Key] = len(r.assets)
		r.assets = append(r.assets, d)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("registry validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return r, nil
}

type fileFormat struct {
	Assets []AssetDescriptor `yaml:"assets"`
}

// LoadFile reads a YAML asset table:
//
//	assets:
//	  - key: bitcoin
//	    symbols: [btc]
//	    exchange_pair: BTCUSDT
//	    price_provider_id: bitcoin
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Registry, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse registry yaml: %w", err)
	}
	return New(f.Assets)
}

func (r *Registry) Get(key string) (AssetDescriptor, bool) {
	i, ok := r.byKey[strings.ToLower(key)]
	if !ok {
		return AssetDescriptor{}, false
	}
	return r.assets[i].clone(), true
}

// All returns every descriptor in definition order.
func (r *Registry) All() []AssetDescriptor {
	out := make([]AssetDescriptor, len(r.assets))
	for i, a := range r.assets {
		out[i] = a.clone()
	}
	return out
}

func (r *Registry) Keys() []string {
	out := make([]string, len(r.assets))
	for i, a := range r.assets {
		out[i] = a.Key
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.assets)
}

func (a AssetDescriptor) clone() AssetDescriptor {
	a.Symbols = append([]string(nil), a.Symbols...)
	return a
}
