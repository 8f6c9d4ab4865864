// Package app assembles the chat bot from configuration. Both the HTTP server
// and the terminal chat build their bot here.
package app

import (
	"fmt"

	"github.com/kjannette/cryptochat/internal/chat"
	"github.com/kjannette/cryptochat/internal/config"
	"github.com/kjannette/cryptochat/internal/external"
	"github.com/kjannette/cryptochat/internal/llm"
	"github.com/kjannette/cryptochat/internal/market"
	"github.com/kjannette/cryptochat/internal/news"
	"github.com/kjannette/cryptochat/internal/registry"
)

// LoadRegistry returns the built-in asset table unless cfg names a file.
func LoadRegistry(cfg *config.Config) (*registry.Registry, error) {
	if cfg.RegistryFile == "" {
		return registry.Default(), nil
	}
	reg, err := registry.LoadFile(cfg.RegistryFile)
	if err != nil {
		return nil, fmt.Errorf("load registry %s: %w", cfg.RegistryFile, err)
	}
	return reg, nil
}

func NewBot(cfg *config.Config, reg *registry.Registry) *chat.Bot {
	newsFetcher := news.NewFetcher(reg, external.NewCryptoPanicClient(cfg.CryptoPanicURL, cfg.CryptoPanicToken))
	marketFetcher := market.NewFetcher(reg,
		external.NewBinanceClient(cfg.BinanceURL),
		external.NewCoinGeckoClient(cfg.CoinGeckoURL),
	)
	assistant := llm.NewAssistant(llm.NewModel(llm.Options{
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
		APIKey:  cfg.LLMAPIKey,
	}))
	return chat.NewBot(reg, newsFetcher, marketFetcher, assistant)
}
