package chat

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kjannette/cryptochat/internal/models"
	"github.com/kjannette/cryptochat/internal/registry"
)

const (
	MsgNewsNeedsAsset    = "Please specify a cryptocurrency for news updates."
	MsgMetricsNeedsAsset = "Please specify a cryptocurrency for market data."
	MsgNoMarketData      = "Could not retrieve market data at this time."
	MsgAssistantDown     = "Sorry, I couldn't reach the language model right now. Please try again later."
)

// DisplayName title-cases an asset key ("bitcoin" -> "Bitcoin").
func DisplayName(key string) string {
	return cases.Title(language.English).String(key)
}

func RenderNews(key string, items []models.NewsItem) string {
	name := DisplayName(key)
	if len(items) == 0 {
		return "No recent news found for " + name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Latest %s News:**\n\n", name)
	for _, it := range items {
		fmt.Fprintf(&b, "• [%s](%s) (%s)\n\n", it.Title, it.URL, it.Date)
	}
	return b.String()
}

// RenderMarket renders one block per key that has a snapshot, in key order.
func RenderMarket(reg *registry.Registry, keys []string, snaps map[string]models.MarketSnapshot) string {
	if len(snaps) == 0 {
		return MsgNoMarketData
	}

	var b strings.Builder
	b.WriteString("**Current Market Data:**\n\n")
	for _, key := range keys {
		s, ok := snaps[key]
		if !ok {
			continue
		}
		symbol := key
		if a, ok := reg.Get(key); ok {
			symbol = a.PrimarySymbol()
		}
		b.WriteString(RenderSnapshot(key, symbol, s))
	}
	return b.String()
}

func RenderSnapshot(key, symbol string, s models.MarketSnapshot) string {
	return fmt.Sprintf("**%s (%s)**\n"+
		"• Price: %s\n"+
		"• Market Cap: %s\n"+
		"• Market Cap Rank: #%d\n"+
		"• 24h Change: %.1f%%\n"+
		"• 24h Volume: %s\n\n",
		DisplayName(key), strings.ToUpper(symbol),
		FormatUSD(s.Price, 2),
		FormatUSD(s.MarketCap, 0),
		s.Rank,
		s.Change24h,
		FormatUSD(s.Volume24h, 0),
	)
}

// FormatUSD renders v with a dollar sign, thousands separators and a fixed
// number of decimal places: FormatUSD(65432.1, 2) == "$65,432.10".
func FormatUSD(v float64, places int32) string {
	s := decimal.NewFromFloat(v).StringFixed(places)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString("$")
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}
