package chat

import (
	"strings"
	"testing"

	"github.com/kjannette/cryptochat/internal/models"
	"github.com/kjannette/cryptochat/internal/registry"
)

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		v      float64
		places int32
		want   string
	}{
		{65432.1, 2, "$65,432.10"},
		{1.2e12, 0, "$1,200,000,000,000"},
		{3.4e10, 0, "$34,000,000,000"},
		{0, 2, "$0.00"},
		{999, 0, "$999"},
		{1000, 0, "$1,000"},
		{0.4567, 2, "$0.46"},
		{123456.789, 2, "$123,456.79"},
		{-1234.5, 2, "$-1,234.50"},
	}
	for _, tc := range cases {
		if got := FormatUSD(tc.v, tc.places); got != tc.want {
			t.Fatalf("FormatUSD(%v, %d) = %q, want %q", tc.v, tc.places, got, tc.want)
		}
	}
}

func TestRenderSnapshot(t *testing.T) {
	got := RenderSnapshot("bitcoin", "btc", models.MarketSnapshot{
		Price: 65432.1, MarketCap: 1.2e12, Rank: 1, Change24h: -2.34, Volume24h: 3.4e10,
	})

	want := "**Bitcoin (BTC)**\n" +
		"• Price: $65,432.10\n" +
		"• Market Cap: $1,200,000,000,000\n" +
		"• Market Cap Rank: #1\n" +
		"• 24h Change: -2.3%\n" +
		"• 24h Volume: $34,000,000,000\n\n"
	if got != want {
		t.Fatalf("unexpected block:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderMarket_OrderAndSkips(t *testing.T) {
	reg := registry.Default()
	snaps := map[string]models.MarketSnapshot{
		"cardano": {Price: 0.45, Rank: 9},
		"bnb":     {Price: 600, Rank: 4},
	}
	got := RenderMarket(reg, []string{"bnb", "ethereum", "cardano"}, snaps)

	if !strings.HasPrefix(got, "**Current Market Data:**\n\n") {
		t.Fatalf("missing header: %q", got)
	}
	bnb := strings.Index(got, "**Bnb (BNB)**")
	ada := strings.Index(got, "**Cardano (ADA)**")
	if bnb < 0 || ada < 0 || bnb > ada {
		t.Fatalf("blocks missing or out of order:\n%s", got)
	}
	if strings.Contains(got, "Ethereum") {
		t.Fatalf("failed asset should be skipped:\n%s", got)
	}
}

func TestRenderMarket_Empty(t *testing.T) {
	if got := RenderMarket(registry.Default(), []string{"bitcoin"}, nil); got != MsgNoMarketData {
		t.Fatalf("expected fallback message, got %q", got)
	}
}

func TestRenderNews(t *testing.T) {
	got := RenderNews("ethereum", []models.NewsItem{
		{Title: "ETH hits new high", URL: "https://news.example/1", Date: "Mar 05, 2024"},
		{Title: "No title", URL: "", Date: "Mar 04, 2024"},
	})
	want := "**Latest Ethereum News:**\n\n" +
		"• [ETH hits new high](https://news.example/1) (Mar 05, 2024)\n\n" +
		"• [No title]() (Mar 04, 2024)\n\n"
	if got != want {
		t.Fatalf("unexpected news:\n%q\nwant:\n%q", got, want)
	}

	if got := RenderNews("xrp", nil); got != "No recent news found for Xrp" {
		t.Fatalf("unexpected empty message %q", got)
	}
}
