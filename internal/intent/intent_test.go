package intent

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kjannette/cryptochat/internal/registry"
)

func TestExtract(t *testing.T) {
	reg := registry.Default()

	cases := []struct {
		query  string
		assets []string
		intent Intent
	}{
		{"hello there", []string{}, General},
		{"", []string{}, General},
		{"ETH news", []string{"ethereum"}, News},
		{"BTC price", []string{"bitcoin"}, Metrics},
		{"news on price of eth", []string{"ethereum"}, News},
		{"What's the market cap of Solana and Cardano?", []string{"solana", "cardano"}, Metrics},
		{"binancecoin volume", []string{"bnb"}, Metrics},
		{"tell me about ripple", []string{"xrp"}, General},
		{"bitcoin btc BTC Bitcoin", []string{"bitcoin"}, General},
		{"any newsletters?", []string{}, News},
		{"show me data", []string{}, Metrics},
		// "ada" inside an unrelated word still counts as cardano.
		{"canada price", []string{"cardano"}, Metrics},
	}

	for _, tc := range cases {
		got := Extract(reg, tc.query)
		want := Result{Assets: tc.assets, Intent: tc.intent}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Extract(%q) mismatch (-want +got):\n%s", tc.query, diff)
		}
	}
}

func TestExtract_CaseInsensitive(t *testing.T) {
	reg := registry.Default()
	upper := Extract(reg, "I love BTC")
	lower := Extract(reg, "i love btc")

	if diff := cmp.Diff(upper, lower); diff != "" {
		t.Fatalf("case changed the result (-upper +lower):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"bitcoin"}, upper.Assets); diff != "" {
		t.Fatalf("assets mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	reg := registry.Default()
	q := "compare eth, sol, ada, xrp, bnb and btc prices"
	first := Extract(reg, q)
	for range 50 {
		if diff := cmp.Diff(first, Extract(reg, q)); diff != "" {
			t.Fatalf("non-deterministic result:\n%s", diff)
		}
	}
	if len(first.Assets) != 6 {
		t.Fatalf("expected all 6 assets, got %v", first.Assets)
	}
}

func TestExtract_NewsBeatsMetrics(t *testing.T) {
	reg := registry.Default()
	for _, q := range []string{"price news", "NEWS about market cap", "volume data news"} {
		if got := Extract(reg, q).Intent; got != News {
			t.Fatalf("%q: expected news, got %s", q, got)
		}
	}
}
