// Package intent classifies a free-text query into the assets it mentions and
// what the user wants to know about them.
package intent

import (
	"strings"

	"github.com/kjannette/cryptochat/internal/registry"
)

type Intent string

const (
	News    Intent = "news"
	Metrics Intent = "metrics"
	General Intent = "general"
)

// metricTerms are checked only when "news" is absent.
var metricTerms = []string{"price", "market", "data", "volume", "cap"}

type Result struct {
	Assets []string `json:"assets"`
	Intent Intent   `json:"intent"`
}

// Extract matches every registry entry whose key, provider id or any symbol
// occurs as a substring of the lower-cased query. Assets come back in
// registry order, each at most once. Substring hits inside unrelated words
// count as mentions.
func Extract(reg *registry.Registry, query string) Result {
	q := strings.ToLower(query)

	res := Result{Assets: []string{}, Intent: classify(q)}
	for _, a := range reg.All() {
		if mentions(q, a) {
			res.Assets = append(res.Assets, a.Key)
		}
	}
	return res
}

func mentions(q string, a registry.AssetDescriptor) bool {
	if strings.Contains(q, a.Key) || strings.Contains(q, a.PriceProviderID) {
		return true
	}
	for _, s := range a.Symbols {
		if strings.Contains(q, s) {
			return true
		}
	}
	return false
}

func classify(q string) Intent {
	if strings.Contains(q, "news") {
		return News
	}
	for _, term := range metricTerms {
		if strings.Contains(q, term) {
			return Metrics
		}
	}
	return General
}
