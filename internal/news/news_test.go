package news

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kjannette/cryptochat/internal/external"
	"github.com/kjannette/cryptochat/internal/models"
	"github.com/kjannette/cryptochat/internal/registry"
)

type fakeSource struct {
	posts    []external.CryptoPanicPost
	err      error
	requests []string
}

func (f *fakeSource) GetNews(_ context.Context, currency string) ([]external.CryptoPanicPost, error) {
	f.requests = append(f.requests, currency)
	return f.posts, f.err
}

func str(s string) *string { return &s }

func TestLatest_TakesFirstThreeInOrder(t *testing.T) {
	src := &fakeSource{posts: []external.CryptoPanicPost{
		{Title: str("one"), URL: str("https://1"), CreatedAt: str("2024-03-05T10:00:00Z")},
		{Title: str("two"), URL: str("https://2"), CreatedAt: str("2024-03-04T23:59:59Z")},
		{Title: str("three"), URL: str("https://3"), CreatedAt: str("2024-12-31T00:00:00Z")},
		{Title: str("four"), URL: str("https://4"), CreatedAt: str("2024-01-01T00:00:00Z")},
	}}
	f := NewFetcher(registry.Default(), src)

	items, err := f.Latest(context.Background(), "ethereum")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}

	want := []models.NewsItem{
		{Title: "one", URL: "https://1", Date: "Mar 05, 2024"},
		{Title: "two", URL: "https://2", Date: "Mar 04, 2024"},
		{Title: "three", URL: "https://3", Date: "Dec 31, 2024"},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"ETH"}, src.requests); diff != "" {
		t.Fatalf("requested currencies (-want +got):\n%s", diff)
	}
}

func TestLatest_Placeholders(t *testing.T) {
	src := &fakeSource{posts: []external.CryptoPanicPost{{}}}
	items, err := NewFetcher(registry.Default(), src).Latest(context.Background(), "bitcoin")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	want := []models.NewsItem{{Title: "No title"}}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestLatest_UnknownKeyUsesKey(t *testing.T) {
	src := &fakeSource{}
	items, err := NewFetcher(registry.Default(), src).Latest(context.Background(), "doge")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %v", items)
	}
	if src.requests[0] != "DOGE" {
		t.Fatalf("expected DOGE, got %s", src.requests[0])
	}
}

func TestLatest_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewFetcher(registry.Default(), &fakeSource{err: boom}).Latest(context.Background(), "bitcoin")
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestFormatDate(t *testing.T) {
	cases := map[string]string{
		"2024-03-05T10:00:00Z":      "Mar 05, 2024",
		"2023-11-20T01:02:03+02:00": "Nov 20, 2023",
		"2024-02-29":                "Feb 29, 2024",
		"2024-03-05 10:00:00":       "Mar 05, 2024",
		"2024-03-05 10:00:00+00:00": "Mar 05, 2024",
		"not a date":                "not",
		"garbage":                   "garbage",
		"":                          "",
	}
	for in, want := range cases {
		if got := FormatDate(in); got != want {
			t.Fatalf("FormatDate(%q) = %q, want %q", in, got, want)
		}
	}
}
