// Package news returns the latest headlines for a registered asset.
package news

import (
	"context"
	"strings"
	"time"

	"github.com/kjannette/cryptochat/internal/external"
	"github.com/kjannette/cryptochat/internal/models"
	"github.com/kjannette/cryptochat/internal/registry"
)

// MaxItems is the number of headlines returned per asset.
const MaxItems = 3

// Source is implemented by *external.CryptoPanicClient.
type Source interface {
	GetNews(ctx context.Context, currency string) ([]external.CryptoPanicPost, error)
}

type Fetcher struct {
	reg *registry.Registry
	src Source
}

func NewFetcher(reg *registry.Registry, src Source) *Fetcher {
	return &Fetcher{reg: reg, src: src}
}

// Latest returns at most MaxItems posts for key in upstream order. Keys not
// in the registry are queried by their own upper-cased name.
func (f *Fetcher) Latest(ctx context.Context, key string) ([]models.NewsItem, error) {
	symbol := key
	if a, ok := f.reg.Get(key); ok {
		symbol = a.PrimarySymbol()
	}

	posts, err := f.src.GetNews(ctx, strings.ToUpper(symbol))
	if err != nil {
		return nil, err
	}

	if len(posts) > MaxItems {
		posts = posts[:MaxItems]
	}
	items := make([]models.NewsItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, toItem(p))
	}
	return items, nil
}

func toItem(p external.CryptoPanicPost) models.NewsItem {
	item := models.NewsItem{Title: "No title"}
	if p.Title != nil && *p.Title != "" {
		item.Title = *p.Title
	}
	if p.URL != nil {
		item.URL = *p.URL
	}
	if p.CreatedAt != nil {
		item.Date = FormatDate(*p.CreatedAt)
	}
	return item
}

// FormatDate truncates an ISO-8601 timestamp to its calendar day and renders
// it as "Mar 05, 2024". The date and time may be separated by 'T' or a space.
// Unparseable input is returned as its date part.
func FormatDate(createdAt string) string {
	day, _, _ := strings.Cut(createdAt, "T")
	day, _, _ = strings.Cut(day, " ")
	t, err := time.Parse(time.DateOnly, day)
	if err != nil {
		return day
	}
	return t.Format(models.NewsDateLayout)
}
