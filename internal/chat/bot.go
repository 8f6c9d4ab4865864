// Package chat runs the conversation loop: classify each user turn, answer it
// from news, market data or the language model, and record both sides in the
// caller's History.
package chat

import (
	"context"
	"fmt"

	"github.com/kjannette/cryptochat/internal/intent"
	"github.com/kjannette/cryptochat/internal/models"
	"github.com/kjannette/cryptochat/internal/registry"
)

type NewsFetcher interface {
	Latest(ctx context.Context, key string) ([]models.NewsItem, error)
}

type MarketFetcher interface {
	Snapshots(ctx context.Context, keys []string) (map[string]models.MarketSnapshot, map[string]error)
}

type Assistant interface {
	Ask(ctx context.Context, query string) (string, error)
}

// Reply is the outcome of one turn. Notices carry fetch failures meant to be
// shown to the user next to the answer; they are not part of the History.
type Reply struct {
	Intent  intent.Intent `json:"intent"`
	Assets  []string      `json:"assets"`
	Answer  string        `json:"answer"`
	Notices []string      `json:"notices,omitempty"`
}

type Bot struct {
	reg       *registry.Registry
	news      NewsFetcher
	market    MarketFetcher
	assistant Assistant
}

func NewBot(reg *registry.Registry, news NewsFetcher, market MarketFetcher, assistant Assistant) *Bot {
	return &Bot{reg: reg, news: news, market: market, assistant: assistant}
}

// Respond appends the user message, computes the answer and appends it. The
// only error is a History failure; upstream failures become notices.
func (b *Bot) Respond(ctx context.Context, h History, text string) (Reply, error) {
	// History writes ignore cancellation so a stored user message always
	// gets its answer.
	storeCtx := context.WithoutCancel(ctx)

	if err := h.Append(storeCtx, models.NewMessage(models.RoleUser, text)); err != nil {
		return Reply{}, fmt.Errorf("append user message: %w", err)
	}

	reply := b.Answer(ctx, text)

	if err := h.Append(storeCtx, models.NewMessage(models.RoleAssistant, reply.Answer)); err != nil {
		return reply, fmt.Errorf("append assistant message: %w", err)
	}
	return reply, nil
}

// Answer computes a reply without touching any History.
func (b *Bot) Answer(ctx context.Context, text string) Reply {
	res := intent.Extract(b.reg, text)
	reply := Reply{Intent: res.Intent, Assets: res.Assets}

	switch res.Intent {
	case intent.News:
		if len(res.Assets) == 0 {
			reply.Answer = MsgNewsNeedsAsset
			break
		}
		key := res.Assets[0]
		items, err := b.news.Latest(ctx, key)
		if err != nil {
			reply.Notices = append(reply.Notices, fmt.Sprintf("Error fetching news: %v", err))
			items = nil
		}
		reply.Answer = RenderNews(key, items)

	case intent.Metrics:
		if len(res.Assets) == 0 {
			reply.Answer = MsgMetricsNeedsAsset
			break
		}
		snaps, errs := b.market.Snapshots(ctx, res.Assets)
		for _, key := range res.Assets {
			if err, ok := errs[key]; ok {
				reply.Notices = append(reply.Notices,
					fmt.Sprintf("Error fetching market data for %s: %v", DisplayName(key), err))
			}
		}
		reply.Answer = RenderMarket(b.reg, res.Assets, snaps)

	default:
		answer, err := b.assistant.Ask(ctx, text)
		if err != nil {
			reply.Notices = append(reply.Notices, fmt.Sprintf("Error contacting the language model: %v", err))
			answer = MsgAssistantDown
		}
		reply.Answer = answer
	}

	return reply
}
