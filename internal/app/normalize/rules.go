package normalize

import (
	"strings"
	"time"

	"github.com/fr0stylo/snapledger/internal/app/domain"
)

// fieldRules lists candidate raw field paths per payload attribute, in
// priority order, plus the fallback identity and completeness checks for
// one content kind.
type fieldRules struct {
	id        []string
	title     []string
	text      []string
	author    []string
	url       []string
	published []string
	chain     []string
	address   []string
	pair      []string
	symbol    []string
	channel   []string
	metrics   map[string][]string

	// fallbackID derives an identity from payload content when the record
	// carries no explicit id. An empty result rejects the record.
	fallbackID func(section string, payload domain.Payload) string
	// incomplete names the missing mandatory attribute, or returns "".
	incomplete func(payload domain.Payload) string
}

var kindRules = map[domain.ContentKind]fieldRules{
	domain.KindSocial: {
		id:        []string{"id", "id_str", "tweet_id", "post_id"},
		text:      []string{"full_text", "text", "content"},
		author:    []string{"author.username", "user.screen_name", "user.username", "username", "screen_name", "author"},
		url:       []string{"url", "permalink", "link"},
		published: []string{"created_at", "timestamp", "published_at", "date"},
		metrics: map[string][]string{
			"likes":     {"likes", "like_count", "favorite_count", "public_metrics.like_count"},
			"reposts":   {"retweets", "retweet_count", "reposts", "public_metrics.retweet_count"},
			"replies":   {"replies", "reply_count", "public_metrics.reply_count"},
			"views":     {"views", "view_count", "impression_count", "public_metrics.impression_count"},
			"bookmarks": {"bookmarks", "bookmark_count"},
		},
		fallbackID: func(_ string, p domain.Payload) string {
			if p.URL == "" || p.PublishedAt == nil {
				return ""
			}
			return p.URL + "|" + p.PublishedAt.Format(time.RFC3339)
		},
		incomplete: func(p domain.Payload) string {
			if p.Text == "" {
				return "text"
			}
			return ""
		},
	},
	domain.KindNews: {
		id:        []string{"id", "guid", "article_id"},
		title:     []string{"title", "headline"},
		text:      []string{"description", "summary", "content", "body"},
		author:    []string{"author", "creator", "source.name", "source", "domain"},
		url:       []string{"url", "link"},
		published: []string{"published_at", "publishedAt", "published", "pubDate", "date", "created_at"},
		metrics: map[string][]string{
			"score":    {"score", "points", "votes.positive"},
			"comments": {"comments", "num_comments", "comment_count"},
		},
		fallbackID: func(_ string, p domain.Payload) string {
			if p.URL == "" {
				return ""
			}
			if p.PublishedAt == nil {
				return p.URL
			}
			return p.URL + "|" + p.PublishedAt.Format(time.RFC3339)
		},
		incomplete: func(p domain.Payload) string {
			if p.Title == "" && p.Text == "" {
				return "title"
			}
			return ""
		},
	},
	domain.KindChat: {
		id:        []string{"message_id", "id", "msg_id"},
		text:      []string{"text", "message", "content", "caption"},
		author:    []string{"sender", "sender_name", "from.username", "from.first_name", "from", "author", "username"},
		channel:   []string{"channel", "channel_name", "chat_title", "chat.username", "chat.title", "chat", "chat_id"},
		url:       []string{"url", "link"},
		published: []string{"date", "timestamp", "created_at"},
		metrics: map[string][]string{
			"views":     {"views", "view_count"},
			"forwards":  {"forwards", "forward_count"},
			"reactions": {"reactions_count", "reactions"},
		},
		incomplete: func(p domain.Payload) string {
			if p.Text == "" {
				return "text"
			}
			return ""
		},
	},
	domain.KindMarket: {
		id:        []string{"id"},
		title:     []string{"name", "baseToken.name", "token_name", "header"},
		text:      []string{"description"},
		url:       []string{"url"},
		published: []string{"timestamp", "last_updated", "updated_at", "pairCreatedAt", "created_at"},
		chain:     []string{"chainId", "chain_id", "chain", "network"},
		address:   []string{"tokenAddress", "token_address", "address", "contract_address", "baseToken.address", "mint"},
		pair:      []string{"pairAddress", "pair_address", "pairId", "pair_id"},
		symbol:    []string{"symbol", "baseToken.symbol", "token_symbol"},
		metrics: map[string][]string{
			"price":        {"price", "price_usd", "priceUsd", "current_price", "quote.USD.price"},
			"change_24h":   {"change_24h", "price_change_24h", "percent_change_24h", "priceChange.h24", "priceChange24h", "quote.USD.percent_change_24h"},
			"volume_24h":   {"volume_24h", "volume.h24", "v24hUSD", "total_volume", "quote.USD.volume_24h", "volume"},
			"liquidity":    {"liquidity.usd", "liquidity_usd", "liquidity"},
			"market_cap":   {"market_cap", "marketCap", "mc", "quote.USD.market_cap"},
			"fdv":          {"fdv", "fully_diluted_valuation"},
			"rank":         {"rank", "cmc_rank", "market_cap_rank"},
			"boost_amount": {"amount"},
			"boost_total":  {"totalAmount", "total_amount"},
		},
		fallbackID: func(section string, p domain.Payload) string {
			if p.Address == "" {
				return ""
			}
			parts := make([]string, 0, 4)
			for _, part := range []string{section, p.Chain, p.Address, p.PairAddress} {
				if part != "" {
					parts = append(parts, part)
				}
			}
			return strings.Join(parts, ":")
		},
		incomplete: func(p domain.Payload) string {
			if p.Symbol == "" && p.Title == "" && p.Address == "" {
				return "symbol"
			}
			return ""
		},
	},
}

// explicitID reads the record's own identifier. Chat message ids are only
// unique per channel, so they are qualified with it.
func explicitID(kind domain.ContentKind, rules fieldRules, fields map[string]any, payload domain.Payload) string {
	id := firstString(fields, rules.id)
	if id == "" {
		return ""
	}
	if kind == domain.KindChat && payload.Channel != "" {
		return payload.Channel + ":" + id
	}
	return id
}
