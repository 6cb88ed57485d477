package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"navermap_bot/internal/navermap/transport"
	"navermap_bot/platform/apperr"
	"navermap_bot/platform/config"
	"navermap_bot/platform/logger"
	"navermap_bot/platform/metrics"
	"navermap_bot/platform/sanitize"
)

const (
	searchTarget  = "local"
	searchStart   = 1
	searchDisplay = 10
)

// SearchClient queries the official keyword search API.
type SearchClient struct {
	req      requester
	endpoint string
	referer  string
	key      string
}

// NewSearchClient creates an official place search client. A nil httpClient uses a default one.
func NewSearchClient(cfg config.SearchConfig, httpClient *http.Client, log *logger.Logger, m *metrics.Metrics) *SearchClient {
	return &SearchClient{
		req:      newRequester(httpClient, log, m),
		endpoint: cfg.GetSearchEndpoint(),
		referer:  cfg.GetSearchIdentifier(),
		key:      cfg.GetSearchKey(),
	}
}

type rssFeed struct {
	Channel *struct {
		Items []transport.OfficialItem `xml:"item"`
	} `xml:"channel"`
}

// Search returns the first item of the local search feed for query, with
// title and description sanitized.
func (c *SearchClient) Search(ctx context.Context, query string) (transport.OfficialItem, error) {
	const op = "client.SearchClient.Search"
	if err := requireQuery(op, query); err != nil {
		return transport.OfficialItem{}, err
	}

	params := url.Values{}
	params.Set("key", c.key)
	params.Set("target", searchTarget)
	params.Set("start", strconv.Itoa(searchStart))
	params.Set("display", strconv.Itoa(searchDisplay))
	params.Set("query", query)

	body, err := c.req.get(ctx, serviceSearch, c.endpoint, params, c.referer)
	if err != nil {
		return transport.OfficialItem{}, err
	}

	var feed rssFeed
	if err := decodeFeed(body, "rss", &feed); err != nil {
		return transport.OfficialItem{}, err
	}
	if feed.Channel == nil || len(feed.Channel.Items) == 0 {
		return transport.OfficialItem{}, apperr.EmptyResult("empty response").WithOp(op)
	}

	item := feed.Channel.Items[0]
	item.Title = sanitize.Text(item.Title)
	item.Description = sanitize.Text(item.Description)
	return item, nil
}
