// Package yahoo wraps the Yahoo Finance search and chart endpoints the
// ticker handlers depend on: symbol search, latest quote, and dividend
// history. Calls are plain blocking GETs with a bounded timeout and no
// retries.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultSearchURL = "https://query2.finance.yahoo.com"
	defaultChartURL  = "https://query1.finance.yahoo.com"
	defaultTimeout   = 10 * time.Second
)

// ErrNotFound reports a symbol the provider does not know.
var ErrNotFound = errors.New("yahoo: symbol not found")

// ErrNoQuotes reports a chart response without a single usable quote row.
var ErrNoQuotes = errors.New("yahoo: no quotes in range")

// Client talks to the Yahoo Finance public API. Base URLs are fields so
// tests can point the client at a local server.
type Client struct {
	http      *http.Client
	SearchURL string // Base URL for the search endpoint
	ChartURL  string // Base URL for the chart endpoint
}

// NewClient builds a client with the default endpoints and timeout.
func NewClient() *Client {
	return &Client{
		http:      &http.Client{Timeout: defaultTimeout},
		SearchURL: defaultSearchURL,
		ChartURL:  defaultChartURL,
	}
}

// SearchedQuote is one symbol-search match.
type SearchedQuote struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortname"`
	LongName  string `json:"longname"`
}

// SearchResult is the quotes list of a symbol search. Callers take index 0
// and must treat an empty list as not found.
type SearchResult struct {
	Quotes []SearchedQuote `json:"quotes"`
}

// Quote is a single OHLCV row with its epoch timestamp.
type Quote struct {
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    uint64  `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

// Dividend is one dividend payment. The zero value is the "no dividend
// history" sentinel, not an error.
type Dividend struct {
	Amount float64 `json:"amount"`
	Date   int64   `json:"date"`
}

// QuoteHistory is the decoded chart response for one symbol.
type QuoteHistory struct {
	timestamps []int64
	opens      []*float64
	highs      []*float64
	lows       []*float64
	closes     []*float64
	volumes    []*uint64
	dividends  []Dividend
}

// chartResponse mirrors the provider's chart JSON envelope.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp []int64 `json:"timestamp"`
			Events    struct {
				Dividends map[string]Dividend `json:"dividends"`
			} `json:"events"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*uint64  `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Search queries the symbol-search endpoint.
func (c *Client) Search(ctx context.Context, query string) (*SearchResult, error) {
	addr := fmt.Sprintf("%s/v1/finance/search?q=%s", c.SearchURL, url.QueryEscape(query))
	var result SearchResult
	if err := c.getJSON(ctx, addr, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// QuoteRange fetches the chart for a symbol over the given interval and
// range, dividend events included.
func (c *Client) QuoteRange(ctx context.Context, symbol, interval, rng string) (*QuoteHistory, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s&events=div",
		c.ChartURL, url.PathEscape(symbol), url.QueryEscape(interval), url.QueryEscape(rng))
	var resp chartResponse
	if err := c.getJSON(ctx, addr, &resp); err != nil {
		return nil, err
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, ErrNotFound
	}
	result := resp.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	history := &QuoteHistory{
		timestamps: result.Timestamp,
		opens:      quote.Open,
		highs:      quote.High,
		lows:       quote.Low,
		closes:     quote.Close,
		volumes:    quote.Volume,
	}
	for _, d := range result.Events.Dividends {
		history.dividends = append(history.dividends, d)
	}
	return history, nil
}

// LastQuote returns the most recent complete OHLCV row. Rows with missing
// fields (provider uses nulls for halted periods) are skipped.
func (h *QuoteHistory) LastQuote() (Quote, error) {
	for i := len(h.timestamps) - 1; i >= 0; i-- {
		if i >= len(h.opens) || i >= len(h.highs) || i >= len(h.lows) ||
			i >= len(h.closes) || i >= len(h.volumes) {
			continue
		}
		if h.opens[i] == nil || h.highs[i] == nil || h.lows[i] == nil ||
			h.closes[i] == nil || h.volumes[i] == nil {
			continue
		}
		return Quote{
			Open:      *h.opens[i],
			High:      *h.highs[i],
			Low:       *h.lows[i],
			Close:     *h.closes[i],
			Volume:    *h.volumes[i],
			Timestamp: h.timestamps[i],
		}, nil
	}
	return Quote{}, ErrNoQuotes
}

// LastDividend returns the most recent dividend in range, or the zero-amount
// sentinel when the symbol paid none.
func (h *QuoteHistory) LastDividend() Dividend {
	var last Dividend
	for _, d := range h.dividends {
		if d.Date >= last.Date {
			last = d
		}
	}
	return last
}

// getJSON performs a GET and decodes the JSON body into data.
func (c *Client) getJSON(ctx context.Context, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "stockinformer/1.0")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("yahoo: GET %s: %s", addr, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(data)
}
