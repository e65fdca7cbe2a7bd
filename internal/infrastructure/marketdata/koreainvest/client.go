package koreainvest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/minsukang/kstock-tracker/internal/domain"
	"github.com/minsukang/kstock-tracker/internal/infrastructure/marketdata"
	"golang.org/x/time/rate"
)

const (
	pricePath = "/uapi/domestic-stock/v1/quotations/inquire-price"
	chartPath = "/uapi/domestic-stock/v1/quotations/inquire-daily-itemchartprice"

	trIDPrice = "FHKST01010100"
	trIDChart = "FHKST03010100"

	// KOSPI/KOSDAQ combined market division
	marketDivision = "J"
)

// Client implements marketdata.Provider against the Korea Investment &
// Securities OpenAPI. Every call obtains the shared bearer token from the
// TokenSource before the request is built. Calls are throttled to stay under
// the upstream per-second quota.
type Client struct {
	baseURL    string
	appKey     string
	appSecret  string
	tokens     *TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

func NewClient(baseURL, appKey, appSecret string, tokens *TokenSource) *Client {
	return &Client{
		baseURL:   baseURL,
		appKey:    appKey,
		appSecret: appSecret,
		tokens:    tokens,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		// KIS allows 20 calls/sec per app key on the real environment
		limiter: rate.NewLimiter(rate.Limit(20), 20),
		now:     time.Now,
	}
}

// SetBaseURL sets the base URL for the API (useful for testing).
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

type priceResponse struct {
	RtCd   string `json:"rt_cd"`
	Msg1   string `json:"msg1"`
	Output struct {
		CurrentPrice string `json:"stck_prpr"`
		Change       string `json:"prdy_vrss"`
		ChangeRate   string `json:"prdy_ctrt"`
		DayOpen      string `json:"stck_oprc"`
		DayHigh      string `json:"stck_hgpr"`
		DayLow       string `json:"stck_lwpr"`
		Volume       string `json:"acml_vol"`
		MarketCap    string `json:"hts_avls"`
	} `json:"output"`
}

type chartResponse struct {
	RtCd    string `json:"rt_cd"`
	Msg1    string `json:"msg1"`
	Output2 []struct {
		Date   string `json:"stck_bsop_date"`
		Open   string `json:"stck_oprc"`
		High   string `json:"stck_hgpr"`
		Low    string `json:"stck_lwpr"`
		Close  string `json:"stck_clpr"`
		Volume string `json:"acml_vol"`
	} `json:"output2"`
}

// GetQuote retrieves the current price snapshot for a stock code.
func (c *Client) GetQuote(ctx context.Context, code string) (*marketdata.Quote, error) {
	params := url.Values{}
	params.Add("fid_cond_mrkt_div_code", marketDivision)
	params.Add("fid_input_iscd", code)

	body, err := c.get(ctx, "quote", pricePath, trIDPrice, params)
	if err != nil {
		return nil, err
	}

	var priceResp priceResponse
	if err := json.Unmarshal(body, &priceResp); err != nil {
		return nil, &marketdata.UpstreamError{Op: "quote", Cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	if priceResp.RtCd != "0" {
		return nil, &marketdata.UpstreamError{Op: "quote", Cause: fmt.Errorf("upstream rejected request: %s", priceResp.Msg1)}
	}

	out := priceResp.Output
	quote := &marketdata.Quote{Code: code}
	fields := []struct {
		dst *int64
		src string
	}{
		{&quote.CurrentPrice, out.CurrentPrice},
		{&quote.Change, out.Change},
		{&quote.DayOpen, out.DayOpen},
		{&quote.DayHigh, out.DayHigh},
		{&quote.DayLow, out.DayLow},
		{&quote.Volume, out.Volume},
		{&quote.MarketCap, out.MarketCap},
	}
	for _, f := range fields {
		v, err := parseAmount(f.src)
		if err != nil {
			return nil, &marketdata.UpstreamError{Op: "quote", Cause: fmt.Errorf("malformed quote body: %w", err)}
		}
		*f.dst = v
	}

	changeRate, err := domain.NewDecimalFromString(strings.TrimSpace(out.ChangeRate))
	if err != nil {
		return nil, &marketdata.UpstreamError{Op: "quote", Cause: fmt.Errorf("malformed quote body: %w", err)}
	}
	quote.ChangeRate = changeRate

	return quote, nil
}

// GetChart retrieves daily bars for the lookback window of the given period.
// The upstream returns bars newest-first; the result is normalized to
// oldest-first so chart consumers can render left to right.
func (c *Client) GetChart(ctx context.Context, code string, period marketdata.Period) ([]marketdata.Candle, error) {
	end := c.now()
	start := end.AddDate(0, 0, -lookbackDays(period))

	params := url.Values{}
	params.Add("fid_cond_mrkt_div_code", marketDivision)
	params.Add("fid_input_iscd", code)
	params.Add("fid_input_date_1", start.Format("20060102"))
	params.Add("fid_input_date_2", end.Format("20060102"))
	params.Add("fid_period_div_code", string(period))
	params.Add("fid_org_adj_prc", "0")

	body, err := c.get(ctx, "chart", chartPath, trIDChart, params)
	if err != nil {
		return nil, err
	}

	var chartResp chartResponse
	if err := json.Unmarshal(body, &chartResp); err != nil {
		return nil, &marketdata.UpstreamError{Op: "chart", Cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	if chartResp.RtCd != "0" {
		return nil, &marketdata.UpstreamError{Op: "chart", Cause: fmt.Errorf("upstream rejected request: %s", chartResp.Msg1)}
	}

	candles := make([]marketdata.Candle, 0, len(chartResp.Output2))
	// reverse: newest-first upstream, oldest-first out
	for i := len(chartResp.Output2) - 1; i >= 0; i-- {
		bar := chartResp.Output2[i]
		candle := marketdata.Candle{Date: bar.Date}
		fields := []struct {
			dst *int64
			src string
		}{
			{&candle.Open, bar.Open},
			{&candle.High, bar.High},
			{&candle.Low, bar.Low},
			{&candle.Close, bar.Close},
			{&candle.Volume, bar.Volume},
		}
		for _, f := range fields {
			v, err := parseAmount(f.src)
			if err != nil {
				return nil, &marketdata.UpstreamError{Op: "chart", Cause: fmt.Errorf("malformed chart body: %w", err)}
			}
			*f.dst = v
		}
		candles = append(candles, candle)
	}

	return candles, nil
}

// GetInstrumentSummary retrieves the reduced quote projection used by ranking
// views. Same endpoint and failure semantics as GetQuote.
func (c *Client) GetInstrumentSummary(ctx context.Context, code string) (*marketdata.Summary, error) {
	quote, err := c.GetQuote(ctx, code)
	if err != nil {
		return nil, err
	}
	return &marketdata.Summary{
		Code:         quote.Code,
		CurrentPrice: quote.CurrentPrice,
		Change:       quote.Change,
		ChangeRate:   quote.ChangeRate,
		Volume:       quote.Volume,
		MarketCap:    quote.MarketCap,
	}, nil
}

// get performs an authenticated GET and returns the raw body on HTTP 200.
// No retries: a failed call surfaces immediately as a typed error.
func (c *Client) get(ctx context.Context, op, path, trID string, params url.Values) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &marketdata.UpstreamError{Op: op, Cause: err}
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &marketdata.UpstreamError{Op: op, Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("appkey", c.appKey)
	req.Header.Set("appsecret", c.appSecret)
	req.Header.Set("tr_id", trID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &marketdata.UpstreamError{Op: op, Cause: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("failed to close response body", "error", closeErr, "url", reqURL)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &marketdata.UpstreamError{Op: op, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &marketdata.UpstreamError{Op: op, Cause: fmt.Errorf("failed to read response: %w", err)}
	}
	return body, nil
}

// lookbackDays maps a chart period to its window length in days. Unknown
// periods fall back to the 30-day window; the upstream tolerates any period
// code, so this mirrors its behavior instead of rejecting.
func lookbackDays(period marketdata.Period) int {
	switch period {
	case marketdata.PeriodDay:
		return 30
	case marketdata.PeriodWeek:
		return 90
	case marketdata.PeriodMonth:
		return 365
	case marketdata.PeriodYear:
		return 365 * 3
	default:
		return 30
	}
}

// parseAmount parses an integer amount field, tolerating surrounding
// whitespace. Empty strings are malformed: the shape check treats a missing
// numeric field as an upstream contract violation.
func parseAmount(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", s, err)
	}
	return v, nil
}
