package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) mashop-dashboard/2.0"

// MashopFetcher implements Fetcher against the mashop price-stat REST API.
type MashopFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewMashopFetcher creates a fetcher with a fixed request timeout and
// optional proxy support.
func NewMashopFetcher(baseURL, proxyURL string, timeout time.Duration) *MashopFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &MashopFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *MashopFetcher) Name() string { return "mashop" }

// FetchPeriod performs a single GET for one keyword and date range.
// The API sometimes returns a bare array and sometimes wraps it under
// one of a few known keys; any other shape degrades to an empty list
// rather than an error, so one odd response never fails the whole run.
func (f *MashopFetcher) FetchPeriod(keyword, startDate, endDate string) ([]RawRecord, []byte, error) {
	endpoint := fmt.Sprintf("%s/api/v2/maps/price-stat/period?keyword=%s&startDate=%s&endDate=%s",
		f.BaseURL, url.QueryEscape(keyword), url.QueryEscape(startDate), url.QueryEscape(endDate))

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch period %s: %w", keyword, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch period %s: read body: %w", keyword, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, fmt.Errorf("fetch period %s: status %d, body: %s", keyword, resp.StatusCode, truncate(body, 200))
	}

	records, err := decodeEnvelope(body)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch period %s: %w", keyword, err)
	}
	return records, body, nil
}

// wrapKeys are the envelope keys the API has been seen to wrap its
// record list under.
var wrapKeys = []string{"data", "items", "result", "content"}

func decodeEnvelope(body []byte) ([]RawRecord, error) {
	var list []RawRecord
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapped); err == nil {
		for _, k := range wrapKeys {
			raw, ok := wrapped[k]
			if !ok {
				continue
			}
			if err := json.Unmarshal(raw, &list); err == nil {
				return list, nil
			}
		}
		// Object without a recognized list: treat as "no data".
		return nil, nil
	}

	// Scalars and other valid-JSON oddities also degrade to "no data"
	// rather than failing the map; only an unparseable body is an error.
	if json.Valid(body) {
		return nil, nil
	}
	return nil, fmt.Errorf("decode response: not valid JSON")
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
