package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"entrybot/internal/config"
	"entrybot/internal/logging"
)

// maxBodyBytes caps how much of the response is read.
const maxBodyBytes = 8 << 20

// NetworkError reports a failed request to the record source.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Fetcher retrieves records from a JSON list endpoint that honors a _limit query parameter.
type Fetcher struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewFetcher builds a Fetcher from configuration.
// The HTTP client has explicit connect and header timeouts so a hung server cannot stall the run.
func NewFetcher(cfg *config.Config) *Fetcher {
	timeout := cfg.GetFetchTimeout()
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	}
	client := &http.Client{Transport: transport, Timeout: timeout}
	return NewFetcherWithClient(client, cfg.Source.URL, cfg.Name+"/"+cfg.Version)
}

// NewFetcherWithClient retrieves records using the given HTTP client.
func NewFetcherWithClient(client *http.Client, baseURL, userAgent string) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{client: client, baseURL: baseURL, userAgent: userAgent}
}

// URL returns the request URL for a batch of at most limit records.
func (f *Fetcher) URL(limit int) (string, error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse source url: %w", err)
	}
	q := u.Query()
	q.Set("_limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch returns up to limit records. Any failure is logged and yields an empty batch;
// the caller treats that as nothing to do.
func (f *Fetcher) Fetch(ctx context.Context, limit int) []Record {
	records, err := f.FetchStrict(ctx, limit)
	if err != nil {
		logging.FetchWarn("Network error fetching posts: %v", err)
		return nil
	}
	return records
}

// FetchStrict is Fetch with the failure surfaced as a *NetworkError.
func (f *Fetcher) FetchStrict(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		logging.FetchDebug("Limit %d requested, skipping request", limit)
		return nil, nil
	}

	target, err := f.URL(limit)
	if err != nil {
		return nil, &NetworkError{URL: f.baseURL, Err: err}
	}

	timer := logging.StartTimer(logging.CategoryFetch, "GET "+target)
	defer timer.StopWithThreshold(5 * time.Second)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &NetworkError{URL: target, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var raw []json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty response body")
		}
		return nil, &NetworkError{URL: target, Err: fmt.Errorf("decode records: %w", err)}
	}

	if len(raw) > limit {
		logging.FetchDebug("Source returned %d records, truncating to %d", len(raw), limit)
		raw = raw[:limit]
	}
	records := decodeRecords(raw)
	logging.Fetch("Fetched %d posts (%d in response)", len(records), len(raw))
	return records, nil
}

// decodeRecords decodes each element on its own. A malformed element is
// logged and skipped; the rest of the batch survives.
func decodeRecords(raw []json.RawMessage) []Record {
	records := make([]Record, 0, len(raw))
	for i, msg := range raw {
		var rec Record
		if err := json.Unmarshal(msg, &rec); err != nil {
			logging.FetchWarn("Skipping malformed record #%d: %v", i, err)
			continue
		}
		records = append(records, rec)
	}
	return records
}
