package rows

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	restPath       = "/rest/v1/"
	maxBodyBytes   = 1 << 20
	errSnippetSize = 1024
)

// HTTPClient is the subset of *http.Client the REST source needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns a client bounded by timeout.
func NewHTTPClient(timeout time.Duration) HTTPClient {
	return &http.Client{Timeout: timeout}
}

// SupabaseSource reads rows through the PostgREST endpoint of a Supabase
// project using the project API key.
type SupabaseSource struct {
	baseURL string
	key     string
	client  HTTPClient
}

// NewSupabaseSource validates the endpoint and key.
func NewSupabaseSource(baseURL, key string, client HTTPClient) (*SupabaseSource, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("supabase url is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid supabase url %q", baseURL)
	}
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("supabase key is required")
	}
	if client == nil {
		client = NewHTTPClient(10 * time.Second)
	}
	return &SupabaseSource{baseURL: baseURL, key: key, client: client}, nil
}

// LatestRow issues select=*&order=created_at.desc&limit=1 against table.
func (s *SupabaseSource) LatestRow(ctx context.Context, table string) (Record, error) {
	if !validTableName(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")
	q.Set("limit", "1")

	var rows []Record
	if err := s.getJSON(ctx, s.baseURL+restPath+table+"?"+q.Encode(), &rows); err != nil {
		return nil, fmt.Errorf("supabase %s: %w", table, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Ping checks that the REST endpoint answers with the configured key.
func (s *SupabaseSource) Ping(ctx context.Context) error {
	req, err := s.newRequest(ctx, s.baseURL+restPath)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("supabase ping: non-2xx: %d", resp.StatusCode)
	}
	return nil
}

func (s *SupabaseSource) newRequest(ctx context.Context, target string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (s *SupabaseSource) getJSON(ctx context.Context, target string, v any) error {
	req, err := s.newRequest(ctx, target)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errSnippetSize))
		return fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(bytes.TrimSpace(b)))
	}
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
