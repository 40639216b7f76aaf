// Package client provides a Go client for the tierkv HTTP API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrKeyNotFound is returned by Get when the server answers 404.
var ErrKeyNotFound = errors.New("key not found")

// RetryConfig defines retry behavior
type RetryConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// DefaultRetryConfig returns default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		RetryDelay: 100 * time.Millisecond,
		Timeout:    5 * time.Second,
	}
}

// Client talks to a single tierkv server
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
}

// New creates a client for the server at baseURL. A bare host:port is
// treated as http.
func New(baseURL string, retry RetryConfig) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: retry.Timeout},
		retry:      retry,
	}
}

func (c *Client) keyURL(key string) string {
	return fmt.Sprintf("%s/api/v1/keys/%s", c.baseURL, key)
}

// Set stores a key-value pair
func (c *Client) Set(key string, value []byte) error {
	body, err := json.Marshal(map[string]string{"value": string(value)})
	if err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < c.retry.MaxRetries; i++ {
		if i > 0 {
			time.Sleep(c.retry.RetryDelay)
		}

		req, err := http.NewRequest(http.MethodPut, c.keyURL(key), bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		default:
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}
	return fmt.Errorf("max retries exceeded: %v", lastErr)
}

// Get retrieves the value for a key. A missing key yields ErrKeyNotFound.
func (c *Client) Get(key string) ([]byte, error) {
	var lastErr error
	for i := 0; i < c.retry.MaxRetries; i++ {
		if i > 0 {
			time.Sleep(c.retry.RetryDelay)
		}

		resp, err := c.httpClient.Get(c.keyURL(key))
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			var response struct {
				Key   string `json:"key"`
				Value string `json:"value"`
			}
			err := json.NewDecoder(resp.Body).Decode(&response)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to decode response: %w", err)
			}
			return []byte(response.Value), nil
		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return nil, ErrKeyNotFound
		case resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		default:
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}
	return nil, fmt.Errorf("max retries exceeded: %v", lastErr)
}

// Delete removes a key. Deleting a key that does not exist succeeds.
func (c *Client) Delete(key string) error {
	var lastErr error
	for i := 0; i < c.retry.MaxRetries; i++ {
		if i > 0 {
			time.Sleep(c.retry.RetryDelay)
		}

		req, err := http.NewRequest(http.MethodDelete, c.keyURL(key), nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return nil
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		default:
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
	}
	return fmt.Errorf("max retries exceeded: %v", lastErr)
}

// LevelStats mirrors one level of the engine snapshot.
type LevelStats struct {
	Entries  int `json:"entries"`
	Capacity int `json:"capacity"`
}

// Stats mirrors the engine snapshot served at /api/v1/stats.
type Stats struct {
	MemtableEntries int          `json:"memtable_entries"`
	Levels          []LevelStats `json:"levels"`
	TotalEntries    int          `json:"total_entries"`
	Flushes         uint64       `json:"flushes"`
	Cascades        uint64       `json:"cascades"`
}

// Stats fetches the engine statistics snapshot
func (c *Client) Stats() (*Stats, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/v1/stats")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var stats Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &stats, nil
}

// Health reports an error unless the server answers healthy
func (c *Client) Health() error {
	resp, err := c.httpClient.Get(c.baseURL + "/api/v1/health")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
