package testsession

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// startScreening queues one screening and returns its report ID.
func startScreening(ctx context.Context, client *HTTPClient, config *Config) (string, error) {
	body := startRequest{
		Symptoms: symptomFlags{
			Headache:         config.Headache,
			Nausea:           config.Nausea,
			Dizziness:        config.Dizziness,
			LightSensitivity: config.LightSensitivity,
		},
		SkipPursuit: config.SkipPursuit,
	}

	resp, err := client.Post(ctx, config.BaseURL+"/screenings", body)
	if err != nil {
		return "", fmt.Errorf("failed to start screening: %w", err)
	}

	data, err := readResponseBody(resp)
	if err != nil {
		return "", fmt.Errorf("failed to read start response: %w", err)
	}

	if resp.StatusCode != StatusAccepted {
		return "", fmt.Errorf("screening rejected with status %d: %s", resp.StatusCode, string(data))
	}

	var ack startResponse
	if err := unmarshalJSON(data, &ack); err != nil {
		return "", fmt.Errorf("failed to parse start response: %w", err)
	}
	if ack.ID == "" {
		return "", fmt.Errorf("start response missing report ID")
	}
	return ack.ID, nil
}

// fetchReport retrieves the current state of one report.
func fetchReport(ctx context.Context, client *HTTPClient, config *Config, id string) (*report, error) {
	resp, err := client.Get(ctx, config.BaseURL+"/screenings/"+id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch report: %w", err)
	}

	data, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("report fetch failed with status %d: %s", resp.StatusCode, string(data))
	}

	var r report
	if err := unmarshalJSON(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &r, nil
}

// pollReport waits until the report reaches a terminal status.
func pollReport(ctx context.Context, client *HTTPClient, config *Config, id string) (*report, error) {
	deadline := time.Now().Add(config.PollBudget)
	ticker := time.NewTicker(config.PollInterval)
	defer ticker.Stop()

	for {
		r, err := fetchReport(ctx, client, config, id)
		if err != nil {
			return nil, err
		}
		switch r.Status {
		case "completed", "failed":
			return r, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("report %s still %q after %s", id, r.Status, config.PollBudget)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("polling cancelled: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// fetchStats retrieves the service counters.
func fetchStats(ctx context.Context, client *HTTPClient, config *Config) (*serviceStats, error) {
	resp, err := client.Get(ctx, config.BaseURL+"/stats")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stats: %w", err)
	}

	data, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("stats fetch failed with status %d", resp.StatusCode)
	}

	var s serviceStats
	if err := unmarshalJSON(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse stats: %w", err)
	}
	return &s, nil
}
