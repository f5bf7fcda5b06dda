package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
)

// postJSON sends a JSON payload to an upstream backend and returns the raw
// response body plus the wall-clock latency in milliseconds. Non-2xx
// responses become a *Error carrying the backend's message.
func postJSON(ctx context.Context, client *http.Client, providerName, endpoint string, headers map[string]string, payload any) ([]byte, int64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, &Error{Provider: providerName, Message: "encode request", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, &Error{Provider: providerName, Message: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return nil, latency, &Error{Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, latency, &Error{Provider: providerName, Message: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, latency, &Error{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(data)),
		}
	}
	return data, latency, nil
}
