package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/batchhost/batchhost/host"
)

// backendRequest is posted to the model backend once per batch.
type backendRequest struct {
	Items []string `json:"items"` // base64-encoded opaque payloads, batch order
}

type backendResponse struct {
	Items []string `json:"items"` // base64-encoded opaque results, same order
}

// HTTPBackendPredictor forwards a batch of opaque payloads to an external
// model server over HTTP and decodes its response, one call per batch.
// It implements host.PredictFunc[[][]byte, [][]byte].
type HTTPBackendPredictor struct {
	url    string
	client *http.Client
}

// NewHTTPBackendPredictor targets url with the given per-request timeout.
func NewHTTPBackendPredictor(url string, timeout time.Duration) *HTTPBackendPredictor {
	return &HTTPBackendPredictor{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Predict implements host.PredictFunc[[][]byte, [][]byte].
func (p *HTTPBackendPredictor) Predict(ctx context.Context, batch [][]byte) ([][]byte, error) {
	req := backendRequest{Items: make([]string, len(batch))}
	for i, item := range batch {
		req.Items[i] = base64.StdEncoding.EncodeToString(item)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("backend: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("backend: call %s: %w", p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend: %s returned status %d", p.url, resp.StatusCode)
	}

	var out backendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("backend: decode response: %w", err)
	}
	if len(out.Items) != len(batch) {
		return nil, fmt.Errorf("backend: returned %d items, expected %d", len(out.Items), len(batch))
	}

	results := make([][]byte, len(out.Items))
	for i, encoded := range out.Items {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("backend: decode item %d: %w", i, err)
		}
		results[i] = decoded
	}
	return results, nil
}

// AsPredictFunc adapts the predictor to host.PredictFunc.
func (p *HTTPBackendPredictor) AsPredictFunc() host.PredictFunc[[][]byte, [][]byte] {
	return p.Predict
}
