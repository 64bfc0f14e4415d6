// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package completion is the boundary to the hosted model service.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the HTTP completion client.
type ClientConfig struct {
	// BaseURL is the completion service base URL (default: http://127.0.0.1:11434)
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6
	// resolution issues on Windows.
	BaseURL string

	// Model is the model identifier sent with every request.
	Model string

	// Timeout bounds the whole request (default: 60s). The controller never
	// enforces its own timeout; this layer owns it.
	Timeout time.Duration

	// APIKey, when set, is sent as a bearer token.
	APIKey string
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: "http://127.0.0.1:11434",
		Model:   "gemma3:4b",
		Timeout: 60 * time.Second,
	}
}

// =============================================================================
// HTTP CLIENT
// =============================================================================

// HTTPClient implements Client against a generate-style JSON endpoint
// (POST {base}/api/generate, stream off). Thread-safe.
type HTTPClient struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewHTTPClient creates a completion client with the given configuration.
// A nil config uses defaults; zero fields are filled in.
func NewHTTPClient(config *ClientConfig) *HTTPClient {
	if config == nil {
		config = DefaultClientConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:11434"
	}
	if config.Model == "" {
		config.Model = "gemma3:4b"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &HTTPClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// generateRequest is the wire request body.
type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	System string   `json:"system,omitempty"`
	Images []string `json:"images,omitempty"`
	Stream bool     `json:"stream"`
}

// generateResponse is the wire response body.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Complete sends one prompt payload and waits for the full reply. A single
// attempt only: the caller owns any retry decision, and by design there is
// none — every failure is terminal for that send.
func (c *HTTPClient) Complete(ctx context.Context, req Request) (*Response, error) {
	wire := generateRequest{
		Model:  c.config.Model,
		Prompt: BuildPrompt(req),
		System: SystemPrompt(req.Tone),
		Stream: false,
	}
	if req.PhotoDataURI != "" {
		if payload := imagePayload(req.PhotoDataURI); payload != "" {
			wire.Images = []string{payload}
		}
	}

	body, err := json.Marshal(wire)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "cannot encode request", Cause: err}
	}

	url := strings.TrimSuffix(c.config.BaseURL, "/") + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "cannot create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "completion service unreachable", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "cannot read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		msg := "provider error: " + resp.Status
		var wireResp generateResponse
		if json.Unmarshal(data, &wireResp) == nil && wireResp.Error != "" {
			msg = "provider error: " + wireResp.Error
		}
		return nil, &ClientError{Type: ErrTypeProvider, Message: msg}
	}

	var wireResp generateResponse
	if err := json.Unmarshal(data, &wireResp); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "malformed response from completion service", Cause: err}
	}
	if wireResp.Error != "" {
		return nil, &ClientError{Type: ErrTypeProvider, Message: "provider error: " + wireResp.Error}
	}
	if wireResp.Response == "" {
		return nil, ErrInvalidResponse
	}

	return &Response{Response: wireResp.Response}, nil
}
