// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package completion is the boundary to the hosted model service.
package completion

import (
	"context"
	"sync"
)

// =============================================================================
// MOCK CLIENT
// =============================================================================

// MockClient is a scripted Client for tests. When Respond is set it computes
// the reply per request; otherwise Reply/Err are returned verbatim.
type MockClient struct {
	mu sync.Mutex

	// Respond, when non-nil, handles each request.
	Respond func(req Request) (*Response, error)

	// Reply is returned when Respond is nil and Err is nil.
	Reply string

	// Err is returned when Respond is nil and Err is non-nil.
	Err error

	// Requests records every payload received, in order.
	Requests []Request
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	respond := m.Respond
	reply := m.Reply
	err := m.Err
	m.mu.Unlock()

	if ctx.Err() != nil {
		return nil, &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: ctx.Err()}
	}
	if respond != nil {
		return respond(req)
	}
	if err != nil {
		return nil, err
	}
	if reply == "" {
		reply = "mock response"
	}
	return &Response{Response: reply}, nil
}

// LastRequest returns the most recent payload, or false when none were made.
func (m *MockClient) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Requests) == 0 {
		return Request{}, false
	}
	return m.Requests[len(m.Requests)-1], true
}

// CallCount returns how many completions were requested.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
