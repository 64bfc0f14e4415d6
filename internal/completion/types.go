// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package completion is the boundary to the hosted model service.
package completion

import (
	"context"

	"github.com/jeranaias/novachat/internal/model"
)

// =============================================================================
// CLIENT INTERFACE
// =============================================================================

// Client turns a prompt payload into generated text. Implementations must be
// safe for concurrent use; the call is atomic from the caller's view —
// request in, full text out or failure.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// =============================================================================
// REQUEST / RESPONSE TYPES
// =============================================================================

// Turn is one prior exchange entry forwarded as conversation history.
type Turn struct {
	Role    model.Role `json:"role"`
	Content string     `json:"content"`
}

// Request is the prompt payload for one completion.
type Request struct {
	// Message is the user's message text.
	Message string `json:"message"`

	// Tone selects the persona instruction prepended to the request.
	Tone model.Tone `json:"tone"`

	// PhotoDataURI is an optional image as a base64 data URI. Only set for
	// image attachments; other attachment types never reach this boundary.
	PhotoDataURI string `json:"photoDataUri,omitempty"`

	// History holds the prior turns of the conversation, oldest first.
	History []Turn `json:"history,omitempty"`
}

// Response is the completion result.
type Response struct {
	Response string `json:"response"`
}

// HistoryFromMessages converts stored messages into history turns, skipping
// empty placeholder content.
func HistoryFromMessages(messages []model.Message) []Turn {
	turns := make([]Turn, 0, len(messages))
	for i := range messages {
		if messages[i].Content == "" {
			continue
		}
		turns = append(turns, Turn{Role: messages[i].Role, Content: messages[i].Content})
	}
	return turns
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the completion client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is support; two ClientErrors match on Type.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeProvider
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnavailable     = &ClientError{Type: ErrTypeConnection, Message: "completion service unreachable"}
	ErrTimeout         = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrInvalidResponse = &ClientError{Type: ErrTypeInvalidResponse, Message: "malformed response from completion service"}
)
