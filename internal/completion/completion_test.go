// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package completion is the boundary to the hosted model service.
package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/novachat/internal/model"
)

// =============================================================================
// PERSONA / PROMPT TESTS
// =============================================================================

func TestPersonaInstructionCoversEveryTone(t *testing.T) {
	for _, tone := range model.Tones {
		if PersonaInstruction(tone) == "" {
			t.Errorf("tone %q has no persona instruction", tone)
		}
	}
}

func TestPersonaInstructionUnknownToneFallsBack(t *testing.T) {
	got := PersonaInstruction(model.Tone("galactic"))
	if got != PersonaInstruction(model.DefaultTone) {
		t.Errorf("unknown tone should use the default persona, got %q", got)
	}
}

func TestSystemPromptContainsBasePersona(t *testing.T) {
	sys := SystemPrompt(model.ToneFormal)
	if !strings.Contains(sys, "Nova") {
		t.Errorf("system prompt should name the assistant, got %q", sys)
	}
	if !strings.Contains(sys, "CEO") {
		t.Errorf("formal system prompt should carry the formal persona, got %q", sys)
	}
}

func TestFormatHistoryAlternatingLines(t *testing.T) {
	history := []Turn{
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello!"},
		{Role: model.RoleUser, Content: "how are you?"},
	}

	got := FormatHistory(history)
	want := "User: hi\nAssistant: hello!\nUser: how are you?"
	if got != want {
		t.Errorf("FormatHistory = %q, want %q", got, want)
	}

	if FormatHistory(nil) != "" {
		t.Error("empty history should format to empty string")
	}
}

func TestBuildPrompt(t *testing.T) {
	req := Request{
		Message: "what do you see?",
		Tone:    model.ToneNormal,
		History: []Turn{{Role: model.RoleUser, Content: "hi"}},
	}

	prompt := BuildPrompt(req)
	if !strings.Contains(prompt, "conversation history") {
		t.Error("prompt should include the history block")
	}
	if !strings.Contains(prompt, "User's message: what do you see?") {
		t.Errorf("prompt should end with the user message, got %q", prompt)
	}
	if strings.Contains(prompt, "image") {
		t.Error("prompt without photo should not mention an image")
	}

	req.PhotoDataURI = "data:image/png;base64,AAAA"
	if !strings.Contains(BuildPrompt(req), "provided an image") {
		t.Error("prompt with photo should include the image note")
	}
}

func TestImagePayload(t *testing.T) {
	if got := imagePayload("data:image/png;base64,AAAA"); got != "AAAA" {
		t.Errorf("imagePayload = %q, want AAAA", got)
	}
	if got := imagePayload("not a data uri"); got != "" {
		t.Errorf("malformed URI should yield empty payload, got %q", got)
	}
}

func TestHistoryFromMessagesSkipsEmpty(t *testing.T) {
	msgs := []model.Message{
		model.NewUserMessage("hello", nil),
		{Role: model.RoleAssistant, Content: ""}, // composing placeholder
		model.NewAssistantMessage("hi"),
	}

	turns := HistoryFromMessages(msgs)
	if len(turns) != 2 {
		t.Fatalf("turns = %d, want 2", len(turns))
	}
	if turns[0].Content != "hello" || turns[1].Content != "hi" {
		t.Errorf("unexpected turns: %+v", turns)
	}
}

// =============================================================================
// HTTP CLIENT TESTS
// =============================================================================

func TestHTTPClientComplete(t *testing.T) {
	var gotWire generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotWire); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "Greetings, traveler.", Done: true})
	}))
	defer srv.Close()

	client := NewHTTPClient(&ClientConfig{BaseURL: srv.URL, Model: "test-model"})
	resp, err := client.Complete(context.Background(), Request{
		Message:      "hello",
		Tone:         model.ToneBrutal,
		PhotoDataURI: "data:image/jpeg;base64,QUJD",
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Response != "Greetings, traveler." {
		t.Errorf("Response = %q", resp.Response)
	}
	if gotWire.Model != "test-model" {
		t.Errorf("wire model = %q", gotWire.Model)
	}
	if gotWire.Stream {
		t.Error("stream must be off")
	}
	if !strings.Contains(gotWire.System, "sarcastic") {
		t.Errorf("brutal persona missing from system prompt: %q", gotWire.System)
	}
	if len(gotWire.Images) != 1 || gotWire.Images[0] != "QUJD" {
		t.Errorf("wire images = %v, want bare base64 payload", gotWire.Images)
	}
}

func TestHTTPClientProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(generateResponse{Error: "model overloaded"})
	}))
	defer srv.Close()

	client := NewHTTPClient(&ClientConfig{BaseURL: srv.URL})
	_, err := client.Complete(context.Background(), Request{Message: "hi", Tone: model.ToneNormal})
	if err == nil {
		t.Fatal("expected provider error")
	}

	var ce *ClientError
	if !errors.As(err, &ce) || ce.Type != ErrTypeProvider {
		t.Errorf("error = %v, want ErrTypeProvider", err)
	}
	if !strings.Contains(ce.Message, "model overloaded") {
		t.Errorf("error should carry provider detail, got %q", ce.Message)
	}
}

func TestHTTPClientMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewHTTPClient(&ClientConfig{BaseURL: srv.URL})
	_, err := client.Complete(context.Background(), Request{Message: "hi", Tone: model.ToneNormal})
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("error = %v, want ErrInvalidResponse", err)
	}
}

func TestHTTPClientConnectionRefused(t *testing.T) {
	// Port 1 is essentially guaranteed closed.
	client := NewHTTPClient(&ClientConfig{BaseURL: "http://127.0.0.1:1", Timeout: 2 * time.Second})
	_, err := client.Complete(context.Background(), Request{Message: "hi", Tone: model.ToneNormal})
	if err == nil {
		t.Fatal("expected connection error")
	}

	var ce *ClientError
	if !errors.As(err, &ce) || ce.Type != ErrTypeConnection {
		t.Errorf("error = %v, want ErrTypeConnection", err)
	}
}

// =============================================================================
// MOCK CLIENT TESTS
// =============================================================================

func TestMockClientRecordsRequests(t *testing.T) {
	mock := &MockClient{Reply: "ok"}
	if _, err := mock.Complete(context.Background(), Request{Message: "a", Tone: model.ToneNormal}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	req, ok := mock.LastRequest()
	if !ok || req.Message != "a" {
		t.Errorf("LastRequest = %+v, %v", req, ok)
	}
	if mock.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1", mock.CallCount())
	}
}
