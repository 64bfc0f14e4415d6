// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package completion is the boundary to the hosted model service.
package completion

import (
	"strings"

	"github.com/jeranaias/novachat/internal/model"
)

// =============================================================================
// PERSONA TABLE
// =============================================================================

// basePersona is the system instruction every request starts from.
const basePersona = "You are a helpful AI assistant named Nova. Your persona is futuristic and slightly witty."

// personaInstructions maps each tone to its natural-language directive.
// Static configuration, not computed; the wording follows the product copy.
var personaInstructions = map[model.Tone]string{
	model.ToneFormal: "Adopt the persona of a professional and methodical CEO. " +
		"Your responses should be clear, concise, and strategic.",
	model.ToneInformal: "Adopt the persona of a close friend. Your responses should be " +
		"relaxed, friendly, and use casual language, like you're talking to a good friend. " +
		"Be chill and informal.",
	model.ToneHumorous: "Adopt a persona that is amusing, entertaining, and comical. " +
		"Your goal is to make the user laugh with funny and lighthearted responses. " +
		"Avoid sarcasm and any jokes that could be offensive.",
	model.ToneNormal: "Respond in your default persona: helpful, futuristic, and slightly witty.",
	model.ToneBrutal: "Adopt a persona that is sarcastic, sassy, and moody. Your replies are " +
		"brutally witty, sharp, and clever, designed to surprise and entertain — but never hateful.",
}

// PersonaInstruction returns the directive for a tone. Unknown tones fall
// back to the default tone's directive so a request is never sent bare.
func PersonaInstruction(tone model.Tone) string {
	if instr, ok := personaInstructions[tone]; ok {
		return instr
	}
	return personaInstructions[model.DefaultTone]
}

// SystemPrompt builds the full system instruction for a tone.
func SystemPrompt(tone model.Tone) string {
	return basePersona + "\n\n" + PersonaInstruction(tone)
}

// =============================================================================
// PROMPT CONSTRUCTION
// =============================================================================

// FormatHistory renders prior turns as alternating "User:"/"Assistant:"
// lines, the shape the prompt template expects.
func FormatHistory(history []Turn) string {
	if len(history) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, turn := range history {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if turn.Role == model.RoleUser {
			sb.WriteString("User: ")
		} else {
			sb.WriteString("Assistant: ")
		}
		sb.WriteString(turn.Content)
	}
	return sb.String()
}

// BuildPrompt assembles the user-facing prompt body for a request: the
// formatted history (when present), an image note (when present), and the
// user's message.
func BuildPrompt(req Request) string {
	var sb strings.Builder

	if formatted := FormatHistory(req.History); formatted != "" {
		sb.WriteString("Here is the conversation history:\n")
		sb.WriteString(formatted)
		sb.WriteString("\n\n")
	}

	if req.PhotoDataURI != "" {
		sb.WriteString("The user has provided an image. Analyze the image and use it to inform your response.\n\n")
	}

	sb.WriteString("User's message: ")
	sb.WriteString(req.Message)
	sb.WriteString("\nYour response:")
	return sb.String()
}

// imagePayload extracts the raw base64 payload from a data URI for providers
// that take bare base64. Returns "" when the URI is not well formed.
func imagePayload(dataURI string) string {
	comma := strings.IndexByte(dataURI, ',')
	if !strings.HasPrefix(dataURI, "data:") || comma < 0 {
		return ""
	}
	return dataURI[comma+1:]
}
