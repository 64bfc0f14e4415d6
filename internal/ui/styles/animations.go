// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"

	"github.com/jeranaias/novachat/internal/model"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// SpinnerConfig holds the configuration for a frame-based animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

// Frame returns the frame for the given tick count.
func (s SpinnerConfig) Frame(tick int) string {
	if len(s.Frames) == 0 {
		return ""
	}
	if tick < 0 {
		tick = -tick
	}
	return s.Frames[tick%len(s.Frames)]
}

// LineSpinner - simple line rotation, used while waiting on the model.
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// DotsSpinner - classic three-dot typing animation.
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// =============================================================================
// BACKGROUND ANIMATIONS
// =============================================================================

// Background animations render a short decorative strip in the header while
// the app is idle. Frames are ASCII-safe.

// OrbitAnimation - a satellite circling a star.
var OrbitAnimation = SpinnerConfig{
	Frames: []string{
		"   o  *    ",
		"  o   *    ",
		" o    *    ",
		"o     *    ",
		" o    *    ",
		"  o   *    ",
		"   o  *    ",
		"    o *    ",
		"     o*    ",
		"      *o   ",
		"      * o  ",
		"      *o   ",
		"     o*    ",
		"    o *    ",
	},
	FPS: 8,
}

// NebulaAnimation - drifting cloud shimmer.
var NebulaAnimation = SpinnerConfig{
	Frames: []string{
		"~ . ~ * ~ .",
		". ~ * ~ . ~",
		"~ * ~ . ~ *",
		"* ~ . ~ * ~",
		"~ . ~ * ~ .",
		". ~ * ~ . ~",
	},
	FPS: 4,
}

// PulseAnimation - expanding and contracting ring.
var PulseAnimation = SpinnerConfig{
	Frames: []string{
		"     .     ",
		"    (.)    ",
		"   ( o )   ",
		"  (  O  )  ",
		" (   O   ) ",
		"  (  O  )  ",
		"   ( o )   ",
		"    (.)    ",
	},
	FPS: 6,
}

// NoneAnimation - renders nothing.
var NoneAnimation = SpinnerConfig{
	Frames: []string{""},
	FPS:    1,
}

// AnimationFor returns the background animation for a setting. Unknown
// values fall back to the default animation.
func AnimationFor(a model.Animation) SpinnerConfig {
	switch a {
	case model.AnimationOrbit:
		return OrbitAnimation
	case model.AnimationNebula:
		return NebulaAnimation
	case model.AnimationPulse:
		return PulseAnimation
	case model.AnimationNone:
		return NoneAnimation
	default:
		return AnimationFor(model.DefaultAnimation)
	}
}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicators for various states (ASCII-only for compatibility).
var StatusIndicators = struct {
	Success string
	Error   string
	Warning string
	Info    string
}{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}

// TypingCursor characters for the blinking input cursor.
var TypingCursor = []string{"_", " "}

// CursorBlinkRate is the rate at which the cursor blinks.
var CursorBlinkRate = 530 * time.Millisecond
