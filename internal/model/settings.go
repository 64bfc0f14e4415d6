// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions, messages,
// and user settings.
package model

// =============================================================================
// TONE TYPE
// =============================================================================

// Tone is the persona/style directive applied to generated replies.
//
// The set is closed: values loaded from storage that are not listed here are
// replaced by DefaultTone rather than passed through.
type Tone string

const (
	ToneFormal   Tone = "formal"
	ToneInformal Tone = "informal"
	ToneHumorous Tone = "humorous"
	ToneNormal   Tone = "normal"
	ToneBrutal   Tone = "brutal"
)

// DefaultTone is used for new installs and for unknown persisted values.
const DefaultTone = ToneInformal

// Tones lists every valid tone in display order.
var Tones = []Tone{ToneFormal, ToneInformal, ToneHumorous, ToneNormal, ToneBrutal}

// Valid reports whether the tone is one of the enumerated values.
func (t Tone) Valid() bool {
	switch t {
	case ToneFormal, ToneInformal, ToneHumorous, ToneNormal, ToneBrutal:
		return true
	}
	return false
}

// String returns the string representation of the tone.
func (t Tone) String() string {
	return string(t)
}

// =============================================================================
// THEME TYPE
// =============================================================================

// Theme selects the color palette for the UI.
type Theme string

const (
	ThemeLight   Theme = "light"
	ThemeDark    Theme = "dark"
	ThemeSunrise Theme = "sunrise"
	ThemeRose    Theme = "rose"
)

// DefaultTheme is used for new installs and for unknown persisted values.
const DefaultTheme = ThemeDark

// Themes lists every valid theme in display order.
var Themes = []Theme{ThemeLight, ThemeDark, ThemeSunrise, ThemeRose}

// Valid reports whether the theme is one of the enumerated values.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSunrise, ThemeRose:
		return true
	}
	return false
}

// String returns the string representation of the theme.
func (t Theme) String() string {
	return string(t)
}

// =============================================================================
// ANIMATION TYPE
// =============================================================================

// Animation selects the idle background animation shown behind the chat.
type Animation string

const (
	AnimationOrbit  Animation = "orbit"
	AnimationNebula Animation = "nebula"
	AnimationPulse  Animation = "pulse"
	AnimationNone   Animation = "none"
)

// DefaultAnimation is used for new installs and for unknown persisted values.
const DefaultAnimation = AnimationOrbit

// Animations lists every valid animation in display order.
var Animations = []Animation{AnimationOrbit, AnimationNebula, AnimationPulse, AnimationNone}

// Valid reports whether the animation is one of the enumerated values.
func (a Animation) Valid() bool {
	switch a {
	case AnimationOrbit, AnimationNebula, AnimationPulse, AnimationNone:
		return true
	}
	return false
}

// String returns the string representation of the animation.
func (a Animation) String() string {
	return string(a)
}

// =============================================================================
// SETTINGS TYPE
// =============================================================================

// Settings holds the user-chosen generation and presentation preferences.
type Settings struct {
	Tone      Tone      `json:"tone"`
	Theme     Theme     `json:"theme"`
	Animation Animation `json:"animation"`
}

// DefaultSettings returns the settings used for a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Tone:      DefaultTone,
		Theme:     DefaultTheme,
		Animation: DefaultAnimation,
	}
}

// Normalize replaces any unknown enum value with its default. Values written
// by newer or older releases never pass through unvalidated.
func (s *Settings) Normalize() {
	if !s.Tone.Valid() {
		s.Tone = DefaultTone
	}
	if !s.Theme.Valid() {
		s.Theme = DefaultTheme
	}
	if !s.Animation.Valid() {
		s.Animation = DefaultAnimation
	}
}

// SettingsPatch is a partial settings update. Nil fields keep their current
// value; non-nil fields are shallow-merged in.
type SettingsPatch struct {
	Tone      *Tone
	Theme     *Theme
	Animation *Animation
}

// Apply merges the patch into the settings and normalizes the result.
func (s *Settings) Apply(patch SettingsPatch) {
	if patch.Tone != nil {
		s.Tone = *patch.Tone
	}
	if patch.Theme != nil {
		s.Theme = *patch.Theme
	}
	if patch.Animation != nil {
		s.Animation = *patch.Animation
	}
	s.Normalize()
}
