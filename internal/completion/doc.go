// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package completion is the boundary to the hosted model service.
//
// The controller depends on the narrow Client interface: one prompt payload
// in, one full response (or failure) out. There is no streaming, no retry,
// and no backoff at this layer; every failure is terminal for that send.
//
// HTTPClient is the real adapter, speaking a generate-style JSON API.
// MockClient scripts responses for tests. The tone-to-persona table that
// shapes every request lives in prompt.go.
package completion
