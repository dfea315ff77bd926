// Tripatlas - Taxi Trip Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tripatlas

// Package cache provides the TTL cache used for API responses.
//
// Keys come from GenerateKey, which hashes the endpoint name together with its
// JSON-encoded filter so equal filters share an entry. Expired entries are
// removed lazily on Get and in bulk by Sweep, which the supervisor runs on a
// ticker.
//
// All methods are safe for concurrent use.
package cache
