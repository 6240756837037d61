// Copyright © 2017 Heptio
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rlog provides a generic logging interface for roscore, plus a
// logrus-backed implementation used by cmd/roscored.
package rlog

// A Logger represents the ability to log informational and error messages,
// with a verbosity-gated info path for the rosDebug config switch (spec.md
// §6, "rosDebug: Emit verbose diagnostic events").
type Logger interface {
	InfoLogger

	// Error logs an error message.
	Error(args ...interface{})

	// Errorf logs a formatted error message.
	Errorf(format string, args ...interface{})

	// V returns an InfoLogger gated at the given verbosity level. A higher
	// level means a message is less important; V(0) is always emitted,
	// higher levels are only emitted when rosDebug is set.
	V(level int) InfoLogger

	// WithPrefix returns a Logger that annotates every message with prefix,
	// used to tag messages by service/topic/poller name.
	WithPrefix(prefix string) Logger

	// WithField returns a Logger carrying one additional structured field,
	// forwarded to the logrus entry so fields survive across WithPrefix
	// calls instead of being flattened into the message text.
	WithField(key string, value interface{}) Logger
}

// An InfoLogger represents the ability to log informational messages.
type InfoLogger interface {
	Infof(format string, args ...interface{})
}
