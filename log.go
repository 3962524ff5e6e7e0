// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package timerwheel

import (
	"os"

	"github.com/rs/zerolog"
)

// log is the package-level structured logger. Callers embedding this
// module can redirect it (e.g. log = log.Output(w)) before use.
var log = zerolog.New(os.Stderr).With().Timestamp().Str("pkg", "timerwheel").Logger()

// dbg logs a debug-level diagnostic, formatting the message only if
// debug logging is actually enabled (the format call, not the level
// check, is the expensive part to avoid on a hot path).
func dbg(format string, args ...interface{}) {
	if e := log.Debug(); e.Enabled() {
		e.Msgf(format, args...)
	}
}

// warn logs a recoverable-oddity warning (the driver uses it when the
// clock is observed running backwards).
func warn(format string, args ...interface{}) {
	log.Warn().Msgf(format, args...)
}

// bug logs an invariant violation: a programmer error reached at
// runtime (e.g. wake() called on an id that should be unreachable). It
// does not panic; a checked, logged no-op is the safer default for a
// library whose caller may be holding other resources.
func bug(format string, args ...interface{}) {
	log.Error().Msgf("BUG: "+format, args...)
}
