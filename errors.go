// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package timerwheel

import (
	"errors"
)

// ErrDurationTooLong is returned by Register when the requested delay
// meets or exceeds the wheel's maximum span (24h).
var ErrDurationTooLong = errors.New("timerwheel: duration too long")

// ErrUnknownTimer is returned by Poll or Drop when called with a TimerID
// that was never issued or whose slot has already been reclaimed.
var ErrUnknownTimer = errors.New("timerwheel: unknown or already-reclaimed timer")
