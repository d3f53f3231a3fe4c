// SPDX-License-Identifier: EPL-2.0

package sim

import "errors"

var (
	ErrNotClaimed    = errors.New("sim: transport channel not claimed")
	ErrTickerRunning = errors.New("sim: ticker already running")
	ErrUnknownPin    = errors.New("sim: pin is not listening")
)
