// SPDX-License-Identifier: EPL-2.0

//go:build tinygo && rp2040

package rp2040

import "errors"

var (
	ErrNotClaimed    = errors.New("rp2040: dma channel not claimed")
	ErrTickerRunning = errors.New("rp2040: ticker already running")
)
