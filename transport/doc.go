// SPDX-License-Identifier: EPL-2.0

// Package transport holds portable hw.Transport implementations.
//
// Timer is the interrupt-timer strategy: a periodic callback at the sample rate writes
// the next sample into the Timebase and advances a software cursor. It needs nothing
// but an hw.Ticker, which makes it the fallback for targets without a free DMA channel.
// It costs one interrupt per sample, so DMA transports are preferred where available.
package transport
