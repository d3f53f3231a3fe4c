// SPDX-License-Identifier: EPL-2.0

// Package rp2040 implements the hw contracts on a Raspberry Pi RP2040 under TinyGo.
//
// A Timebase owns one PWM slice and its audio pin. DMA streams 16-bit levels into the
// slice's compare register, paced by the slice's wrap data request, and reports the end of
// a buffer from the DMA_IRQ_0 handler. Ticker uses a second slice's wrap interrupt as a
// periodic timer for the 8-bit, timer-driven variant.
//
// Everything outside doc.go is built only with
//
//	tinygo build -target pico
package rp2040
