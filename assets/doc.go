// SPDX-License-Identifier: EPL-2.0

// Package assets turns recordings into clips the box can play.
//
// A clip is a slice of duty-cycle levels at the box's sample rate. Convert runs any
// audio.Source through the mono, gain and resample stages and quantizes the result with
// level = (s + 32768) * top / 65535, so silence sits on the midpoint of the PWM range.
//
// Clips leave this package in one of two shapes: raw little-endian level files (LoadRaw
// and WriteRaw) for boards with a filesystem, or a generated Go package (WriteGo) that
// links the clips into the firmware image. Tone and ToneBank synthesize clips for boards
// without any assets.
package assets
