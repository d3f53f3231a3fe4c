// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III through github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces interleaved stereo 16-bit little-endian PCM, so every Source
// from this package has two channels; mono files are duplicated by the decoder.
package mp3
