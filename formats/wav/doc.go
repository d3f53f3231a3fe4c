// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes RIFF WAVE files through github.com/go-audio/wav.
//
// Decode accepts integer PCM at 8, 16, 24 or 32 bits with any channel count and rate.
// A reader that cannot seek is buffered in memory first, because the chunk walk needs
// to seek. Encode writes mono 16-bit PCM and is what the simulator records to.
package wav
