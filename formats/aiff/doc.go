// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// Integer PCM at 8, 16, 24 and 32 bits is supported. AIFF stores signed big-endian
// samples at every depth, including 8 bits.
package aiff
