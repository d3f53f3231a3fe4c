// SPDX-License-Identifier: EPL-2.0

// Package audio is the decode side of the asset pipeline.
//
// A Source yields interleaved float32 samples in [-1, 1]. Decoders under formats/ produce
// Sources from files; the processors here are Sources wrapping other Sources, so a clip
// is prepared by chaining them:
//
//	src, _ := reg.Open(path)        // any registered format
//	mono := audio.NewMonoMixer(src) // average the channels
//	loud := audio.NewGain(mono, 2)  // clipped to [-1, 1]
//	out := audio.NewResampler(loud, 22050)
//	samples, _ := audio.ReadAll(out)
//
// Mixing before resampling halves the interpolation work for stereo input.
//
// ReadSamples follows the io.Reader convention: n values are valid even when err is
// non-nil, and io.EOF marks the end of the stream.
package audio
