// SPDX-License-Identifier: EPL-2.0

package assets

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/soundbox/audio"
	"github.com/ik5/soundbox/config"
	"github.com/ik5/soundbox/formats/aiff"
	"github.com/ik5/soundbox/formats/mp3"
	"github.com/ik5/soundbox/formats/vorbis"
	"github.com/ik5/soundbox/formats/wav"
	"github.com/ik5/soundbox/hw"
	"github.com/ik5/soundbox/utils"
)

// Format is the target of a conversion.
type Format struct {
	Rate int
	Top  uint16
	Gain float64
}

// FormatFor derives the clip format from a box configuration.
func FormatFor(cfg config.Config) Format {
	return Format{Rate: int(cfg.SampleRate), Top: cfg.Top(), Gain: cfg.Gain}
}

// DefaultRegistry knows every decoder under formats/.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{}, "wav", "wave")
	r.Register("mp3", mp3.Decoder{}, "mp3")
	r.Register("vorbis", vorbis.Decoder{}, "ogg", "oga")
	r.Register("aiff", aiff.Decoder{}, "aiff", "aif")

	return r
}

// Convert reads src to the end and returns its levels. src is not closed.
func Convert[S hw.Sample](src audio.Source, f Format) ([]S, error) {
	if err := checkTop[S](f.Top); err != nil {
		return nil, err
	}

	var chain audio.Source = audio.NewMonoMixer(src)
	if f.Gain != 0 && f.Gain != 1 {
		chain = audio.NewGain(chain, f.Gain)
	}
	if chain.SampleRate() != f.Rate {
		chain = audio.NewResampler(chain, f.Rate)
	}

	samples, err := audio.ReadAll(chain)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	return Quantize[S](samples, f.Top), nil
}

// Quantize maps normalized samples onto [0, top].
func Quantize[S hw.Sample](samples []float32, top uint16) []S {
	out := make([]S, len(samples))
	for i, v := range samples {
		out[i] = S(utils.Float32ToLevel(v, top))
	}

	return out
}

// RawExt marks files that already hold levels.
const RawExt = ".raw"

// Load decodes and converts the file at path. Raw level files are read as they are.
func Load[S hw.Sample](reg *audio.Registry, path string, f Format) ([]S, error) {
	if strings.EqualFold(filepath.Ext(path), RawExt) {
		return LoadRaw[S](path)
	}

	src, err := reg.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	clip, err := Convert[S](src, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return clip, nil
}

// LoadAll converts every binding in sounds (button index to path) concurrently. The
// first failure cancels the rest.
func LoadAll[S hw.Sample](ctx context.Context, reg *audio.Registry, sounds map[int]string, f Format) (map[int][]S, error) {
	var (
		mu  sync.Mutex
		out = make(map[int][]S, len(sounds))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, i := range slices.Sorted(maps.Keys(sounds)) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			clip, err := Load[S](reg, sounds[i], f)
			if err != nil {
				return fmt.Errorf("button %d: %w", i, err)
			}

			mu.Lock()
			out[i] = clip
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func checkTop[S hw.Sample](top uint16) error {
	if uint64(top) > uint64(^S(0)) {
		return fmt.Errorf("%w: %d > %d", ErrTopTooLarge, top, uint64(^S(0)))
	}

	return nil
}
