// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Registry maps format names and file extensions to decoders.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Decoder
	exts   map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		exts:   make(map[string]string),
	}
}

// Register adds d under format and binds the given extensions (with or without the
// leading dot) to it. A later registration replaces an earlier one.
func (r *Registry) Register(format string, d Decoder, exts ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codecs[format] = d
	for _, e := range exts {
		r.exts[normExt(e)] = format
	}
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.codecs[format]
	return d, ok
}

// ForPath returns the decoder bound to path's extension and its format name.
func (r *Registry) ForPath(path string) (Decoder, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ext := normExt(filepath.Ext(path))
	format, ok := r.exts[ext]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	return r.codecs[format], format, nil
}

// Formats lists the registered format names in order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Sorted(maps.Keys(r.codecs))
}

// Open decodes the file at path. Closing the returned Source closes the file.
func (r *Registry) Open(path string) (Source, error) {
	d, format, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	src, err := d.Decode(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("decode %s as %s: %w", path, format, err)
	}

	return &fileSource{Source: src, f: f}, nil
}

type fileSource struct {
	Source
	f io.Closer
}

func (s *fileSource) Close() error {
	err := s.Source.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}

	return err
}

func normExt(e string) string {
	return strings.ToLower(strings.TrimPrefix(e, "."))
}
