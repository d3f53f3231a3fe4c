// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/ik5/soundbox/audio"
)

// input is one recording and the button it lands on.
type input struct {
	button int
	path   string
	name   string
}

// scan lists the decodable files of dir. Files named by a number (01.mp3 .. 12.mp3) go
// to that button, counted from one. The rest fill the free buttons in name order.
func scan(reg *audio.Registry, dir string, buttons int) ([]input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	var named, loose []input
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if _, _, err := reg.ForPath(path); err != nil {
			continue
		}

		base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		in := input{button: -1, path: path, name: base}
		if n, err := strconv.Atoi(base); err == nil {
			in.button = n - 1
			in.name = fmt.Sprintf("%02d", n)
		}

		if in.button >= 0 {
			named = append(named, in)
		} else {
			loose = append(loose, in)
		}
	}

	taken := make([]bool, buttons)
	out := make([]input, 0, len(named)+len(loose))
	for _, in := range named {
		if in.button >= buttons {
			return nil, fmt.Errorf("%s: button %d of %d", in.path, in.button+1, buttons)
		}
		if taken[in.button] {
			return nil, fmt.Errorf("%s: button %d assigned twice", in.path, in.button+1)
		}
		taken[in.button] = true
		out = append(out, in)
	}

	slices.SortFunc(loose, func(a, b input) int { return strings.Compare(a.name, b.name) })
	next := 0
	for _, in := range loose {
		for next < buttons && taken[next] {
			next++
		}
		if next == buttons {
			return nil, fmt.Errorf("%s: no free button left", in.path)
		}
		in.button = next
		taken[next] = true
		out = append(out, in)
	}

	slices.SortFunc(out, func(a, b input) int { return a.button - b.button })

	return out, nil
}
