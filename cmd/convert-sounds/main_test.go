// SPDX-License-Identifier: EPL-2.0

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ik5/soundbox/assets"
	"github.com/ik5/soundbox/config"
	"github.com/ik5/soundbox/internal/audiotest"
)

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()

	dir := t.TempDir()
	wav := audiotest.WAV16(22050, 1, make([]int16, 2205))
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), wav, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return dir
}

func TestScan(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, "03.wav", "01.wav", "bell.wav", "alarm.wav", "notes.txt")
	if err := os.Mkdir(filepath.Join(dir, "sub.wav"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := scan(assets.DefaultRegistry(), dir, 12)
	if err != nil {
		t.Fatalf("scan() = %v", err)
	}

	want := []struct {
		button int
		name   string
	}{{0, "01"}, {1, "alarm"}, {2, "03"}, {3, "bell"}}
	if len(got) != len(want) {
		t.Fatalf("scan() found %d files, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].button != w.button || got[i].name != w.name {
			t.Errorf("input %d = {%d %s}, want {%d %s}", i, got[i].button, got[i].name, w.button, w.name)
		}
	}
}

func TestScanErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		files   []string
		buttons int
	}{
		{"beyond last button", []string{"13.wav"}, 12},
		{"twice", []string{"1.wav", "01.wav"}, 12},
		{"no free button", []string{"01.wav", "a.wav"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := writeFiles(t, tt.files...)
			if _, err := scan(assets.DefaultRegistry(), dir, tt.buttons); err == nil {
				t.Error("scan() succeeded")
			}
		})
	}
}

func newOptions(t *testing.T, in, format string) *options {
	t.Helper()

	return &options{
		in:      in,
		out:     t.TempDir(),
		format:  format,
		pkg:     "sounds",
		workers: 2,
		log:     slog.New(slog.DiscardHandler),
	}
}

func TestRunGo(t *testing.T) {
	t.Parallel()

	o := newOptions(t, writeFiles(t, "01.wav", "door-bell.wav"), "go")
	if err := run(t.Context(), o); err != nil {
		t.Fatalf("run() = %v", err)
	}

	src, err := os.ReadFile(filepath.Join(o.out, "sounds.go"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"package sounds", "var Sound01 = [...]uint16{", "var Sound02DoorBell", "const Top = 1088"} {
		if !strings.Contains(string(src), want) {
			t.Errorf("generated source lacks %q", want)
		}
	}
}

func TestRunRaw(t *testing.T) {
	t.Parallel()

	o := newOptions(t, writeFiles(t, "02.wav"), "raw")
	o.simple = true
	if err := run(t.Context(), o); err != nil {
		t.Fatalf("run() = %v", err)
	}

	cfg, err := config.Load(filepath.Join(o.out, "soundbox.json"))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Top() != 255 {
		t.Errorf("top = %d, want the 8-bit preset", cfg.Top())
	}

	path, ok := cfg.Sounds["1"]
	if !ok {
		t.Fatalf("sounds = %v, want button 1 bound", cfg.Sounds)
	}
	clip, err := assets.LoadRaw[uint8](path)
	if err != nil {
		t.Fatalf("LoadRaw() = %v", err)
	}
	if len(clip) == 0 {
		t.Error("raw clip is empty")
	}
}

func TestRunRejects(t *testing.T) {
	t.Parallel()

	if err := run(t.Context(), newOptions(t, writeFiles(t, "01.wav"), "mp3")); err == nil {
		t.Error("run() accepted an unknown output format")
	}
	if err := run(t.Context(), newOptions(t, t.TempDir(), "go")); err == nil {
		t.Error("run() accepted an empty directory")
	}
}
