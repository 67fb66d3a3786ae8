package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/mhuels/posterforge/pkg/errors"
	"github.com/mhuels/posterforge/pkg/geometry"
	"github.com/mhuels/posterforge/pkg/stagger"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#1a1a1a", color.RGBA{26, 26, 26, 255}, false},
		{"1a1a1a", color.RGBA{26, 26, 26, 255}, false},
		{"#fff", color.RGBA{255, 255, 255, 255}, false},
		{"#f80", color.RGBA{255, 136, 0, 255}, false},
		{"white", color.RGBA{255, 255, 255, 255}, false},
		{"Gold", color.RGBA{255, 215, 0, 255}, false},
		{"", color.RGBA{}, true},
		{"#zzzzzz", color.RGBA{}, true},
		{"chartreuse", color.RGBA{}, true},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q) accepted, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poster.toml")
	content := `
title = "Release Schedule"
manga_title = "Some Manga"

[[schedule]]
date = "June 3"
volumes = [1, 2]

[[schedule]]
date = "July 1"
volumes = [3]

[shape]
kind = "hexagon"
width = 3.0

[stagger]
kind = "staircase"
offset = 0.25

[covers]
1 = "https://example.com/vol1.jpg"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Title != "Release Schedule" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if cfg.Shape.Kind != "hexagon" {
		t.Errorf("Shape.Kind = %q, want hexagon", cfg.Shape.Kind)
	}
	if cfg.Shape.Width != 3.0 {
		t.Errorf("Shape.Width = %v, want 3.0", cfg.Shape.Width)
	}
	// Unset fields keep their defaults.
	if cfg.Shape.Height != 3.5 {
		t.Errorf("Shape.Height = %v, want default 3.5", cfg.Shape.Height)
	}
	if cfg.Layout.Columns != 3 {
		t.Errorf("Layout.Columns = %v, want default 3", cfg.Layout.Columns)
	}
	if cfg.Stagger.Kind != "staircase" || cfg.Stagger.Offset != 0.25 {
		t.Errorf("Stagger = %+v", cfg.Stagger)
	}

	entries := cfg.Entries()
	if len(entries) != 2 || entries[0].Label != "June 3" || len(entries[0].Volumes) != 2 {
		t.Errorf("Entries() = %+v", entries)
	}

	urls := cfg.CoverURLs()
	if urls[1] != "https://example.com/vol1.jpg" {
		t.Errorf("CoverURLs() = %v", urls)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   errors.Code
	}{
		{"unknown shape", func(c *Config) { c.Shape.Kind = "triangle" }, errors.ErrCodeInvalidShape},
		{"zero width", func(c *Config) { c.Shape.Width = 0 }, errors.ErrCodeInvalidInput},
		{"unknown stagger", func(c *Config) { c.Stagger.Kind = "zigzag" }, errors.ErrCodeInvalidStagger},
		{"zero columns", func(c *Config) { c.Layout.Columns = 0 }, errors.ErrCodeInvalidLayout},
		{"shadow alpha above one", func(c *Config) { c.Shape.ShadowAlpha = 1.5 }, errors.ErrCodeInvalidInput},
		{"bad color", func(c *Config) { c.Style.BackgroundColor = "#nope" }, errors.ErrCodeInvalidConfig},
		{"zero dpi", func(c *Config) { c.Output.DPI = 0 }, errors.ErrCodeInvalidConfig},
		{"negative volume", func(c *Config) {
			c.Schedule = []Entry{{Date: "June 3", Volumes: []int{-1}}}
		}, errors.ErrCodeInvalidConfig},
		{"non-numeric cover key", func(c *Config) {
			c.Covers = map[string]string{"vol1": "https://example.com"}
		}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestPosterOptions(t *testing.T) {
	cfg := Default()
	cfg.Title = "Release Schedule"
	cfg.Schedule = []Entry{{Date: "June 3", Volumes: []int{1, 2}}}

	opts, err := cfg.PosterOptions()
	if err != nil {
		t.Fatalf("PosterOptions() error = %v", err)
	}

	if opts.Shape.Kind != geometry.Parallelogram {
		t.Errorf("Shape.Kind = %v", opts.Shape.Kind)
	}
	if opts.Shape.SkewDeg != 15 {
		t.Errorf("SkewDeg = %v, want 15", opts.Shape.SkewDeg)
	}
	if opts.Stagger.Kind != stagger.None {
		t.Errorf("Stagger.Kind = %v", opts.Stagger.Kind)
	}
	if opts.Frame.Width != 2.8 || opts.Frame.Height != 3.5 || opts.Frame.Spacing != 0.5 {
		t.Errorf("Frame = %+v", opts.Frame)
	}
	if opts.PixelsPerUnit != 200 {
		t.Errorf("PixelsPerUnit = %v, want 200", opts.PixelsPerUnit)
	}
	if opts.Style.BackgroundColor != (color.RGBA{26, 26, 26, 255}) {
		t.Errorf("BackgroundColor = %v", opts.Style.BackgroundColor)
	}
}
