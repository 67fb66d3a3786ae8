// Package config loads and validates poster configuration files.
//
// Configuration is TOML. Every value has a default, so a minimal file
// only needs a title and a schedule; Validate runs before any rendering
// so a bad file is rejected whole.
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/mhuels/posterforge/pkg/errors"
	"github.com/mhuels/posterforge/pkg/geometry"
	"github.com/mhuels/posterforge/pkg/layout"
	"github.com/mhuels/posterforge/pkg/poster"
	"github.com/mhuels/posterforge/pkg/schedule"
	"github.com/mhuels/posterforge/pkg/stagger"
)

// Entry is one dated schedule row.
type Entry struct {
	Date    string `toml:"date"`
	Volumes []int  `toml:"volumes"`
}

// ShapeConfig describes the frame geometry.
type ShapeConfig struct {
	Kind        string  `toml:"kind"`
	Width       float64 `toml:"width"`
	Height      float64 `toml:"height"`
	Spacing     float64 `toml:"spacing"`
	SkewDeg     float64 `toml:"skew_angle"`
	RotationDeg float64 `toml:"rotation_angle"`
	BorderColor string  `toml:"border_color"`
	ShadowAlpha float64 `toml:"shadow_alpha"`
}

// StaggerConfig describes the vertical offset pattern within an entry.
type StaggerConfig struct {
	Kind   string  `toml:"kind"`
	Offset float64 `toml:"offset"`
}

// LayoutConfig holds the grid parameters in figure units.
type LayoutConfig struct {
	Columns           int     `toml:"columns"`
	TitleRowHeight    float64 `toml:"title_row_height"`
	VerticalPadding   float64 `toml:"vertical_padding"`
	BottomMargin      float64 `toml:"bottom_margin"`
	HorizontalPadding float64 `toml:"horizontal_padding"`
	ColumnSpacing     float64 `toml:"column_spacing"`
}

// StyleConfig holds colors, fonts, and cover treatment.
type StyleConfig struct {
	BackgroundColor string  `toml:"background_color"`
	TitleColor      string  `toml:"title_color"`
	TextColor       string  `toml:"text_color"`
	FontFamily      string  `toml:"font_family"`
	TitleBold       bool    `toml:"title_bold"`
	TitleFontSize   float64 `toml:"title_font_size"`
	DateFontSize    float64 `toml:"date_font_size"`
	CaptionFontSize float64 `toml:"caption_font_size"`
	ZoomFactor      float64 `toml:"zoom_factor"`
	VerticalOffset  float64 `toml:"vertical_offset"`
}

// LineArtConfig controls the optional background line art layer.
type LineArtConfig struct {
	Enabled bool    `toml:"enabled"`
	Path    string  `toml:"path"`
	Alpha   float64 `toml:"alpha"`
}

// OutputConfig controls where and how the poster is written.
type OutputConfig struct {
	Directory string `toml:"directory"`
	Filename  string `toml:"filename"`
	DPI       int    `toml:"dpi"`
}

// Config is the full poster description.
type Config struct {
	Title      string  `toml:"title"`
	MangaTitle string  `toml:"manga_title"`
	Schedule   []Entry `toml:"schedule"`

	Shape   ShapeConfig   `toml:"shape"`
	Stagger StaggerConfig `toml:"stagger"`
	Layout  LayoutConfig  `toml:"layout"`
	Style   StyleConfig   `toml:"style"`
	LineArt LineArtConfig `toml:"lineart"`
	Output  OutputConfig  `toml:"output"`

	// Covers maps volume numbers (as TOML keys, so strings) to URLs that
	// override the catalog lookup.
	Covers map[string]string `toml:"covers"`
}

// Default returns a configuration that renders a sensible poster with
// nothing but a title and schedule filled in.
func Default() Config {
	return Config{
		Shape: ShapeConfig{
			Kind:        string(geometry.Parallelogram),
			Width:       2.8,
			Height:      3.5,
			Spacing:     0.5,
			SkewDeg:     15,
			BorderColor: "white",
			ShadowAlpha: 0.4,
		},
		Stagger: StaggerConfig{
			Kind: string(stagger.None),
		},
		Layout: LayoutConfig{
			Columns:           3,
			TitleRowHeight:    3,
			VerticalPadding:   1,
			BottomMargin:      1,
			HorizontalPadding: -1,
			ColumnSpacing:     0.2,
		},
		Style: StyleConfig{
			BackgroundColor: "#1a1a1a",
			TitleColor:      "white",
			TextColor:       "white",
			FontFamily:      "Courier New",
			TitleBold:       true,
			TitleFontSize:   42,
			DateFontSize:    18,
			CaptionFontSize: 14,
			ZoomFactor:      0.95,
			VerticalOffset:  -0.1,
		},
		LineArt: LineArtConfig{
			Alpha: 0.15,
		},
		Output: OutputConfig{
			Directory: "output",
			Filename:  "poster.png",
			DPI:       200,
		},
	}
}

// Load reads a TOML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading config file %s", path)
	}
	return Parse(data)
}

// Parse applies TOML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field that rendering depends on. It fails on the
// first problem so the report points at one concrete fix.
func (c Config) Validate() error {
	if _, err := geometry.ParseShapeKind(c.Shape.Kind); err != nil {
		return err
	}
	if err := errors.ValidateDimension("shape width", c.Shape.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("shape height", c.Shape.Height); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("shape spacing", c.Shape.Spacing); err != nil {
		return err
	}
	if err := errors.ValidateFraction("shadow alpha", c.Shape.ShadowAlpha); err != nil {
		return err
	}
	if _, err := stagger.ParseKind(c.Stagger.Kind); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("stagger offset", c.Stagger.Offset); err != nil {
		return err
	}
	if c.Layout.Columns <= 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "columns must be positive, got %d", c.Layout.Columns)
	}
	if err := errors.ValidateFraction("line art alpha", c.LineArt.Alpha); err != nil {
		return err
	}
	if c.Output.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "dpi must be positive, got %d", c.Output.DPI)
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"border_color", c.Shape.BorderColor},
		{"background_color", c.Style.BackgroundColor},
		{"title_color", c.Style.TitleColor},
		{"text_color", c.Style.TextColor},
	} {
		if _, err := ParseColor(field.value); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", field.name)
		}
	}

	for _, entry := range c.Schedule {
		for _, vol := range entry.Volumes {
			if vol <= 0 {
				return errors.New(errors.ErrCodeInvalidConfig, "volume numbers must be positive, got %d in %q", vol, entry.Date)
			}
		}
	}
	for key := range c.Covers {
		if _, err := strconv.Atoi(key); err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "cover key %q is not a volume number", key)
		}
	}
	return nil
}

// Entries converts the schedule rows into engine entries.
func (c Config) Entries() []schedule.Entry {
	entries := make([]schedule.Entry, 0, len(c.Schedule))
	for _, e := range c.Schedule {
		entries = append(entries, schedule.Entry{Label: e.Date, Volumes: e.Volumes})
	}
	return entries
}

// CoverURLs converts the cover override table to volume-keyed form.
// Validate has already rejected non-numeric keys.
func (c Config) CoverURLs() map[int]string {
	urls := make(map[int]string, len(c.Covers))
	for key, url := range c.Covers {
		vol, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		urls[vol] = url
	}
	return urls
}

// PosterOptions assembles the full render input from the configuration.
func (c Config) PosterOptions() (poster.Options, error) {
	if err := c.Validate(); err != nil {
		return poster.Options{}, err
	}

	kind, err := geometry.ParseShapeKind(c.Shape.Kind)
	if err != nil {
		return poster.Options{}, err
	}
	staggerKind, err := stagger.ParseKind(c.Stagger.Kind)
	if err != nil {
		return poster.Options{}, err
	}

	background, err := ParseColor(c.Style.BackgroundColor)
	if err != nil {
		return poster.Options{}, err
	}
	titleColor, err := ParseColor(c.Style.TitleColor)
	if err != nil {
		return poster.Options{}, err
	}
	textColor, err := ParseColor(c.Style.TextColor)
	if err != nil {
		return poster.Options{}, err
	}
	borderColor, err := ParseColor(c.Shape.BorderColor)
	if err != nil {
		return poster.Options{}, err
	}

	return poster.Options{
		Title: c.Title,
		Shape: geometry.Shape{
			Kind:        kind,
			SkewDeg:     c.Shape.SkewDeg,
			RotationDeg: c.Shape.RotationDeg,
		},
		Frame: layout.FrameSize{
			Width:   c.Shape.Width,
			Height:  c.Shape.Height,
			Spacing: c.Shape.Spacing,
		},
		Stagger: stagger.Policy{
			Kind: staggerKind,
			Step: c.Stagger.Offset,
		},
		Layout: layout.Params{
			Columns:           c.Layout.Columns,
			TitleRowHeight:    c.Layout.TitleRowHeight,
			VerticalPadding:   c.Layout.VerticalPadding,
			BottomMargin:      c.Layout.BottomMargin,
			HorizontalPadding: c.Layout.HorizontalPadding,
			ColumnSpacing:     c.Layout.ColumnSpacing,
		},
		Style: poster.Style{
			BackgroundColor: background,
			TitleColor:      titleColor,
			TextColor:       textColor,
			BorderColor:     borderColor,
			FontFamily:      c.Style.FontFamily,
			TitleBold:       c.Style.TitleBold,
			TitleFontSize:   c.Style.TitleFontSize,
			DateFontSize:    c.Style.DateFontSize,
			CaptionFontSize: c.Style.CaptionFontSize,
			ShadowAlpha:     c.Shape.ShadowAlpha,
			ZoomFactor:      c.Style.ZoomFactor,
			VerticalOffset:  c.Style.VerticalOffset,
			LineArtAlpha:    c.LineArt.Alpha,
		},
		PixelsPerUnit: float64(c.Output.DPI),
	}, nil
}
