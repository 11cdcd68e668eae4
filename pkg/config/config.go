// Package config handles texview.toml viewer configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"

	"texview/pkg/display"
	"texview/pkg/document"
	"texview/pkg/glyph"
	"texview/pkg/layout"
	"texview/pkg/vfs"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "texview.toml"

// Config is the whole viewer configuration.
type Config struct {
	Viewer  Viewer  `toml:"viewer"`
	Layout  Layout  `toml:"layout"`
	Metrics Metrics `toml:"metrics"`
	Display Display `toml:"display"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// Viewer selects the document and where documents are kept.
type Viewer struct {
	Document   string `toml:"document"`
	Storage    string `toml:"storage"`
	ScrollStep int    `toml:"scroll_step"`
}

// Layout is the page geometry in pixels.
type Layout struct {
	Left     int `toml:"left"`
	Right    int `toml:"right"`
	Top      int `toml:"top"`
	Bottom   int `toml:"bottom"`
	Leading  int `toml:"leading"`
	SupRaise int `toml:"sup_raise"`
	SupDown  int `toml:"sup_down"`
	SubShift int `toml:"sub_shift"`
}

// Metrics are the fixed sizes of the metrics pass.
type Metrics struct {
	SubDescent int `toml:"sub_descent"`
	FracGap    int `toml:"frac_gap"`
	FracBar    int `toml:"frac_bar"`
	FracPad    int `toml:"frac_pad"`
}

// Display configures the desktop window.
type Display struct {
	Scale int `toml:"scale"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Viewer: Viewer{Document: "DOC1", Storage: "storage", ScrollStep: 8},
		Layout: Layout{
			Left:     layout.DefaultLeft,
			Right:    layout.DefaultRight,
			Top:      layout.DefaultTop,
			Bottom:   layout.DefaultBottom,
			Leading:  layout.DefaultLeading,
			SupRaise: layout.DefaultSupRaise,
			SupDown:  layout.DefaultSupDown,
			SubShift: layout.DefaultSubShift,
		},
		Metrics: Metrics{SubDescent: 6, FracGap: 2, FracBar: 2, FracPad: 4},
		Display: Display{Scale: 2},
	}
}

// Load reads a configuration file over the defaults and applies the
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse error in %s: %w", path, err)
		}
		c.Path = path
	}

	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find a texview.toml file and loads
// it. Without one it returns the defaults.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			c := Default()
			c.applyEnv()
			return c, c.Validate()
		}
		dir = parent
	}
}

func (c *Config) applyEnv() {
	c.Viewer.Document = envOr("TEXVIEW_DOC", c.Viewer.Document)
	c.Viewer.Storage = envOr("TEXVIEW_STORAGE", c.Viewer.Storage)
	c.Display.Scale = envInt("TEXVIEW_SCALE", c.Display.Scale)
}

// Validate checks that the geometry fits the screen.
func (c *Config) Validate() error {
	l := c.Layout
	switch {
	case !vfs.ValidName(c.Viewer.Document):
		return fmt.Errorf("viewer.document %q: %w", c.Viewer.Document, vfs.ErrInvalidName)
	case c.Viewer.ScrollStep <= 0:
		return fmt.Errorf("viewer.scroll_step must be positive, got %d", c.Viewer.ScrollStep)
	case l.Left < 0 || l.Right > display.Width || l.Left >= l.Right:
		return fmt.Errorf("layout: need 0 <= left < right <= %d, got %d..%d", display.Width, l.Left, l.Right)
	case l.Top < 0 || l.Bottom > display.Height || l.Top >= l.Bottom:
		return fmt.Errorf("layout: need 0 <= top < bottom <= %d, got %d..%d", display.Height, l.Top, l.Bottom)
	case l.Leading < 0:
		return fmt.Errorf("layout.leading must not be negative, got %d", l.Leading)
	case c.Metrics.SubDescent < 0 || c.Metrics.FracGap < 0 || c.Metrics.FracBar < 0 || c.Metrics.FracPad < 0:
		return errors.New("metrics must not be negative")
	case c.Display.Scale < 1:
		return fmt.Errorf("display.scale must be at least 1, got %d", c.Display.Scale)
	}
	return nil
}

// DocumentMetrics returns the metrics pass settings for face.
func (c *Config) DocumentMetrics(face *glyph.Face) document.Metrics {
	m := document.DefaultMetrics(face)
	m.SubDescent = c.Metrics.SubDescent
	m.FracGap = c.Metrics.FracGap
	m.FracBar = c.Metrics.FracBar
	m.FracPad = c.Metrics.FracPad
	return m
}

// Engine returns a layout engine with the configured geometry.
func (c *Config) Engine(face *glyph.Face) *layout.Engine {
	e := layout.NewEngine(c.DocumentMetrics(face))
	e.Left, e.Right = c.Layout.Left, c.Layout.Right
	e.Top, e.Bottom = c.Layout.Top, c.Layout.Bottom
	e.Leading = c.Layout.Leading
	e.SupRaise, e.SupDown, e.SubShift = c.Layout.SupRaise, c.Layout.SupDown, c.Layout.SubShift
	return e
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
