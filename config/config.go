// Package config loads the demo host settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

const DefaultPath = "vgfb.toml"

type Window struct {
	Title  string
	Width  int32
	Height int32
	VSync  bool
}

type Framebuffer struct {
	Width  int32
	Height int32
	// Multisample renders into a multisampled target that is resolved every frame
	Multisample bool
	// Samples of 0 uses the context default
	Samples        int32
	NoRenderbuffer bool
}

type Config struct {
	Window      Window
	Framebuffer Framebuffer

	// SnapshotPath is where the resolved framebuffer is saved as a png
	SnapshotPath string
}

func Default() Config {
	return Config{
		Window: Window{
			Title:  "vgfb",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Framebuffer: Framebuffer{
			Width:       640,
			Height:      360,
			Multisample: true,
		},
		SnapshotPath: "snapshot.png",
	}
}

// Load reads path on top of the defaults. A missing file is not an error and returns the defaults.
func Load(path string) (Config, error) {

	c := Default()
	_, err := toml.DecodeFile(path, &c)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file '%s': %w", path, err)
	}

	return c, nil
}

// Decode parses toml text on top of the defaults
func Decode(data string) (Config, error) {

	c := Default()
	if _, err := toml.Decode(data, &c); err != nil {
		return Config{}, err
	}

	return c, c.Validate()
}

func (c *Config) Validate() error {

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	if c.Framebuffer.Width <= 0 || c.Framebuffer.Height <= 0 {
		return fmt.Errorf("framebuffer size must be positive, got %dx%d", c.Framebuffer.Width, c.Framebuffer.Height)
	}

	if c.Framebuffer.Samples < 0 {
		return fmt.Errorf("framebuffer samples can't be negative, got %d", c.Framebuffer.Samples)
	}

	return nil
}

func Save(path string, c *Config) error {

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}
