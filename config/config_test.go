package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDecode(t *testing.T) {

	c, err := Decode(`
SnapshotPath = "out.png"

[Window]
Title = "test"
Width = 800

[Framebuffer]
Multisample = false
Samples = 2
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Window.Title != "test" || c.Window.Width != 800 {
		t.Errorf("unexpected window config: %+v", c.Window)
	}

	// Keys not in the file keep their defaults
	if c.Window.Height != 720 || !c.Window.VSync || c.Framebuffer.Width != 640 {
		t.Errorf("expected defaults to be kept, got %+v", c)
	}

	if c.Framebuffer.Multisample || c.Framebuffer.Samples != 2 || c.SnapshotPath != "out.png" {
		t.Errorf("unexpected framebuffer config: %+v", c)
	}
}

func TestDecodeInvalid(t *testing.T) {

	tests := map[string]string{
		"syntax":           "[Window",
		"window-size":      "[Window]\nWidth = 0",
		"framebuffer-size": "[Framebuffer]\nHeight = -5",
		"samples":          "[Framebuffer]\nSamples = -1",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(data); err == nil {
				t.Errorf("expected an error for %q", data)
			}
		})
	}
}

func TestLoadSave(t *testing.T) {

	dir := t.TempDir()

	c, err := Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("expected a missing file to give defaults, got %v", err)
	}

	if c != Default() {
		t.Errorf("expected defaults, got %+v", c)
	}

	c.Framebuffer.Samples = 8
	c.Window.Title = "saved"
	path := filepath.Join(dir, DefaultPath)
	if err := Save(path, &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loaded != c {
		t.Errorf("expected %+v, got %+v", c, loaded)
	}

	if err := os.WriteFile(path, []byte("[Window]\nWidth = -1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Errorf("expected an invalid file to fail")
	}
}
