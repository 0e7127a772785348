package main

import (
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/wb-go/wbf/zlog"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func TestRootCommandRequiresPrefixFlags(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error when prefixes are missing")
	}
}

func TestRootCommandFlagDefaults(t *testing.T) {
	cmd := newRootCommand()

	if f := cmd.Flags().Lookup("img-size"); f == nil || f.DefValue != "1800" {
		t.Fatalf("img-size default = %v, want 1800", f)
	}
	if f := cmd.Flags().Lookup("bin-thresh"); f == nil || f.DefValue != "180" {
		t.Fatalf("bin-thresh default = %v, want 180", f)
	}
}

func TestRootCommandRunsLocalBatch(t *testing.T) {
	base := t.TempDir()
	inputRoot := filepath.Join(base, "input")
	outputRoot := filepath.Join(base, "output")

	srcDir := filepath.Join(inputRoot, "scans")
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, 100, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	if err := imaging.Save(img, filepath.Join(srcDir, "a.jpg")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	configPath := filepath.Join(base, "config.yml")
	content := "paths:\n  input_root: " + inputRoot + "\n  output_root: " + outputRoot + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cmd := newRootCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{
		"--config", configPath,
		"--src-prefix", "scans",
		"--dest-prefix", "clean",
		"--img-size", "200",
	})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	out, err := imaging.Open(filepath.Join(outputRoot, "clean", "a.jpg"))
	if err != nil {
		t.Fatalf("Open output: %v", err)
	}
	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 100 {
		t.Fatalf("output bounds = %v, want 200x100", out.Bounds())
	}
}
