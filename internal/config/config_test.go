package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Render.FPS != 25 {
		t.Fatalf("default fps = %d, want 25", cfg.Render.FPS)
	}
	if cfg.Render.TransitionSec != 0.8 {
		t.Fatalf("default transition = %v, want 0.8", cfg.Render.TransitionSec)
	}
	if cfg.Render.StallTimeoutSec != 60 {
		t.Fatalf("default stall timeout = %d, want 60", cfg.Render.StallTimeoutSec)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Audio.ACodec != "aac" {
		t.Fatalf("expected default acodec, got %q", cfg.Audio.ACodec)
	}
}

func TestLoadMergesPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promoreel.yaml")
	body := []byte("render:\n  stall_timeout_s: 90\nprofiles:\n  final:\n    width: 3840\n    height: 2160\n    preset: slow\n    crf: 18\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Render.StallTimeoutSec != 90 {
		t.Fatalf("stall timeout = %d, want 90", cfg.Render.StallTimeoutSec)
	}
	if cfg.Render.FPS != 25 {
		t.Fatalf("fps should default to 25, got %d", cfg.Render.FPS)
	}
	final := cfg.Profiles["final"]
	if final.Width != 3840 || final.Preset != "slow" {
		t.Fatalf("final profile not overridden: %+v", final)
	}
	if _, ok := cfg.Profiles["preview"]; !ok {
		t.Fatalf("preview profile should be filled from defaults")
	}
}

func TestProfileNamed(t *testing.T) {
	cfg := Default()
	p, err := cfg.ProfileNamed("")
	if err != nil {
		t.Fatalf("ProfileNamed default: %v", err)
	}
	if p.Width != 1280 {
		t.Fatalf("default profile width = %d, want 1280", p.Width)
	}
	if _, err := cfg.ProfileNamed("missing"); err == nil {
		t.Fatalf("expected error for unknown profile")
	}
}

func TestValidateRejectsBadProfile(t *testing.T) {
	cfg := Default()
	cfg.Profiles["broken"] = Profile{Width: 0, Height: 720, CRF: 23}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for zero width")
	}
}
