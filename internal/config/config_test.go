package config

import (
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("IMOBLY_PORT", "")
	t.Setenv("IMOBLY_DB", filepath.Join(t.TempDir(), "test.db"))
	t.Setenv("IMOBLY_UPLOAD_DIR", "")
	t.Setenv("IMOBLY_CORS_ORIGINS", "")
	t.Setenv("IMOBLY_DEV", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.UploadDir != filepath.Join(filepath.Dir(cfg.DBPath), "uploads") {
		t.Errorf("upload dir = %q, expected sibling of db", cfg.UploadDir)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("cors origins = %v, want wildcard default", cfg.CORSOrigins)
	}
	if cfg.DevMode {
		t.Error("dev mode should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("IMOBLY_PORT", "9000")
	t.Setenv("IMOBLY_DB", "/tmp/imobly/x.db")
	t.Setenv("IMOBLY_UPLOAD_DIR", "/tmp/imobly/blobs")
	t.Setenv("IMOBLY_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("IMOBLY_DEV", "true")
	t.Setenv("IMOBLY_JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Port)
	}
	if cfg.UploadDir != "/tmp/imobly/blobs" {
		t.Errorf("upload dir = %q", cfg.UploadDir)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("cors origins = %v", cfg.CORSOrigins)
	}
	if !cfg.DevMode {
		t.Error("dev mode should be true")
	}
	if cfg.JWTSecret != "s3cret" {
		t.Errorf("jwt secret = %q", cfg.JWTSecret)
	}
}

func TestLoadBadPort(t *testing.T) {
	t.Setenv("IMOBLY_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}
