package config

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memstream.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadOverridesOnlyDefinedKeys(t *testing.T) {
	path := writeFile(t, `
byte_order = "big"
truncate_integers = true

[server]
addr = ":9400"
cors_origins = [" http://a ", ""]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Default()
	want.ByteOrder = "big"
	want.TruncateIntegers = true
	want.Server.Addr = ":9400"
	want.Server.CorsOrigins = []string{"http://a"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	order, err := cfg.Order()
	if err != nil || order != binary.BigEndian {
		t.Fatalf("expected big endian, got %v err=%v", order, err)
	}
}

func TestLoadRejectsUnknownKeysAndBadValues(t *testing.T) {
	if _, err := Load(writeFile(t, "byte_ordr = \"big\"\n")); err == nil || !strings.Contains(err.Error(), "byte_ordr") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
	if _, err := Load(writeFile(t, "byte_order = \"middle\"\n")); err == nil {
		t.Fatalf("expected byte order error")
	}
	if _, err := Load(writeFile(t, "narrow_charset = \"UTF-8\"\n")); err == nil {
		t.Fatalf("expected multi-byte charset error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestTemplateRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memstream.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("overwrite template: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("template does not load back to defaults (-want +got):\n%s", diff)
	}
}

func TestCodecOptionsFromConfig(t *testing.T) {
	cfg := Default()
	cfg.TruncateIntegers = true
	cfg.NarrowCharset = "windows-1252"
	opts, err := cfg.CodecOptions()
	if err != nil {
		t.Fatalf("codec options: %v", err)
	}
	if !opts.Truncate || opts.Charset != "windows-1252" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	streamOpts, err := cfg.StreamOptions()
	if err != nil || len(streamOpts) != 1 {
		t.Fatalf("stream options: %v %v", streamOpts, err)
	}
}
