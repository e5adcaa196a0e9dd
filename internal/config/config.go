package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ByteOrder        string       `toml:"byte_order"`
	NarrowCharset    string       `toml:"narrow_charset"`
	TruncateIntegers bool         `toml:"truncate_integers"`
	Server           ServerConfig `toml:"server"`
}

type ServerConfig struct {
	Node         string   `toml:"node"`
	Addr         string   `toml:"addr"`
	CorsOrigins  []string `toml:"cors_origins"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

func Default() Config {
	return Config{
		ByteOrder:     "little",
		NarrowCharset: "ISO-8859-1",
		Server: ServerConfig{
			Node:         "memstream",
			Addr:         ":9300",
			CorsOrigins:  []string{"http://localhost:3000"},
			MaxBodyBytes: 1 << 20,
		},
	}
}

// Load reads a TOML file over Default(). Keys absent from the file keep their
// defaults; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("byte_order") {
		cfg.ByteOrder = strings.TrimSpace(raw.ByteOrder)
	}
	if meta.IsDefined("narrow_charset") {
		cfg.NarrowCharset = strings.TrimSpace(raw.NarrowCharset)
	}
	if meta.IsDefined("truncate_integers") {
		cfg.TruncateIntegers = raw.TruncateIntegers
	}
	if meta.IsDefined("server", "node") {
		cfg.Server.Node = strings.TrimSpace(raw.Server.Node)
	}
	if meta.IsDefined("server", "addr") {
		cfg.Server.Addr = strings.TrimSpace(raw.Server.Addr)
	}
	if meta.IsDefined("server", "cors_origins") {
		cfg.Server.CorsOrigins = normalizeOrigins(raw.Server.CorsOrigins)
	}
	if meta.IsDefined("server", "max_body_bytes") {
		cfg.Server.MaxBodyBytes = raw.Server.MaxBodyBytes
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, err := cfg.Order(); err != nil {
		return err
	}
	if _, err := cfg.CodecOptions(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Server.Node) == "" {
		return fmt.Errorf("server config missing node")
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return fmt.Errorf("server config missing addr")
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server max_body_bytes must be positive, got %d", cfg.Server.MaxBodyBytes)
	}
	return nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
