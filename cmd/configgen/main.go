package main

import (
	"flag"

	"github.com/danmuck/memstream/internal/config"
	"github.com/danmuck/memstream/internal/logging"
	"github.com/danmuck/memstream/internal/observability"
	"github.com/rs/zerolog/log"
)

const defaultPath = "memstream.toml"

func main() {
	logging.ConfigureRuntime()
	observability.InitLogger("configgen")

	output := flag.String("output", defaultPath, "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", defaultPath, "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		cfg, err := config.Load(*input)
		if err != nil {
			log.Fatal().Err(err).Str("path", *input).Msg("config invalid")
		}
		log.Info().Str("path", *input).Str("byte_order", cfg.ByteOrder).Str("charset", cfg.NarrowCharset).Msg("config validated")
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal().Err(err).Msg("write template")
	}
	log.Info().Str("path", *output).Msg("wrote config template")
}
