// Package server exposes the codec over HTTP for inspecting and producing
// encoded streams. Every request owns its own buffers.
package server

import (
	"time"

	"github.com/danmuck/memstream/internal/codec"
	"github.com/danmuck/memstream/internal/config"
	"github.com/danmuck/memstream/internal/observability"
	"github.com/danmuck/memstream/internal/stream"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Server struct {
	Node     string
	Addr     string
	Appeared time.Time

	codec      *codec.Codec
	streamOpts []stream.Option
	maxBody    int64
	router     *gin.Engine
}

func New(cfg config.Config) (*Server, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	opts, err := cfg.CodecOptions()
	if err != nil {
		return nil, err
	}
	opts.Observer = observability.CodecMetrics{}
	c, err := codec.New(opts)
	if err != nil {
		return nil, err
	}
	streamOpts, err := cfg.StreamOptions()
	if err != nil {
		return nil, err
	}

	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.Instrument(cfg.Server.Node, log.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CorsOrigins,
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Server{
		Node:       cfg.Server.Node,
		Addr:       cfg.Server.Addr,
		Appeared:   time.Now(),
		codec:      c,
		streamOpts: streamOpts,
		maxBody:    cfg.Server.MaxBodyBytes,
		router:     r,
	}, nil
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) Serve() error {
	s.RegisterRoutes()
	log.Info().Str("node", s.Node).Str("addr", s.Addr).Msg("stream inspector listening")
	return s.router.Run(s.Addr)
}
