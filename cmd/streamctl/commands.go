package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/memstream/internal/binding"
	"github.com/danmuck/memstream/internal/codec"
	"github.com/danmuck/memstream/internal/config"
	"github.com/danmuck/memstream/internal/server"
	"github.com/danmuck/memstream/internal/stream"
	"github.com/rs/zerolog/log"
)

const usage = `usage: streamctl [-config path] <command> [args]

commands:
  encode [-framed] TAG=VALUE...   append values and print the stream as hex
  decode [-framed] -tags T1,T2 HEX
  inspect [-framed] HEX           show cursors and the rendered bytes
  serve                           run the HTTP inspector`

var errUsage = errors.New("invalid usage")

func run(args []string, out io.Writer) error {
	global := flag.NewFlagSet("streamctl", flag.ContinueOnError)
	global.SetOutput(io.Discard)
	configPath := global.String("config", "", "path to memstream TOML config")
	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w: %v\n%s", errUsage, err, usage)
	}
	rest := global.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w\n%s", errUsage, usage)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	e, err := newEnv(cfg)
	if err != nil {
		return err
	}

	switch rest[0] {
	case "encode":
		return e.encode(rest[1:], out)
	case "decode":
		return e.decode(rest[1:], out)
	case "inspect":
		return e.inspect(rest[1:], out)
	case "serve":
		srv, err := server.New(cfg)
		if err != nil {
			return err
		}
		return srv.Serve()
	default:
		return fmt.Errorf("%w: unknown command %q\n%s", errUsage, rest[0], usage)
	}
}

type env struct {
	codec      *codec.Codec
	streamOpts []stream.Option
}

func newEnv(cfg config.Config) (*env, error) {
	opts, err := cfg.CodecOptions()
	if err != nil {
		return nil, err
	}
	c, err := codec.New(opts)
	if err != nil {
		return nil, err
	}
	streamOpts, err := cfg.StreamOptions()
	if err != nil {
		return nil, err
	}
	return &env{codec: c, streamOpts: streamOpts}, nil
}

func (e *env) encode(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	framed := fs.Bool("framed", false, "wrap the stream with its cursors")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	st := binding.New(e.codec, e.streamOpts...)
	for _, arg := range fs.Args() {
		tag, v, err := codec.ParseAssignment(arg)
		if err != nil {
			return err
		}
		if err := st.Append(tag, v); err != nil {
			return fmt.Errorf("%s: %w", arg, err)
		}
	}
	result := st.Buffer()
	if *framed {
		host := stream.New(e.streamOpts...)
		if err := st.AddToStream(host); err != nil {
			return err
		}
		result = host
	}
	log.Debug().Int("values", fs.NArg()).Int("bytes", result.Size()).Bool("framed", *framed).Msg("encoded")
	_, err := fmt.Fprintln(out, result.Hex())
	return err
}

func (e *env) decode(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	framed := fs.Bool("framed", false, "input is a framed stream")
	tagList := fs.String("tags", "", "comma separated tags to decode in order")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	st, err := e.load(fs.Args(), *framed)
	if err != nil {
		return err
	}

	var tags []codec.Tag
	for _, label := range strings.Split(*tagList, ",") {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		tag, err := codec.ParseTag(label)
		if err != nil {
			return err
		}
		tags = append(tags, tag)
	}
	values, err := e.codec.DecodeAll(st.Buffer(), tags...)
	for i, v := range values {
		if _, werr := fmt.Fprintf(out, "%s\t%s\n", tags[i], formatValue(v)); werr != nil {
			return werr
		}
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "rpos=%d wpos=%d unread=%d\n", st.Buffer().RPos(), st.Buffer().WPos(), st.Len())
	return err
}

func (e *env) inspect(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	framed := fs.Bool("framed", false, "input is a framed stream")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	st, err := e.load(fs.Args(), *framed)
	if err != nil {
		return err
	}
	buf := st.Buffer()
	_, err = fmt.Fprintf(out, "size=%d rpos=%d wpos=%d unread=%d\n%s\n", buf.Size(), buf.RPos(), buf.WPos(), st.Len(), st)
	return err
}

func (e *env) load(args []string, framed bool) (*binding.Stream, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: expected one HEX argument", errUsage)
	}
	raw, err := hex.DecodeString(strings.TrimSpace(args[0]))
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	st := binding.Wrap(stream.FromBytes(raw, e.streamOpts...), e.codec)
	if framed {
		return st.CreateFromStream(st.Buffer())
	}
	return st, nil
}

func formatValue(v any) string {
	switch t := v.(type) {
	case *stream.Buffer:
		return t.String()
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
