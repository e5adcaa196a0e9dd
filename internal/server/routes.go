package server

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danmuck/memstream/internal/binding"
	"github.com/danmuck/memstream/internal/codec"
	"github.com/danmuck/memstream/internal/observability"
	"github.com/danmuck/memstream/internal/stream"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type TaggedValue struct {
	Tag   string          `json:"tag"`
	Value json.RawMessage `json:"value"`
}

type EncodeRequest struct {
	Values []TaggedValue `json:"values"`
	// Framed wraps the encoded stream with its cursors, as FrameInto does.
	Framed bool `json:"framed"`
}

type EncodeResponse struct {
	Hex    string `json:"hex"`
	Render string `json:"render"`
	Size   int    `json:"size"`
	Unread int    `json:"unread"`
}

type DecodeRequest struct {
	Hex    string   `json:"hex"`
	Tags   []string `json:"tags"`
	Framed bool     `json:"framed"`
}

type DecodeResponse struct {
	Values []any `json:"values"`
	RPos   int   `json:"rpos"`
	WPos   int   `json:"wpos"`
	Unread int   `json:"unread"`
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Node,
			"version": "0.0.1",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1")
	v1.GET("/tags", func(c *gin.Context) {
		tags := codec.Tags()
		labels := make([]string, 0, len(tags))
		for _, tag := range tags {
			labels = append(labels, tag.String())
		}
		c.JSON(http.StatusOK, gin.H{"tags": labels})
	})
	v1.POST("/encode", s.handleEncode)
	v1.POST("/decode", s.handleDecode)
}

func (s *Server) handleEncode(c *gin.Context) {
	var req EncodeRequest
	if !s.bind(c, &req) {
		return
	}
	resp, err := s.Encode(req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDecode(c *gin.Context) {
	var req DecodeRequest
	if !s.bind(c, &req) {
		return
	}
	resp, err := s.Decode(req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Encode appends each value in order and optionally frames the result.
func (s *Server) Encode(req EncodeRequest) (EncodeResponse, error) {
	st := binding.New(s.codec, s.streamOpts...).WithFrameObserver(observability.CodecMetrics{})
	for i, tv := range req.Values {
		tag, err := codec.ParseTag(tv.Tag)
		if err != nil {
			return EncodeResponse{}, fmt.Errorf("value %d: %w", i, err)
		}
		v, err := valueFromJSON(tag, tv.Value)
		if err != nil {
			return EncodeResponse{}, fmt.Errorf("value %d: %w", i, err)
		}
		if err := st.Append(tv.Tag, v); err != nil {
			return EncodeResponse{}, fmt.Errorf("value %d: %w", i, err)
		}
	}

	out := st.Buffer()
	if req.Framed {
		host := stream.New(s.streamOpts...)
		if err := st.AddToStream(host); err != nil {
			return EncodeResponse{}, err
		}
		out = host
	}
	return EncodeResponse{
		Hex:    out.Hex(),
		Render: out.String(),
		Size:   out.Size(),
		Unread: out.UnreadLength(),
	}, nil
}

// Decode reads one value per tag from the hex payload.
func (s *Server) Decode(req DecodeRequest) (DecodeResponse, error) {
	raw, err := hex.DecodeString(req.Hex)
	if err != nil {
		return DecodeResponse{}, fmt.Errorf("%w: hex: %v", errBadRequest, err)
	}
	st := binding.Wrap(stream.FromBytes(raw, s.streamOpts...), s.codec).
		WithFrameObserver(observability.CodecMetrics{})
	if req.Framed {
		st, err = st.CreateFromStream(st.Buffer())
		if err != nil {
			return DecodeResponse{}, err
		}
	}

	tags := make([]codec.Tag, 0, len(req.Tags))
	for _, label := range req.Tags {
		tag, err := codec.ParseTag(label)
		if err != nil {
			return DecodeResponse{}, err
		}
		tags = append(tags, tag)
	}
	buf := st.Buffer()
	values, err := s.codec.DecodeAll(buf, tags...)
	if err != nil {
		return DecodeResponse{}, err
	}
	for i, v := range values {
		values[i] = jsonSafe(v)
	}
	return DecodeResponse{
		Values: values,
		RPos:   buf.RPos(),
		WPos:   buf.WPos(),
		Unread: buf.UnreadLength(),
	}, nil
}

var errBadRequest = errors.New("server: bad request")

func (s *Server) bind(c *gin.Context, out any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody)
	if err := c.ShouldBindJSON(out); err != nil {
		s.fail(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return false
	}
	return true
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, codec.ErrUnsupportedType),
		errors.Is(err, codec.ErrTypeMismatch),
		errors.Is(err, codec.ErrValueRange),
		errors.Is(err, codec.ErrArgumentCount),
		errors.Is(err, stream.ErrUnderflow),
		errors.Is(err, stream.ErrInvalidCursor),
		errors.Is(err, stream.ErrBlobTooLarge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
