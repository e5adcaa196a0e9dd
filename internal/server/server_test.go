package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danmuck/memstream/internal/config"
	"github.com/danmuck/memstream/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	s.RegisterRoutes()
	return s
}

func do(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rr, req)
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return rr, out
}

func TestHealthAndTags(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t, nil)
	rr, body := do(t, s, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK || body["status"] != "ok" || body["service"] != "memstream" {
		t.Fatalf("unexpected health: %d %v", rr.Code, body)
	}
	rr, body = do(t, s, http.MethodGet, "/v1/tags", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("tags status %d", rr.Code)
	}
	tags := body["tags"].([]any)
	if len(tags) != 15 || tags[0] != "UINT8" || tags[14] != "BLOB" {
		t.Fatalf("unexpected tags: %v", tags)
	}
}

func TestEncodeThenDecodeFramed(t *testing.T) {
	testlog.Start(t)
	s := newTestServer(t, nil)
	rr, enc := do(t, s, http.MethodPost, "/v1/encode", `{
		"framed": true,
		"values": [
			{"tag": "UINT32", "value": 4294967295},
			{"tag": "UNICODE", "value": "héllo"},
			{"tag": "PY_DICT", "value": {"hp": 10}}
		]
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("encode status %d body=%v", rr.Code, enc)
	}
	if enc["size"].(float64) <= 12 {
		t.Fatalf("framed output too small: %v", enc)
	}

	req := `{"framed": true, "hex": "` + enc["hex"].(string) + `", "tags": ["UINT32", "UNICODE", "PY_DICT"]}`
	rr, dec := do(t, s, http.MethodPost, "/v1/decode", req)
	if rr.Code != http.StatusOK {
		t.Fatalf("decode status %d body=%v", rr.Code, dec)
	}
	want := []any{float64(4294967295), "héllo", map[string]any{"hp": float64(10)}}
	if diff := cmp.Diff(want, dec["values"]); diff != "" {
		t.Fatalf("decoded values mismatch (-want +got):\n%s", diff)
	}
	if dec["unread"].(float64) != 0 || dec["rpos"] != dec["wpos"] {
		t.Fatalf("cursor not advanced past all fields: %v", dec)
	}
}

func TestEncodeUnframedHexLayout(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.ByteOrder = "big" })
	rr, enc := do(t, s, http.MethodPost, "/v1/encode", `{"values":[{"tag":"UINT16","value":258},{"tag":"BLOB","value":"abcd"}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("encode status %d body=%v", rr.Code, enc)
	}
	if enc["hex"] != "0102abcd" || enc["size"].(float64) != 4 {
		t.Fatalf("unexpected encoding: %v", enc)
	}
}

func TestEncodeErrorsAreBadRequests(t *testing.T) {
	s := newTestServer(t, nil)
	cases := map[string]string{
		"unsupported tag": `{"values":[{"tag":"FLOAT","value":1}]}`,
		"range":           `{"values":[{"tag":"UINT8","value":256}]}`,
		"mismatch":        `{"values":[{"tag":"UINT8","value":"x"}]}`,
		"malformed":       `{"values":`,
	}
	for name, body := range cases {
		rr, out := do(t, s, http.MethodPost, "/v1/encode", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d body=%v", name, rr.Code, out)
		}
		if _, ok := out["error"].(string); !ok {
			t.Fatalf("%s: missing error: %v", name, out)
		}
	}
}

func TestDecodeUnderflowIsBadRequest(t *testing.T) {
	s := newTestServer(t, nil)
	rr, out := do(t, s, http.MethodPost, "/v1/decode", `{"hex":"0100","tags":["UINT32"]}`)
	if rr.Code != http.StatusBadRequest || !strings.Contains(out["error"].(string), "underflow") {
		t.Fatalf("expected underflow 400, got %d %v", rr.Code, out)
	}
	rr, out = do(t, s, http.MethodPost, "/v1/decode", `{"hex":"05000000","framed":true}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected truncated frame 400, got %d %v", rr.Code, out)
	}
}

func TestDecodeGarbageCompositeIsBadRequest(t *testing.T) {
	s := newTestServer(t, nil)
	rr, out := do(t, s, http.MethodPost, "/v1/decode", `{"hex":"01000000ff","tags":["PY_DICT"]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for undecodable composite, got %d %v", rr.Code, out)
	}
}

func TestDecodeNonFiniteFloatsRenderAsText(t *testing.T) {
	s := newTestServer(t, nil)
	// CBOR float64 NaN, then a list of +Inf and -Inf.
	nan := "09000000fb7ff8000000000000"
	infs := "13000000" + "82" + "fb7ff0000000000000" + "fbfff0000000000000"
	rr, out := do(t, s, http.MethodPost, "/v1/decode", `{"hex":"`+nan+infs+`","tags":["PYTHON","PY_LIST"]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("decode status %d body=%v", rr.Code, out)
	}
	want := []any{"NaN", []any{"+Inf", "-Inf"}}
	if diff := cmp.Diff(want, out["values"]); diff != "" {
		t.Fatalf("decoded values mismatch (-want +got):\n%s", diff)
	}
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Server.MaxBodyBytes = 16 })
	rr, _ := do(t, s, http.MethodPost, "/v1/encode", `{"values":[{"tag":"UNICODE","value":"this is too long"}]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized body, got %d", rr.Code)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.NarrowCharset = "UTF-16"
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected invalid config to be rejected")
	}
}
