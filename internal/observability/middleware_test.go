package observability

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestInstrumentLogsAndRecords(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var out bytes.Buffer
	logger := zerolog.New(&out).Level(zerolog.DebugLevel)

	r := gin.New()
	r.Use(Instrument("inspector-test", logger))
	r.POST("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("codec: type FLOAT no support"))
		c.Status(http.StatusBadRequest)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("inspector-test", "POST", "/fail", "400"))
	req := httptest.NewRequest(http.MethodPost, "/fail", strings.NewReader("{}"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if got := testutil.ToFloat64(httpRequests.WithLabelValues("inspector-test", "POST", "/fail", "400")) - before; got != 1 {
		t.Fatalf("expected one recorded request, got %v", got)
	}
	line := out.String()
	for _, want := range []string{`"level":"warn"`, `"route":"/fail"`, `"status":400`, "FLOAT no support"} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line missing %s: %s", want, line)
		}
	}
}
