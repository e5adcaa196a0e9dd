package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/danmuck/memstream/internal/codec"
	"github.com/danmuck/memstream/internal/stream"
	"github.com/danmuck/memstream/internal/testutil/testlog"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordHTTPRequest("inspector-a", "GET", "/health", 200, 12*time.Millisecond)
	RecordFrame("frame_into", 16, nil)
	RecordFrame("frame_from", 0, errors.New("short"))

	testlog.Logf("observability/metrics: registration idempotent and recording paths executed")
}

func TestCodecMetricsCountsOperations(t *testing.T) {
	c, err := codec.New(codec.Options{Observer: CodecMetrics{}})
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	okBefore := testutil.ToFloat64(codecOps.WithLabelValues("encode", "UINT32", "true"))
	failBefore := testutil.ToFloat64(codecOps.WithLabelValues("encode", "UINT8", "false"))
	bytesBefore := testutil.ToFloat64(codecBytes.WithLabelValues("encode", "UINT32"))

	buf := stream.New()
	_ = c.Encode(buf, codec.TagUint32, 1)
	_ = c.Encode(buf, codec.TagUint32, 2)
	_ = c.Encode(buf, codec.TagUint8, 300)

	if got := testutil.ToFloat64(codecOps.WithLabelValues("encode", "UINT32", "true")) - okBefore; got != 2 {
		t.Fatalf("expected 2 successful encodes, got %v", got)
	}
	if got := testutil.ToFloat64(codecOps.WithLabelValues("encode", "UINT8", "false")) - failBefore; got != 1 {
		t.Fatalf("expected 1 failed encode, got %v", got)
	}
	if got := testutil.ToFloat64(codecBytes.WithLabelValues("encode", "UINT32")) - bytesBefore; got != 8 {
		t.Fatalf("expected 8 encoded bytes, got %v", got)
	}
}
