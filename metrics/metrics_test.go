package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordExecution(t *testing.T) {
	before := testutil.ToFloat64(IntervalsExecuted.WithLabelValues("ETH-USDC"))
	RecordExecution("ETH-USDC", 3, 300, 297, 2*time.Millisecond)
	after := testutil.ToFloat64(IntervalsExecuted.WithLabelValues("ETH-USDC"))
	if after-before != 3 {
		t.Fatalf("intervals delta = %f, want 3", after-before)
	}
	if got := testutil.ToFloat64(PrincipalSold.WithLabelValues("ETH-USDC")); got < 300 {
		t.Fatalf("principal sold = %f", got)
	}
}

func TestRecordTrigger(t *testing.T) {
	before := testutil.ToFloat64(TriggerTotal.WithLabelValues("noop"))
	RecordTrigger("noop")
	RecordTrigger("noop")
	after := testutil.ToFloat64(TriggerTotal.WithLabelValues("noop"))
	if after-before != 2 {
		t.Fatalf("trigger delta = %f, want 2", after-before)
	}
}
