package admin

import (
	"errors"
	"testing"
	"time"

	"twap-engine-go/order"
)

func TestParamsOwnerGuard(t *testing.T) {
	p := NewParams("owner", 24*time.Hour)

	if err := p.SetMaxAllowedDuration("mallory", time.Hour); !errors.Is(err, order.ErrUnauthorizedCaller) {
		t.Fatalf("expected ErrUnauthorizedCaller, got %v", err)
	}
	if got := p.MaxAllowedDuration(); got != 24*time.Hour {
		t.Fatalf("duration mutated by non-owner: %v", got)
	}

	if err := p.SetMaxAllowedDuration("owner", 48*time.Hour); err != nil {
		t.Fatalf("owner set: %v", err)
	}
	if got := p.MaxAllowedDuration(); got != 48*time.Hour {
		t.Fatalf("duration = %v, want 48h", got)
	}

	if err := p.SetMaxAllowedDuration("owner", 0); err == nil {
		t.Fatal("expected error for non-positive duration")
	}

	if err := p.SetTreasury("mallory", "0xdead"); !errors.Is(err, order.ErrUnauthorizedCaller) {
		t.Fatalf("expected ErrUnauthorizedCaller, got %v", err)
	}
	if err := p.SetTreasury("owner", "0xfeed"); err != nil {
		t.Fatalf("owner set treasury: %v", err)
	}
	if got := p.Treasury(); got != "0xfeed" {
		t.Fatalf("treasury = %s", got)
	}
}
