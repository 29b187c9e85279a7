package order

import (
	"testing"
	"time"
)

func TestOrderDerived(t *testing.T) {
	o := newTestOrder()
	if !o.Active() {
		t.Fatal("expected active")
	}
	if got := o.AmountPerInterval(); got != 100 {
		t.Fatalf("amount per interval = %d, want 100", got)
	}
	if got := o.Remaining(); got != 1000 {
		t.Fatalf("remaining = %d, want 1000", got)
	}

	o.AmountSold = 1000
	o.AmountBought = 980
	o.AmountClaimed = 300
	if !o.Complete() {
		t.Fatal("expected complete")
	}
	if got := o.Remaining(); got != 0 {
		t.Fatalf("remaining = %d, want 0", got)
	}
	if got := o.Unclaimed(); got != 680 {
		t.Fatalf("unclaimed = %d, want 680", got)
	}
}

func TestOrderRemainingTime(t *testing.T) {
	o := newTestOrder()
	if got := o.RemainingTime(t0.Add(400 * time.Second)); got != 600*time.Second {
		t.Fatalf("remaining time = %v, want 600s", got)
	}
	if got := o.RemainingTime(t0.Add(2000 * time.Second)); got != 0 {
		t.Fatalf("remaining time = %v, want 0", got)
	}
}

func TestEmptyOrderInactive(t *testing.T) {
	var o Order
	if o.Active() || o.Complete() {
		t.Fatal("zero order must be inactive")
	}
	if o.AmountPerInterval() != 0 {
		t.Fatal("zero order has no per-interval amount")
	}
}
