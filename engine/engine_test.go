package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"twap-engine-go/admin"
	"twap-engine-go/custody"
	"twap-engine-go/engine"
	"twap-engine-go/internal/store"
	"twap-engine-go/order"
)

const (
	market   = "ETH-USDC"
	alice    = "alice"
	engineID = "twap-engine"
)

var testStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeClock 手动推进的时钟。
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: testStart} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// mockVenue 一比一兑换的场所,可注入失败。
type mockVenue struct {
	mu    sync.Mutex
	swaps []uint64
	fail  error
}

func (v *mockVenue) Swap(ctx context.Context, dir order.Direction, amountIn uint64) (uint64, uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.fail != nil {
		return 0, 0, v.fail
	}
	v.swaps = append(v.swaps, amountIn)
	return amountIn, amountIn, nil
}

func (v *mockVenue) setFail(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fail = err
}

func (v *mockVenue) swapCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.swaps)
}

type testRig struct {
	eng    *engine.Engine
	clock  *fakeClock
	venue  *mockVenue
	ledger *custody.MemoryLedger
	store  *store.Store
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	rig := &testRig{
		clock:  newFakeClock(),
		venue:  &mockVenue{},
		ledger: custody.NewMemoryLedger(),
		store:  store.New(),
	}
	rig.ledger.Mint(alice, custody.Base(market), 10_000)
	// 场所结算账户预置 quote 侧余额,兑换所得从这里划回托管
	rig.ledger.Mint(custody.VenueAccount, custody.Quote(market), 100_000)

	eng, err := engine.New(engine.Config{
		Self:   engineID,
		Venue:  rig.venue,
		Ledger: rig.ledger,
		Store:  rig.store,
		Params: admin.NewParams("owner", 24*time.Hour),
		Clock:  rig.clock,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	rig.eng = eng
	return rig
}

// initiateDefault 1000 本金 / 1000s / 100s,10 个区间。
func (r *testRig) initiateDefault(t *testing.T) {
	t.Helper()
	err := r.eng.Initiate(context.Background(), engine.InitiateParams{
		Key:               market,
		Initiator:         alice,
		TotalAmount:       1000,
		Duration:          1000 * time.Second,
		ExecutionInterval: 100 * time.Second,
		Direction:         order.AtoB,
	})
	if err != nil {
		t.Fatalf("initiate: %v", err)
	}
}

func (r *testRig) mustGet(t *testing.T) order.Order {
	t.Helper()
	o, ok := r.store.Get(market)
	if !ok {
		t.Fatal("expected active order")
	}
	return o
}

func assertErrIs(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("got error %v, want %v", err, want)
	}
}
