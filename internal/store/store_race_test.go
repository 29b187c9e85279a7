package store

import (
	"fmt"
	"sync"
	"testing"

	"twap-engine-go/order"
)

// TestStore_ConcurrentUpdates 并发读改写的安全性:不同键并行推进,
// 同键的累加不允许丢失更新。
func TestStore_ConcurrentUpdates(t *testing.T) {
	s := New()
	keys := []string{"ETH-USDC", "BTC-USDC", "SOL-USDC"}
	for _, k := range keys {
		if err := s.Put(k, activeOrder("alice", 1_000_000)); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}

	var wg sync.WaitGroup
	workers := 8
	operations := 200

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			key := keys[workerID%len(keys)]
			for i := 0; i < operations; i++ {
				_ = s.Update(key, func(o *order.Order) error {
					o.AmountSold++
					o.AmountBought++
					return nil
				})
			}
		}(w)
	}

	// 并发读取
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < operations; i++ {
				for _, k := range keys {
					_, _ = s.Get(k)
				}
				_ = s.Keys()
			}
		}()
	}

	wg.Wait()

	var total uint64
	for _, k := range keys {
		o, _ := s.Get(k)
		if o.AmountSold != o.AmountBought {
			t.Fatalf("key %s: torn update sold=%d bought=%d", k, o.AmountSold, o.AmountBought)
		}
		total += o.AmountSold
	}
	if want := uint64(workers * operations); total != want {
		t.Fatalf("lost updates: total=%d want=%d", total, want)
	}
}

// TestStore_ConcurrentPutDistinctKeys 并发首建不同键互不阻塞也不互相覆盖。
func TestStore_ConcurrentPutDistinctKeys(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("market-%02d", n)
			if err := s.Put(key, activeOrder("alice", uint64(n+1))); err != nil {
				t.Errorf("put %s: %v", key, err)
			}
		}(i)
	}
	wg.Wait()
	if got := len(s.Keys()); got != 32 {
		t.Fatalf("expected 32 active keys, got %d", got)
	}
}
