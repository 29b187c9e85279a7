// 自包含仿真:恒定乘积池当场所,内存账本当托管,手动时钟推进,
// 打印一张完整的分片执行账目。用来人工核对区间账齐不齐。
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"twap-engine-go/admin"
	"twap-engine-go/custody"
	"twap-engine-go/engine"
	"twap-engine-go/internal/store"
	"twap-engine-go/order"
	"twap-engine-go/venue"
)

const (
	market   = "ETH-USDC"
	trader   = "alice"
	engineID = "twap-engine"
)

type simClock struct{ now time.Time }

func (c *simClock) Now() time.Time { return c.now }

func main() {
	ctx := context.Background()
	clock := &simClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	ledger := custody.NewMemoryLedger()
	ledger.Mint(trader, custody.Base(market), 10_000)
	// 场所结算账户铺底 quote 侧,兑换所得从这里划回托管
	ledger.Mint(custody.VenueAccount, custody.Quote(market), 100_000)

	pool := venue.NewPool(1_000_000_000, 1_000_000_000, 30, engineID)
	st := store.New()

	eng, err := engine.New(engine.Config{
		Self:   engineID,
		Venue:  pool,
		Ledger: ledger,
		Store:  st,
		Params: admin.NewParams("ops", 24*time.Hour),
		Clock:  clock,
	})
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	// 池子的成交广播直接回灌触发器,引擎自己的兑换被递归保护拦下
	pool.OnActivity(func(actor string) {
		_ = eng.OnActivity(ctx, actor, market)
	})

	err = eng.Initiate(ctx, engine.InitiateParams{
		Key:               market,
		Initiator:         trader,
		TotalAmount:       1000,
		Duration:          1000 * time.Second,
		ExecutionInterval: 100 * time.Second,
		Direction:         order.AtoB,
	})
	if err != nil {
		log.Fatalf("initiate: %v", err)
	}
	fmt.Println("initiated: 1000 over 1000s, interval 100s")

	// 每 130s 来一笔外部成交,落在区间边界两侧
	for i := 0; i < 6; i++ {
		clock.now = clock.now.Add(130 * time.Second)
		if _, err := pool.Trade("carol", order.BtoA, 777); err != nil {
			log.Fatalf("trade: %v", err)
		}
		printState(eng, clock.now)
	}

	if err := eng.Claim(ctx, market, trader); err != nil {
		log.Fatalf("claim: %v", err)
	}
	fmt.Printf("claimed, trader quote balance: %d\n", ledger.Balance(trader, custody.Quote(market)))

	if err := eng.Cancel(ctx, market, trader); err != nil {
		log.Fatalf("cancel: %v", err)
	}
	fmt.Printf("cancelled, trader base balance: %d, quote balance: %d\n",
		ledger.Balance(trader, custody.Base(market)),
		ledger.Balance(trader, custody.Quote(market)))
}

func printState(eng *engine.Engine, now time.Time) {
	snap, err := eng.GetOrder(market)
	if err != nil {
		fmt.Printf("t=%s order released\n", now.Format("15:04:05"))
		return
	}
	fmt.Printf("t=%s executed=%d/%d sold=%d bought=%d remaining=%d progress=%d%%\n",
		now.Format("15:04:05"),
		snap.IntervalsExecuted, snap.TotalIntervals,
		snap.AmountSold, snap.AmountBought, snap.RemainingAmount,
		eng.ProgressPercent(market))
}
