package engine

import (
	"time"

	"twap-engine-go/order"
)

// Snapshot 查询面的订单视图,附带派生字段。
type Snapshot struct {
	order.Order
	RemainingTime   time.Duration `json:"remaining_time"`
	RemainingAmount uint64        `json:"remaining_amount"`
	Unclaimed       uint64        `json:"unclaimed"`
}

// GetOrder 返回键上的订单快照,键为空时返回 ErrOrderNotFound。只读,无副作用。
func (e *Engine) GetOrder(key string) (Snapshot, error) {
	o, ok := e.store.Get(key)
	if !ok {
		return Snapshot{}, order.ErrOrderNotFound
	}
	now := e.clock.Now()
	return Snapshot{
		Order:           o,
		RemainingTime:   o.RemainingTime(now),
		RemainingAmount: o.Remaining(),
		Unclaimed:       o.Unclaimed(),
	}, nil
}

// ProgressPercent 已执行区间占比(百分数),键为空时为 0。
func (e *Engine) ProgressPercent(key string) uint64 {
	o, ok := e.store.Get(key)
	if !ok || o.TotalIntervals == 0 {
		return 0
	}
	return 100 * o.IntervalsExecuted / o.TotalIntervals
}

// ActiveKeys 当前持有活跃订单的键。
func (e *Engine) ActiveKeys() []string {
	return e.store.Keys()
}
