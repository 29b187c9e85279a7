package order

import "time"

// Direction 表示卖出方向。
type Direction uint8

const (
	// AtoB 卖出 base 资产,换入 quote 资产。
	AtoB Direction = iota
	// BtoA 卖出 quote 资产,换入 base 资产。
	BtoA
)

func (d Direction) String() string {
	switch d {
	case AtoB:
		return "A_TO_B"
	case BtoA:
		return "B_TO_A"
	default:
		return "UNKNOWN"
	}
}

// Order 单个执行键上的分片执行承诺。
// 金额全部为无符号整数(最小计价单位),时间运算只做整区间推进。
// AmountSold 以本金计价,AmountBought/AmountClaimed 以兑换所得计价,两者不混用。
type Order struct {
	Initiator         string        `json:"initiator"`
	Direction         Direction     `json:"direction"`
	TotalAmount       uint64        `json:"total_amount"`
	AmountSold        uint64        `json:"amount_sold"`
	AmountBought      uint64        `json:"amount_bought"`
	AmountClaimed     uint64        `json:"amount_claimed"`
	StartTime         time.Time     `json:"start_time"`
	EndTime           time.Time     `json:"end_time"`
	LastExecutionTime time.Time     `json:"last_execution_time"`
	ExecutionInterval time.Duration `json:"execution_interval"`
	TotalIntervals    uint64        `json:"total_intervals"`
	IntervalsExecuted uint64        `json:"intervals_executed"`
}

// Active 该键上是否存在已承诺本金的订单。
func (o Order) Active() bool { return o.TotalAmount != 0 }

// Complete 承诺本金是否已全部送交场所执行。
func (o Order) Complete() bool { return o.Active() && o.AmountSold >= o.TotalAmount }

// AmountPerInterval 每个区间的固定执行量(整除向下取整)。
// 固定量而非按耗时比例重算,避免多次取整产生漂移。
func (o Order) AmountPerInterval() uint64 {
	if o.TotalIntervals == 0 {
		return 0
	}
	return o.TotalAmount / o.TotalIntervals
}

// Remaining 尚未送交场所执行的剩余本金。
func (o Order) Remaining() uint64 {
	if o.AmountSold >= o.TotalAmount {
		return 0
	}
	return o.TotalAmount - o.AmountSold
}

// Unclaimed 已买入但尚未提取的兑换所得。
func (o Order) Unclaimed() uint64 {
	if o.AmountClaimed >= o.AmountBought {
		return 0
	}
	return o.AmountBought - o.AmountClaimed
}

// RemainingTime 距计划完成时间的剩余时长,已过期返回 0。
func (o Order) RemainingTime(now time.Time) time.Duration {
	if !now.Before(o.EndTime) {
		return 0
	}
	return o.EndTime.Sub(now)
}
